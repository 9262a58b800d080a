package keychain

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
)

// ErrCorruptEntry is an exported constant or variable used by the credential store.
var ErrCorruptEntry = errors.New("keychain entry corrupt")

const entryFormatVersionV1 = 1

const maxFieldLen = 1<<16 - 1

func writeField(buf *bytes.Buffer, s string) error {
	if len(s) > maxFieldLen {
		return errors.New("field too long")
	}
	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(s)))
	buf.Write(length[:])
	buf.WriteString(s)
	return nil
}

func readField(r *bytes.Reader) (string, error) {
	var length [2]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return "", ErrCorruptEntry
	}
	n := int(binary.BigEndian.Uint16(length[:]))

	field := make([]byte, n)
	if _, err := io.ReadFull(r, field); err != nil {
		return "", ErrCorruptEntry
	}
	return string(field), nil
}

func encodeAWS(c *credential.AWSCredentials) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(entryFormatVersionV1)
	for _, field := range []string{c.AccessKeyID, c.SecretAccessKey, c.SessionToken} {
		if err := writeField(&buf, field); err != nil {
			return nil, err
		}
	}

	var exp int64
	if !c.Expiration.IsZero() {
		exp = c.Expiration.Unix()
	}
	if err := binary.Write(&buf, binary.BigEndian, exp); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeAWS(data []byte) (*credential.AWSCredentials, error) {
	r, err := entryReader(data)
	if err != nil {
		return nil, err
	}

	out := &credential.AWSCredentials{}
	if out.AccessKeyID, err = readField(r); err != nil {
		return nil, err
	}
	if out.SecretAccessKey, err = readField(r); err != nil {
		return nil, err
	}
	if out.SessionToken, err = readField(r); err != nil {
		return nil, err
	}

	var exp int64
	if err := binary.Read(r, binary.BigEndian, &exp); err != nil {
		return nil, ErrCorruptEntry
	}
	if exp != 0 {
		out.Expiration = time.Unix(exp, 0).UTC()
	}
	return out, nil
}

func encodeUserPool(t *credential.UserPoolTokens) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(entryFormatVersionV1)
	for _, field := range []string{t.AccessToken, t.IDToken, t.RefreshToken} {
		if err := writeField(&buf, field); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeUserPool(data []byte) (*credential.UserPoolTokens, error) {
	r, err := entryReader(data)
	if err != nil {
		return nil, err
	}

	out := &credential.UserPoolTokens{}
	if out.AccessToken, err = readField(r); err != nil {
		return nil, err
	}
	if out.IDToken, err = readField(r); err != nil {
		return nil, err
	}
	if out.RefreshToken, err = readField(r); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeDevice(d *credential.DeviceSecrets) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(entryFormatVersionV1)
	for _, field := range []string{d.DeviceKey, d.DeviceGroupKey, d.DeviceSecret} {
		if err := writeField(&buf, field); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func decodeDevice(data []byte) (*credential.DeviceSecrets, error) {
	r, err := entryReader(data)
	if err != nil {
		return nil, err
	}

	out := &credential.DeviceSecrets{}
	if out.DeviceKey, err = readField(r); err != nil {
		return nil, err
	}
	if out.DeviceGroupKey, err = readField(r); err != nil {
		return nil, err
	}
	if out.DeviceSecret, err = readField(r); err != nil {
		return nil, err
	}
	return out, nil
}

func entryReader(data []byte) (*bytes.Reader, error) {
	if len(data) < 1 || data[0] != entryFormatVersionV1 {
		return nil, ErrCorruptEntry
	}
	return bytes.NewReader(data[1:]), nil
}
