package goCredStore

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the credential store.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrEngineClosed is an exported constant or variable used by the credential store.
	ErrEngineClosed = errors.New("engine closed")
	// ErrBackendRequired is an exported constant or variable used by the credential store.
	ErrBackendRequired = errors.New("storage backend or redis client required")
	// ErrNilCredentials is an exported constant or variable used by the credential store.
	ErrNilCredentials = errors.New("nil credentials")
	// ErrUnknownClearKey is an exported constant or variable used by the credential store.
	ErrUnknownClearKey = errors.New("unknown clear key")
	// ErrTokenExpired is an exported constant or variable used by the credential store.
	ErrTokenExpired = errors.New("user pool token expired")

	errUnknownEvent = errors.New("unknown event variant")
)
