//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	goCredStore "github.com/MrEthical07/goCredStore"
	"github.com/MrEthical07/goCredStore/credential"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newIntegrationEngine(t *testing.T, mutate func(*goCredStore.Config)) (*goCredStore.Engine, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := goCredStore.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := goCredStore.New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr
}

func redisClientFor(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func makeBundle(identity string) *credential.Bundle {
	return &credential.Bundle{
		IdentityID: &identity,
		AWS: &credential.AWSCredentials{
			AccessKeyID:     "AKIAINTEGRATION",
			SecretAccessKey: "integration-secret",
			SessionToken:    "integration-session",
			Expiration:      time.Now().Add(time.Hour).Truncate(time.Second).UTC(),
		},
		UserPool: &credential.UserPoolTokens{
			AccessToken:  "integration.access.token",
			IDToken:      "integration.id.token",
			RefreshToken: "integration-refresh",
		},
		Device: &credential.DeviceSecrets{
			DeviceKey:      "integration-device-key",
			DeviceGroupKey: "integration-device-group",
			DeviceSecret:   "integration-device-secret",
		},
	}
}
