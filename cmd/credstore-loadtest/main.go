package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goCredStore/credential"
	"github.com/MrEthical07/goCredStore/keychain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type profileState struct {
	store *keychain.Store
	seq   int
	mu    sync.Mutex
}

func main() {
	var (
		profiles    = flag.Int("profiles", 10000, "number of credential profiles to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (load + store)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "cs", "keychain key prefix")
		passphrase  = flag.String("passphrase", "", "seal entries with this passphrase (argon2id + AES-GCM)")
	)
	flag.Parse()

	if *profiles <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "profiles, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	states := make([]profileState, *profiles)
	fmt.Printf("seeding %d profiles...\n", *profiles)
	startSeed := time.Now()
	for i := 0; i < *profiles; i++ {
		store, err := keychain.NewStore(client, keychain.Config{
			Prefix:     fmt.Sprintf("%s:%d", *prefix, i),
			Passphrase: *passphrase,
			// Lightweight argon parameters: the run measures redis and
			// encoding throughput, not key stretching.
			ArgonMemory:      8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "new store failed: %v\n", err)
			os.Exit(1)
		}
		states[i] = profileState{store: store}
		if _, err := store.Store(ctx, buildBundle(i, 0)); err != nil {
			fmt.Fprintf(os.Stderr, "seed store failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	loadStats := runLoadPhase(ctx, states, *ops, *concurrency)
	storeStats := runStorePhase(ctx, states, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("load", loadStats)
	printStats("store", storeStats)
}

func runLoadPhase(ctx context.Context, states []profileState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				bundle, err := states[idx].store.Load(ctx)
				d := time.Since(t0)
				if err != nil || bundle.IsEmpty() {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runStorePhase(ctx context.Context, states []profileState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				state := &states[idx]

				state.mu.Lock()
				state.seq++
				rotated := &credential.Bundle{
					UserPool: &credential.UserPoolTokens{
						AccessToken:  fmt.Sprintf("access-%d-%d", idx, state.seq),
						IDToken:      fmt.Sprintf("id-%d-%d", idx, state.seq),
						RefreshToken: fmt.Sprintf("refresh-%d-%d", idx, state.seq),
					},
				}
				t0 := time.Now()
				_, err := state.store.Store(ctx, rotated)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				state.mu.Unlock()

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func buildBundle(profile, seq int) *credential.Bundle {
	id := fmt.Sprintf("us-east-1:%08d", profile)
	return &credential.Bundle{
		IdentityID: &id,
		AWS: &credential.AWSCredentials{
			AccessKeyID:     fmt.Sprintf("AKIA%08d", profile),
			SecretAccessKey: fmt.Sprintf("secret-%d-%d", profile, seq),
			SessionToken:    fmt.Sprintf("session-%d-%d", profile, seq),
			Expiration:      time.Now().Add(time.Hour).UTC(),
		},
		UserPool: &credential.UserPoolTokens{
			AccessToken:  fmt.Sprintf("access-%d-%d", profile, seq),
			IDToken:      fmt.Sprintf("id-%d-%d", profile, seq),
			RefreshToken: fmt.Sprintf("refresh-%d-%d", profile, seq),
		},
		Device: &credential.DeviceSecrets{
			DeviceKey:      fmt.Sprintf("device-%d", profile),
			DeviceGroupKey: "load-test-group",
			DeviceSecret:   fmt.Sprintf("device-secret-%d", profile),
		},
	}
}
