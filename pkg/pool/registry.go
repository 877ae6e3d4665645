package pool

import (
	"sort"
	"sync"

	lerrors "github.com/vango-dev/lumen/internal/errors"
)

// registry tracks every process-wide pool and the configuration requested
// for each name, including names whose pool has not been created yet.
var registry = struct {
	mu      sync.Mutex
	pools   map[string]managed
	configs map[string]Config
}{
	pools:   make(map[string]managed),
	configs: make(map[string]Config),
}

func register(p managed) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.pools[p.name()] = p
}

func configFor(name string) Config {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if cfg, ok := registry.configs[name]; ok {
		return cfg
	}
	return DefaultConfig()
}

// Configure sets the policy for the named pools. It must be called before
// rendering begins: every config is validated first, and if any target pool
// has already served an Acquire nothing is applied and ErrConfigLocked is
// returned. A zero Max, GrowthFactor or ShrinkThreshold falls back to
// DefaultConfig; a zero Initial or MinSize is kept.
func Configure(configs map[string]Config) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	merged := make(map[string]Config, len(configs))
	for name, cfg := range configs {
		cfg = cfg.Merge(DefaultConfig())
		if err := cfg.Validate(); err != nil {
			return lerrors.FromError(err, "L001").WithDetailf("pool %q: %s", name, detailOf(err))
		}
		merged[name] = cfg
	}

	for name := range merged {
		if p, ok := registry.pools[name]; ok && p.stats().Acquired > 0 {
			return lerrors.New("L002").WithDetailf("pool %q already in use", name)
		}
	}

	for name, cfg := range merged {
		registry.configs[name] = cfg
		if p, ok := registry.pools[name]; ok {
			if err := p.reconfigure(cfg, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reset drops all configured policies, restores every registered pool to
// DefaultConfig and clears its free list and counters.
func Reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.configs = make(map[string]Config)
	for _, p := range registry.pools {
		_ = p.reconfigure(DefaultConfig(), true)
	}
}

// MaybeShrinkAll runs MaybeShrink on every registered pool.
func MaybeShrinkAll() {
	for _, p := range snapshotPools() {
		p.maybeShrink()
	}
}

// Snapshot returns Stats for every registered pool, sorted by name.
func Snapshot() []Stats {
	pools := snapshotPools()
	out := make([]Stats, 0, len(pools))
	for _, p := range pools {
		out = append(out, p.stats())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func snapshotPools() []managed {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	out := make([]managed, 0, len(registry.pools))
	for _, p := range registry.pools {
		out = append(out, p)
	}
	return out
}

func detailOf(err error) string {
	if le, ok := err.(*lerrors.LumenError); ok && le.Detail != "" {
		return le.Detail
	}
	return err.Error()
}
