package pool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	lerrors "github.com/vango-dev/lumen/internal/errors"
)

type buffer struct {
	data  []byte
	reset int
}

func newTestPool(t *testing.T, cfg Config) *Pool[*buffer] {
	t.Helper()
	p, err := NewWithConfig("test", cfg,
		func() *buffer { return &buffer{data: make([]byte, 0, 8)} },
		func(b *buffer) {
			b.data = b.data[:0]
			b.reset++
		},
	)
	require.NoError(t, err)
	return p
}

func smallConfig() Config {
	return Config{Initial: 2, Max: 4, GrowthFactor: 2, ShrinkThreshold: 0.5, MinSize: 1}
}

func TestAcquireAllocatesWhenEmpty(t *testing.T) {
	p := newTestPool(t, smallConfig())

	a := p.Acquire()
	b := p.Acquire()
	require.NotSame(t, a, b)

	s := p.Stats()
	assert.Equal(t, uint64(2), s.Allocated)
	assert.Equal(t, 2, s.InUse)
	assert.Equal(t, 2, s.HighWater)
}

func TestReleaseResetsAndReuses(t *testing.T) {
	p := newTestPool(t, smallConfig())

	a := p.Acquire()
	a.data = append(a.data, 'x')
	p.Release(a)

	assert.Empty(t, a.data, "released item must be reset")
	assert.Equal(t, 1, a.reset)

	again := p.Acquire()
	assert.Same(t, a, again, "free item should be reused")
	assert.Equal(t, uint64(1), p.Stats().Allocated)
}

func TestResidentItemsNeverExceedMax(t *testing.T) {
	cfg := smallConfig()
	p := newTestPool(t, cfg)

	items := make([]*buffer, 0, cfg.Max+5)
	for i := 0; i < cfg.Max+5; i++ {
		items = append(items, p.Acquire())
	}
	for _, it := range items {
		it.data = append(it.data, 1)
		assert.Len(t, it.data, 1, "excess items must remain usable")
	}
	for _, it := range items {
		p.Release(it)
	}

	s := p.Stats()
	assert.LessOrEqual(t, s.Free, cfg.Max)
	assert.Equal(t, cfg.Max, s.Ceiling, "ceiling grows to max under demand")
	assert.Equal(t, uint64(5), s.Discarded)
}

func TestCeilingGrowsOnlyUnderDemand(t *testing.T) {
	p := newTestPool(t, Config{Initial: 2, Max: 16, GrowthFactor: 2, ShrinkThreshold: 0.25, MinSize: 1})

	a, b := p.Acquire(), p.Acquire()
	p.Release(a)
	p.Release(b)
	assert.Equal(t, 2, p.Stats().Ceiling, "demand within ceiling must not grow it")

	items := []*buffer{p.Acquire(), p.Acquire(), p.Acquire()}
	for _, it := range items {
		p.Release(it)
	}
	s := p.Stats()
	assert.Equal(t, 4, s.Ceiling)
	assert.Equal(t, 3, s.Free)
}

func TestMaybeShrink(t *testing.T) {
	p := newTestPool(t, Config{Initial: 2, Max: 64, GrowthFactor: 2, ShrinkThreshold: 0.5, MinSize: 2})

	burst := make([]*buffer, 40)
	for i := range burst {
		burst[i] = p.Acquire()
	}
	for _, it := range burst {
		p.Release(it)
	}
	require.Equal(t, 64, p.Stats().Ceiling)
	require.Equal(t, 40, p.Stats().Free)

	// First pass: the burst is still the high-water mark, nothing shrinks
	// because 40/64 is above the threshold; the window then restarts.
	p.MaybeShrink()
	assert.Equal(t, 64, p.Stats().Ceiling)

	// Idle window: one item in use.
	it := p.Acquire()
	p.MaybeShrink()
	s := p.Stats()
	assert.Equal(t, 2, s.Ceiling, "ceiling contracts toward max(highWater*growth, minSize, initial)")
	assert.LessOrEqual(t, s.Free, s.Ceiling)
	p.Release(it)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative initial", Config{Initial: -1, Max: 4, GrowthFactor: 2, ShrinkThreshold: 0.5}},
		{"zero max", Config{Initial: 0, Max: 0, GrowthFactor: 2, ShrinkThreshold: 0.5}},
		{"initial above max", Config{Initial: 8, Max: 4, GrowthFactor: 2, ShrinkThreshold: 0.5}},
		{"growth not above one", Config{Initial: 1, Max: 4, GrowthFactor: 1, ShrinkThreshold: 0.5}},
		{"threshold out of range", Config{Initial: 1, Max: 4, GrowthFactor: 2, ShrinkThreshold: 1}},
		{"min above max", Config{Initial: 1, Max: 4, GrowthFactor: 2, ShrinkThreshold: 0.5, MinSize: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Equal(t, lerrors.CategoryConfig, lerrors.CategoryOf(err))
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigureBeforeFirstAcquire(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	p := New("configure-test", func() *int { return new(int) }, nil)
	require.NoError(t, Configure(map[string]Config{
		"configure-test": {Initial: 1, Max: 3},
	}))

	cfg := p.Config()
	assert.Equal(t, 3, cfg.Max)
	assert.Equal(t, DefaultConfig().GrowthFactor, cfg.GrowthFactor, "zero fields fall back to defaults")

	p.Release(p.Acquire())

	err := Configure(map[string]Config{"configure-test": {Initial: 1, Max: 8}})
	assert.ErrorIs(t, err, ErrConfigLocked)
	assert.Equal(t, 3, p.Config().Max, "locked pool keeps its policy")
}

func TestConfigureRejectsInvalidAtomically(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	p := New("atomic-test", func() *int { return new(int) }, nil)
	err := Configure(map[string]Config{
		"atomic-test": {Initial: 1, Max: 2},
		"broken":      {Initial: 1, Max: 2, GrowthFactor: 0.5},
	})
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, DefaultConfig().Max, p.Config().Max)
}

func TestConfigureAppliesToLaterPools(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	require.NoError(t, Configure(map[string]Config{"later": {Initial: 4, Max: 9}}))
	p := New("later", func() *int { return new(int) }, nil)
	assert.Equal(t, 9, p.Config().Max)
}

func TestConfigureSmallPool(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	p := New("small", func() *int { return new(int) }, nil)
	require.NoError(t, Configure(map[string]Config{
		"small": {Max: 16, GrowthFactor: 2, ShrinkThreshold: 0.5},
	}))
	cfg := p.Config()
	assert.Equal(t, 16, cfg.Max)
	assert.Equal(t, 0, cfg.Initial)
	assert.Equal(t, 0, cfg.MinSize)
}

func TestConfigureKeepsZeroInitialAndMinSize(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	p := New("zeroes", func() *int { return new(int) }, nil)
	require.NoError(t, Configure(map[string]Config{
		"zeroes": {Initial: 0, MinSize: 0, Max: 64, GrowthFactor: 2, ShrinkThreshold: 0.25},
	}))
	assert.Equal(t, Config{Max: 64, GrowthFactor: 2, ShrinkThreshold: 0.25}, p.Config())

	// A zero ceiling still grows once demand shows up.
	a, b := p.Acquire(), p.Acquire()
	p.Release(a)
	p.Release(b)
	assert.Positive(t, p.Stats().Free)
}

func TestConfigUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Config
	}{
		{
			name: "defaults",
			in:   "{}",
			want: DefaultConfig(),
		},
		{
			name: "small max clamps defaulted fields",
			in:   "max: 16",
			want: Config{Initial: 16, Max: 16, GrowthFactor: 2, ShrinkThreshold: 0.25, MinSize: 8},
		},
		{
			name: "tiny max",
			in:   "max: 4",
			want: Config{Initial: 4, Max: 4, GrowthFactor: 2, ShrinkThreshold: 0.25, MinSize: 4},
		},
		{
			name: "explicit zeroes",
			in:   "initial: 0\nminSize: 0",
			want: Config{Initial: 0, Max: 1024, GrowthFactor: 2, ShrinkThreshold: 0.25, MinSize: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Config
			require.NoError(t, yaml.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}

	var cfg Config
	err := yaml.Unmarshal([]byte("maximum: 3"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum")
}

func TestResetClearsCounters(t *testing.T) {
	Reset()
	p := New("reset-test", func() *int { return new(int) }, nil)
	p.Release(p.Acquire())
	require.Equal(t, uint64(1), p.Stats().Acquired)

	Reset()
	s := p.Stats()
	assert.Zero(t, s.Acquired)
	assert.Zero(t, s.Free)
}

func TestCollector(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	p := New("collector-test", func() *int { return new(int) }, nil)
	p.Release(p.Acquire())

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector("lumen")))

	count, err := testutil.GatherAndCount(reg, "lumen_pool_free_items")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)

	var found bool
	for _, s := range Snapshot() {
		if s.Name == "collector-test" {
			found = true
			assert.Equal(t, 1, s.Free)
		}
	}
	assert.True(t, found)
}
