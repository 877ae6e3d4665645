package pool

import "github.com/prometheus/client_golang/prometheus"

// Collector exports pool statistics to Prometheus.
type Collector struct {
	free      *prometheus.Desc
	ceiling   *prometheus.Desc
	inUse     *prometheus.Desc
	highWater *prometheus.Desc
	allocated *prometheus.Desc
	discarded *prometheus.Desc
}

// NewCollector returns a collector reading the process-wide pool registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "lumen"
	}
	labels := []string{"pool"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, labels, nil)
	}
	return &Collector{
		free:      desc("free_items", "Items currently held in the free list"),
		ceiling:   desc("ceiling_items", "Current capacity ceiling of the free list"),
		inUse:     desc("in_use_items", "Items acquired and not yet released"),
		highWater: desc("high_water_items", "Peak concurrent demand since the last shrink"),
		allocated: desc("allocated_total", "Items allocated because the free list was empty"),
		discarded: desc("discarded_total", "Released items dropped because the free list was full"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.free
	ch <- c.ceiling
	ch <- c.inUse
	ch <- c.highWater
	ch <- c.allocated
	ch <- c.discarded
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(s.Free), s.Name)
		ch <- prometheus.MustNewConstMetric(c.ceiling, prometheus.GaugeValue, float64(s.Ceiling), s.Name)
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse), s.Name)
		ch <- prometheus.MustNewConstMetric(c.highWater, prometheus.GaugeValue, float64(s.HighWater), s.Name)
		ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(s.Allocated), s.Name)
		ch <- prometheus.MustNewConstMetric(c.discarded, prometheus.CounterValue, float64(s.Discarded), s.Name)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
