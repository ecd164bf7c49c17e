package status

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Registry to Prometheus
// Metric names are derived from registry keys: "overlap.fired.total" -> "<ns>_overlap_fired_total"
// Int keys ending in ".total" are exported as counters, everything else as gauges
// Strings are exported as "<name>_info" gauges with the value in a "value" label
type Collector struct {
	registry  *Registry
	namespace string
}

// NewCollector registers a collector for reg against the provided registerer
// Register it once per registerer: unchecked collectors are not deduplicated
func NewCollector(reg *Registry, namespace string, registerer prometheus.Registerer) (*Collector, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	c := &Collector{registry: reg, namespace: namespace}
	if err := registerer.Register(c); err != nil {
		return nil, fmt.Errorf("register status collector: %w", err)
	}
	return c, nil
}

// Describe implements prometheus.Collector
// Sends nothing: the metric set grows as trackers register keys, making this an unchecked collector
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.registry == nil {
		return
	}

	c.registry.Ints.Range(func(key string, v *atomic.Int64) {
		vt := prometheus.GaugeValue
		if strings.HasSuffix(key, ".total") {
			vt = prometheus.CounterValue
		}
		c.emit(ch, key, vt, float64(v.Load()))
	})
	c.registry.Floats.Range(func(key string, v *AtomicFloat) {
		c.emit(ch, key, prometheus.GaugeValue, v.Get())
	})
	c.registry.Bools.Range(func(key string, v *atomic.Bool) {
		val := 0.0
		if v.Load() {
			val = 1
		}
		c.emit(ch, key, prometheus.GaugeValue, val)
	})
	c.registry.Strings.Range(func(key string, v *AtomicString) {
		desc := prometheus.NewDesc(c.metricName(key)+"_info", "status string "+key, []string{"value"}, nil)
		if m, err := prometheus.NewConstMetric(desc, prometheus.GaugeValue, 1, v.Load()); err == nil {
			ch <- m
		}
	})
}

func (c *Collector) emit(ch chan<- prometheus.Metric, key string, vt prometheus.ValueType, val float64) {
	desc := prometheus.NewDesc(c.metricName(key), "status metric "+key, nil, nil)
	if m, err := prometheus.NewConstMetric(desc, vt, val); err == nil {
		ch <- m
	}
}

func (c *Collector) metricName(key string) string {
	name := sanitize(key)
	if c.namespace != "" {
		name = sanitize(c.namespace) + "_" + name
	}
	return name
}

// sanitize maps a registry key onto the Prometheus metric name alphabet
func sanitize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
