package linkheap

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	families, err := reg.Gather()
	assert.Nil(t, err)

	values := make(map[string]float64, len(families))
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case dto.MetricType_GAUGE:
			values[mf.GetName()] = m.GetGauge().GetValue()
		}
	}
	return values
}

func TestMetricsHeap(t *testing.T) {
	assert := assert.New(t)

	h, _ := newTestHeap(t, 1024)
	reg := prometheus.NewRegistry()
	m := NewMetricsHeap(h, reg, "test")

	a, _, err := m.Alloc(100)
	assert.Nil(err)
	_, _, err = m.Alloc(200)
	assert.Nil(err)
	_, _, err = m.Alloc(4000)
	assert.ErrorIs(err, ErrNoSpace)
	assert.Nil(m.Free(a))
	assert.ErrorIs(m.Free(a), ErrDoubleFree)

	values := gather(t, reg)
	assert.Equal(2.0, values["test_linkheap_allocs_total"])
	assert.Equal(300.0, values["test_linkheap_alloc_bytes_total"])
	assert.Equal(1.0, values["test_linkheap_alloc_failures_total"])
	assert.Equal(1.0, values["test_linkheap_frees_total"])
	assert.Equal(1.0, values["test_linkheap_inuse_objects"])

	// unregistered
	m2 := NewMetricsHeap[Allocator](h, nil, "")
	ref, _, err := m2.Alloc(8)
	assert.Nil(err)
	assert.Nil(m2.Free(ref))
}

func TestCollector(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSync(make([]byte, 4096), DefaultOptions)
	assert.Nil(err)
	_, _, err = s.Alloc(64)
	assert.Nil(err)

	reg := prometheus.NewRegistry()
	assert.Nil(reg.Register(NewCollector("test", s)))

	values := gather(t, reg)
	assert.Equal(64.0, values["test_linkheap_used_bytes"])
	assert.Equal(float64(4096-36-64-12), values["test_linkheap_free_bytes"])
	assert.Equal(48.0, values["test_linkheap_meta_bytes"])
	assert.Equal(float64(4096-24), values["test_linkheap_capacity_bytes"])
	assert.Equal(2.0, values["test_linkheap_chunks"])
	assert.Equal(float64(4096-36-64-12), values["test_linkheap_largest_free_bytes"])
}
