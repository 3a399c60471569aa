package linkheap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsHeap counts the calls going through an upstream allocator.
type MetricsHeap[U Allocator] struct {
	upstream U

	allocCounter      prometheus.Counter
	allocBytesCounter prometheus.Counter
	failureCounter    prometheus.Counter
	freeCounter       prometheus.Counter
	inuseObjectsGauge prometheus.Gauge
}

// NewMetricsHeap registers its metrics with reg. A nil reg leaves them unregistered.
func NewMetricsHeap[U Allocator](upstream U, reg prometheus.Registerer, namespace string) *MetricsHeap[U] {
	factory := promauto.With(reg)
	return &MetricsHeap[U]{
		upstream: upstream,
		allocCounter: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linkheap_allocs_total",
			Help:      "Successful allocations.",
		}),
		allocBytesCounter: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linkheap_alloc_bytes_total",
			Help:      "Bytes requested by successful allocations.",
		}),
		failureCounter: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linkheap_alloc_failures_total",
			Help:      "Allocations that failed for lack of space.",
		}),
		freeCounter: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linkheap_frees_total",
			Help:      "Successful frees.",
		}),
		inuseObjectsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "linkheap_inuse_objects",
			Help:      "Live allocations.",
		}),
	}
}

func (m *MetricsHeap[U]) Alloc(size int) (Ref, []byte, error) {
	ref, buf, err := m.upstream.Alloc(size)
	if err != nil {
		m.failureCounter.Inc()
		return ref, buf, err
	}
	m.allocCounter.Inc()
	m.allocBytesCounter.Add(float64(size))
	m.inuseObjectsGauge.Inc()
	return ref, buf, nil
}

func (m *MetricsHeap[U]) Free(ref Ref) error {
	if err := m.upstream.Free(ref); err != nil {
		return err
	}
	m.freeCounter.Inc()
	m.inuseObjectsGauge.Dec()
	return nil
}

// Statter is anything that can summarize a heap.
type Statter interface {
	Stat() Stat
}

// Collector exports the counters of a heap as gauges on every scrape.
type Collector struct {
	src Statter

	freeBytes   *prometheus.Desc
	usedBytes   *prometheus.Desc
	metaBytes   *prometheus.Desc
	capacity    *prometheus.Desc
	chunks      *prometheus.Desc
	largestFree *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector scrapes src. Use a *SyncHeap when the heap is shared.
func NewCollector(namespace string, src Statter) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "linkheap", name), help, nil, nil)
	}
	return &Collector{
		src:         src,
		freeBytes:   desc("free_bytes", "Payload bytes held by free chunks."),
		usedBytes:   desc("used_bytes", "Payload bytes handed out to callers."),
		metaBytes:   desc("meta_bytes", "Bytes taken by chunk headers."),
		capacity:    desc("capacity_bytes", "Arena bytes excluding sentinel headers."),
		chunks:      desc("chunks", "Chunks between the sentinels."),
		largestFree: desc("largest_free_bytes", "Payload of the largest free chunk."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.freeBytes
	ch <- c.usedBytes
	ch <- c.metaBytes
	ch <- c.capacity
	ch <- c.chunks
	ch <- c.largestFree
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stat := c.src.Stat()
	gauge := func(desc *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v)
	}
	gauge(c.freeBytes, float64(stat.FreeBytes))
	gauge(c.usedBytes, float64(stat.UsedBytes))
	gauge(c.metaBytes, float64(stat.MetaBytes))
	gauge(c.capacity, float64(stat.Capacity))
	gauge(c.chunks, float64(stat.Chunks))
	gauge(c.largestFree, float64(stat.LargestFree))
}
