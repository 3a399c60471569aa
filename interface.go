package linkheap

// Allocator is the capability containers are handed at construction.
//
// Implementations:
//   - *Heap: the allocator itself, single owner
//   - *SyncHeap: a Heap guarded by a mutex
//   - *MetricsHeap: a decorator counting calls into prometheus
type Allocator interface {
	// Alloc returns a ref and a slice of at least size bytes.
	Alloc(size int) (Ref, []byte, error)

	// Free returns a ref obtained from Alloc on the same allocator.
	Free(ref Ref) error
}

var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*SyncHeap)(nil)
	_ Allocator = (*MetricsHeap[*Heap])(nil)
)
