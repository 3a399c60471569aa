package linkheap

import "sync"

// SyncHeap serializes every call into a Heap with a mutex.
type SyncHeap struct {
	sync.Mutex
	heap *Heap
}

// NewSync bootstraps a Heap over buf and guards it.
func NewSync(buf []byte, options Options) (*SyncHeap, error) {
	h, err := New(buf, options)
	if err != nil {
		return nil, err
	}
	return Synchronized(h), nil
}

// Synchronized guards an existing heap. The caller must stop using h directly.
func Synchronized(h *Heap) *SyncHeap {
	return &SyncHeap{heap: h}
}

func (s *SyncHeap) Alloc(size int) (Ref, []byte, error) {
	s.Lock()
	defer s.Unlock()
	return s.heap.Alloc(size)
}

func (s *SyncHeap) Free(ref Ref) error {
	s.Lock()
	defer s.Unlock()
	return s.heap.Free(ref)
}

func (s *SyncHeap) Bytes(ref Ref) ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	return s.heap.Bytes(ref)
}

func (s *SyncHeap) Stat() Stat {
	s.Lock()
	defer s.Unlock()
	return s.heap.Stat()
}

func (s *SyncHeap) Verify() error {
	s.Lock()
	defer s.Unlock()
	return s.heap.Verify()
}
