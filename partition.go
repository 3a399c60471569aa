package linkheap

import "github.com/pkg/errors"

// Partition carves buf into n equal private arenas, one Heap each, for
// per-worker scratch allocation without locking. Refs are local to the heap
// that returned them.
func Partition(buf []byte, n int, options Options) ([]*Heap, error) {
	if n <= 0 {
		return nil, errors.Errorf("linkheap: invalid partition count %d", n)
	}
	part := len(buf) / n

	heaps := make([]*Heap, n)
	for i := range heaps {
		h, err := New(buf[i*part:(i+1)*part:(i+1)*part], options)
		if err != nil {
			return nil, errors.Wrapf(err, "partition %d", i)
		}
		heaps[i] = h
	}
	return heaps, nil
}
