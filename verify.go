package linkheap

import (
	"github.com/pkg/errors"
	"github.com/tidwall/hashmap"
)

// Verify checks every structural invariant of the heap:
//
//   - the address list is circular, strictly ascending and gapless from first to last
//   - back links agree with forward links in both lists
//   - the sentinels are used and no two free chunks are adjacent
//   - every free chunk sits exactly once in the bucket of its size class
//   - the free, used and meta counters match a full recount
//
// It is O(n) in the number of chunks and is meant for tests and Options.Paranoid.
func (h *Heap) Verify() error {
	if h.mem == nil {
		return nil
	}
	if h.chunkPrev(h.first) != h.last || h.chunkNext(h.last) != h.first {
		return errors.Wrap(ErrCorrupt, "address list is not circular")
	}
	if !h.used(h.first) || !h.used(h.last) {
		return errors.Wrap(ErrCorrupt, "sentinel marked free")
	}

	var free, used, meta uint64
	freeChunks := hashmap.New[uint32, int](0)
	prevFree := false

	for c := h.first; c != h.last; {
		meta += uint64(h.hsize)
		next := h.chunkNext(c)
		if next <= c || next > h.last || next-c < h.hsize {
			return errors.Wrapf(ErrCorrupt, "chunk %d links forward to %d", c, next)
		}
		if h.chunkPrev(next) != c {
			return errors.Wrapf(ErrCorrupt, "chunk %d links back to %d, want %d", next, h.chunkPrev(next), c)
		}
		if c != h.first {
			size := next - c - h.hsize
			if size < h.minPayload {
				return errors.Wrapf(ErrCorrupt, "chunk %d has %d bytes", c, size)
			}
			if h.used(c) {
				used += uint64(size)
				prevFree = false
			} else {
				if prevFree {
					return errors.Wrapf(ErrCorrupt, "chunk %d not merged with its predecessor", c)
				}
				free += uint64(size)
				freeChunks.Set(c, h.classOf(size))
				prevFree = true
			}
		}
		c = next
	}
	meta += uint64(h.hsize)

	for class, head := range h.free {
		if head == nilRef {
			continue
		}
		n := head
		for {
			c := h.chunkOfFree(n)
			want, ok := freeChunks.Delete(c)
			if !ok {
				return errors.Wrapf(ErrCorrupt, "bucket %d holds %d which is not a free chunk", class, c)
			}
			if want != class {
				return errors.Wrapf(ErrCorrupt, "chunk %d in bucket %d, want %d", c, class, want)
			}
			next := h.mem.next(n)
			if h.mem.prev(next) != n {
				return errors.Wrapf(ErrCorrupt, "bucket %d broken at %d", class, c)
			}
			n = next
			if n == head {
				break
			}
		}
	}
	if freeChunks.Len() > 0 {
		return errors.Wrapf(ErrCorrupt, "%d free chunks missing from buckets", freeChunks.Len())
	}

	if free != h.freeBytes || used != h.usedBytes || meta != h.metaBytes {
		return errors.Wrapf(ErrCorrupt, "counters free=%d used=%d meta=%d, recount free=%d used=%d meta=%d",
			h.freeBytes, h.usedBytes, h.metaBytes, free, used, meta)
	}
	if free+used+meta != uint64(len(h.mem)) {
		return errors.Wrapf(ErrCorrupt, "counters sum %d, span %d", free+used+meta, len(h.mem))
	}
	return nil
}
