package linkheap

// Chunk header, at every chunk offset c:
//
//	c                                          c+H
//	+------------+------------+----------+-----+----------------------+
//	|  next(32)  |  prev(32)  | used(32) | pad |  payload ...         |
//	+------------+------------+----------+-----+----------------------+
//	|<-- address list node -->|                |<- free list node  -->|
//	                                           |   (only when free)   |
//
// The size of a chunk is never stored, it is the distance to its successor
// in the address list minus the header.
const (
	linkSize    = 8
	usedOffset  = 8
	rawHeadSize = 12
)

func (h *Heap) chunkInit(c uint32) {
	h.mem.listInit(c)
	h.setUsed(c, false)
}

func (h *Heap) chunkNext(c uint32) uint32 { return h.mem.next(c) }

func (h *Heap) chunkPrev(c uint32) uint32 { return h.mem.prev(c) }

func (h *Heap) used(c uint32) bool {
	return order.Uint32(h.mem[c+usedOffset:]) != 0
}

func (h *Heap) setUsed(c uint32, used bool) {
	var v uint32
	if used {
		v = 1
	}
	order.PutUint32(h.mem[c+usedOffset:], v)
}

// chunkSize must not be called on the last sentinel.
func (h *Heap) chunkSize(c uint32) uint32 {
	return h.mem.next(c) - c - h.hsize
}

// freeNode is the free list node overlaid on the payload of a free chunk.
func (h *Heap) freeNode(c uint32) uint32 { return c + h.hsize }

func (h *Heap) chunkOfFree(n uint32) uint32 { return n - h.hsize }
