package linkheap

import (
	"github.com/bytedance/sonic"
	"github.com/zeebo/xxh3"
)

type chunkJSON struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	Used   bool   `json:"used"`
	Class  int    `json:"class"`
}

type layoutJSON struct {
	Stat    Stat        `json:"stat"`
	Header  int         `json:"header"`
	Classes []int       `json:"classes"`
	Chunks  []chunkJSON `json:"chunks"`
}

// Dump encodes the chunk layout and counters as JSON.
func (h *Heap) Dump() ([]byte, error) {
	layout := layoutJSON{
		Stat:    h.Stat(),
		Header:  h.HeaderSize(),
		Classes: h.Buckets(),
	}
	h.walk(func(c, size uint32, used bool) bool {
		class := -1
		if !used {
			class = h.classOf(size)
		}
		layout.Chunks = append(layout.Chunks, chunkJSON{c, size, used, class})
		return true
	})
	return sonic.Marshal(layout)
}

// Fingerprint hashes the sequence of chunk offsets and states. Two heaps over
// equally aligned buffers with the same layout have the same fingerprint.
func (h *Heap) Fingerprint() uint64 {
	hasher := xxh3.New()
	var buf [5]byte
	h.walk(func(c, _ uint32, used bool) bool {
		order.PutUint32(buf[:], c)
		buf[4] = 0
		if used {
			buf[4] = 1
		}
		hasher.Write(buf[:])
		return true
	})
	order.PutUint32(buf[:], h.last)
	buf[4] = 1
	hasher.Write(buf[:])
	return hasher.Sum64()
}
