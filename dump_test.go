package linkheap

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
)

func TestDump(t *testing.T) {
	assert := assert.New(t)

	h, _ := newTestHeap(t, 1024)
	a, _, _ := h.Alloc(100)
	_, _, _ = h.Alloc(200)
	assert.Nil(h.Free(a))

	src, err := h.Dump()
	assert.Nil(err)

	var layout layoutJSON
	assert.Nil(sonic.Unmarshal(src, &layout))
	assert.Equal(12, layout.Header)
	assert.Equal(h.Stat(), layout.Stat)
	assert.Equal(h.Buckets(), layout.Classes)
	assert.Equal([]chunkJSON{
		{Offset: 12, Size: 100, Used: false, Class: 6},
		{Offset: 124, Size: 200, Used: true, Class: -1},
		{Offset: 336, Size: 664, Used: false, Class: 9},
	}, layout.Chunks)
}

func TestFingerprint(t *testing.T) {
	assert := assert.New(t)

	h1, _ := newTestHeap(t, 4096)
	h2, _ := newTestHeap(t, 4096)
	assert.Equal(h1.Fingerprint(), h2.Fingerprint())

	for _, size := range []int{10, 20, 30} {
		_, _, err := h1.Alloc(size)
		assert.Nil(err)
		_, _, err = h2.Alloc(size)
		assert.Nil(err)
	}
	assert.Equal(h1.Fingerprint(), h2.Fingerprint())

	_, _, err := h2.Alloc(1)
	assert.Nil(err)
	assert.NotEqual(h1.Fingerprint(), h2.Fingerprint())
}
