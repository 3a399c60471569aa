package linkheap

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Ref is the offset of an allocation's payload inside the heap's aligned arena.
type Ref uint32

// Heap is a segregated-fit, coalescing allocator over a caller-owned buffer.
//
// Every chunk, used or free, is threaded into one address-ordered circular list;
// free chunks are additionally threaded into the bucket of their size class.
//
//	first                                                             last
//	+------+-----------+------+--------------+------+--------+------+------+
//	| hdr  |  payload  | hdr  |  free links  | hdr  |  ...   | hdr  | hdr  |
//	+------+-----------+------+--------------+------+--------+------+------+
//	       ^                  ^
//	      Ref             free list node
//
// A Heap is not safe for concurrent use; see SyncHeap and Partition.
type Heap struct {
	options Options
	log     *zap.Logger

	// mem is the aligned working region of the caller's buffer.
	mem links

	hsize      uint32
	minPayload uint32
	first      uint32
	last       uint32

	// free holds the head free list node of every size class, nilRef when empty.
	free []uint32

	// runtime stats.
	freeBytes uint64
	usedBytes uint64
	metaBytes uint64
}

// New bootstraps a Heap over buf. The heap never owns buf: it must outlive the
// heap and must not be touched by the caller outside of allocations.
func New(buf []byte, options Options) (*Heap, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}
	h := &Heap{options: options}
	if err := h.Init(buf); err != nil {
		return nil, err
	}
	return h, nil
}

// Init (re)bootstraps the heap over buf, dropping any previous state.
// A zero Heap is initialized with DefaultOptions.
func (h *Heap) Init(buf []byte) error {
	if h.options == (Options{}) {
		h.options = DefaultOptions
	}
	if err := checkOptions(h.options); err != nil {
		return err
	}
	h.log = h.options.Logger
	if h.log == nil {
		h.log = zap.NewNop()
	}
	h.log = h.log.Named("linkheap")

	align := uintptr(h.options.Alignment)
	hsize := uint32(alignUp(rawHeadSize, align))
	minPayload := uint32(alignUp(linkSize, align))

	addr := addrOf(buf)
	lo, hi := alignUp(addr, align), alignDown(addr+uintptr(len(buf)), align)
	if hi < lo || hi-lo < uintptr(3*hsize+minPayload) {
		return errors.Wrapf(ErrArenaTooSmall, "%d bytes", len(buf))
	}
	if uint64(hi-lo) >= math.MaxUint32 {
		return errors.Wrapf(ErrArenaTooLarge, "%d bytes", len(buf))
	}
	start, span := lo-addr, uint32(hi-lo)

	h.mem = links(buf[start : start+uintptr(span) : start+uintptr(span)])
	h.hsize = hsize
	h.minPayload = minPayload
	h.free = make([]uint32, h.options.NumSizeClasses)
	for i := range h.free {
		h.free[i] = nilRef
	}

	// boundary chunks and the initial center.
	h.first, h.last = 0, span-hsize
	second := h.first + hsize

	h.chunkInit(h.first)
	h.chunkInit(second)
	h.chunkInit(h.last)
	h.mem.listInsertAfter(h.first, second)
	h.mem.listInsertAfter(second, h.last)

	// first and last are used forever so they never get merged.
	h.setUsed(h.first, true)
	h.setUsed(h.last, true)

	size := h.chunkSize(second)
	h.pushFree(second)

	h.freeBytes = uint64(size)
	h.usedBytes = 0
	h.metaBytes = uint64(3 * hsize)

	h.log.Debug("init",
		zap.Int("buffer", len(buf)),
		zap.Uintptr("skip", start),
		zap.Uint32("span", span),
		zap.Uint32("header", hsize),
		zap.Uint32("free", size),
		zap.Int("class", h.classOf(size)),
	)
	h.check()
	return nil
}

// Deinit drops the bookkeeping. The buffer is left untouched. It reports
// ErrLiveChunks when allocations were still outstanding.
func (h *Heap) Deinit() error {
	live := h.usedBytes

	h.mem = nil
	h.free = nil
	h.first, h.last = 0, 0
	h.freeBytes, h.usedBytes, h.metaBytes = 0, 0, 0

	if live > 0 {
		h.log.Warn("deinit with live chunks", zap.Uint64("used", live))
		return errors.Wrapf(ErrLiveChunks, "%d bytes in use", live)
	}
	return nil
}

// Alloc returns at least size bytes, aligned to Options.Alignment and not zeroed.
// The slice has len size and cap equal to the chunk's payload.
// It fails with ErrTooLarge or ErrNoSpace and never moves live allocations.
func (h *Heap) Alloc(size int) (Ref, []byte, error) {
	if h.mem == nil {
		return 0, nil, ErrNoSpace
	}
	if size < 0 || uint64(size) > math.MaxUint32-uint64(h.options.Alignment) {
		return 0, nil, errors.Wrapf(ErrTooLarge, "%d bytes", size)
	}

	want := uint32(alignUp(uintptr(size), uintptr(h.options.Alignment)))
	want = max(want, h.minPayload)

	// one class up: every chunk there is certified large enough.
	class := sizeClass(want-1) + 1
	if class >= len(h.free) {
		return 0, nil, errors.Wrapf(ErrTooLarge, "%d bytes", size)
	}
	found := h.findClass(class)
	if found < 0 {
		h.log.Debug("no space", zap.Int("size", size), zap.Int("class", class), zap.Uint64("free", h.freeBytes))
		return 0, nil, errors.Wrapf(ErrNoSpace, "%d bytes", size)
	}

	c := h.popFree(found)
	csize := h.chunkSize(c)
	h.freeBytes -= uint64(csize)

	// split the chunk.
	if csize >= want+h.hsize+h.minPayload {
		nc := c + h.hsize + want
		h.chunkInit(nc)
		h.mem.listInsertAfter(c, nc)
		h.pushFree(nc)

		h.metaBytes += uint64(h.hsize)
		h.freeBytes += uint64(h.chunkSize(nc))
		csize = want
	}

	h.setUsed(c, true)
	h.usedBytes += uint64(csize)
	h.check()

	ref := c + h.hsize
	return Ref(ref), h.mem[ref : ref+uint32(size) : ref+csize], nil
}

// Free returns the chunk of ref to the heap, merging it with free neighbors.
func (h *Heap) Free(ref Ref) error {
	if h.mem == nil {
		return ErrBadRef
	}
	c, err := h.chunkOf(ref)
	if err != nil {
		h.log.Warn("rejected free", zap.Uint32("ref", uint32(ref)), zap.Error(err))
		return err
	}

	size := h.chunkSize(c)
	h.usedBytes -= uint64(size)
	h.freeBytes += uint64(size)
	h.setUsed(c, false)

	// absorb the successor, its bytes become part of c.
	if next := h.chunkNext(c); !h.used(next) {
		h.removeFree(next)
		h.mem.listRemove(next)
		h.metaBytes -= uint64(h.hsize)
		h.freeBytes += uint64(h.hsize)
	}

	// fold c into the predecessor, re-derived after the first merge.
	if prev := h.chunkPrev(c); !h.used(prev) {
		h.removeFree(prev)
		h.mem.listRemove(c)
		h.metaBytes -= uint64(h.hsize)
		h.freeBytes += uint64(h.hsize)
		c = prev
	}

	h.pushFree(c)
	h.check()
	return nil
}

// Bytes returns the whole payload of a live allocation.
func (h *Heap) Bytes(ref Ref) ([]byte, error) {
	if h.mem == nil {
		return nil, ErrBadRef
	}
	c, err := h.chunkOf(ref)
	if err != nil {
		return nil, err
	}
	r := uint32(ref)
	return h.mem[r : r+h.chunkSize(c) : r+h.chunkSize(c)], nil
}

// chunkOf recovers and validates the live chunk behind ref.
func (h *Heap) chunkOf(ref Ref) (uint32, error) {
	r := uint32(ref)
	if r%h.options.Alignment != 0 || r < 2*h.hsize || r > h.last {
		return 0, errors.Wrapf(ErrBadRef, "ref %d out of arena", r)
	}
	c := r - h.hsize

	next, prev := h.chunkNext(c), h.chunkPrev(c)
	if next <= c || next > h.last || prev >= c || h.chunkNext(prev) != c {
		return 0, errors.Wrapf(ErrBadRef, "ref %d is not a chunk", r)
	}
	if !h.used(c) {
		return 0, errors.Wrapf(ErrDoubleFree, "ref %d", r)
	}
	return c, nil
}

func (h *Heap) check() {
	if !h.options.Paranoid {
		return
	}
	if err := h.Verify(); err != nil {
		panic(err)
	}
}

// FreeBytes returns the payload bytes held by free chunks.
func (h *Heap) FreeBytes() uint64 { return h.freeBytes }

// UsedBytes returns the payload bytes handed out to callers.
func (h *Heap) UsedBytes() uint64 { return h.usedBytes }

// MetaBytes returns the bytes taken by chunk headers, sentinels included.
func (h *Heap) MetaBytes() uint64 { return h.metaBytes }

// Span returns the size of the aligned arena.
func (h *Heap) Span() uint64 { return uint64(len(h.mem)) }

// Capacity returns the aligned arena minus the two sentinel headers.
func (h *Heap) Capacity() uint64 {
	if h.mem == nil {
		return 0
	}
	return uint64(len(h.mem)) - 2*uint64(h.hsize)
}

// HeaderSize returns the per-chunk header overhead.
func (h *Heap) HeaderSize() int { return int(h.hsize) }
