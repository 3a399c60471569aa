package main

import (
	"fmt"

	"github.com/xgzlucario/linkheap"
	"go.uber.org/zap"
)

func printStat(name string, h *linkheap.Heap) {
	s := h.Stat()
	fmt.Printf("[%s] chunks: %d | free: %d | used: %d | meta: %d | buckets: %v\n",
		name, s.Chunks, s.FreeBytes, s.UsedBytes, s.MetaBytes, h.Buckets())
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	options := linkheap.DefaultOptions
	options.Paranoid = true
	options.Logger = logger

	// Reuse a freed chunk.
	h, err := linkheap.New(make([]byte, 1024), options)
	if err != nil {
		panic(err)
	}
	a, _, _ := h.Alloc(100)
	b, _, _ := h.Alloc(200)
	printStat("alloc a,b", h)

	h.Free(a)
	c, _, _ := h.Alloc(50)
	printStat("free a, alloc c", h)
	fmt.Println("a:", a, "b:", b, "c:", c)

	// Three-way merge.
	h, _ = linkheap.New(make([]byte, 4096), options)
	refs := make([]linkheap.Ref, 3)
	for i := range refs {
		refs[i], _, _ = h.Alloc(64)
	}
	h.Free(refs[1])
	h.Free(refs[0])
	printStat("free middle, first", h)
	h.Free(refs[2])
	printStat("free last", h)

	// Out of memory is an error, not a crash.
	h, _ = linkheap.New(make([]byte, 64), options)
	if _, _, err := h.Alloc(1000); err != nil {
		fmt.Println("alloc 1000:", err)
	}
	ref, p, _ := h.Alloc(8)
	copy(p, "linkheap")
	printStat("tiny", h)

	src, _ := h.Dump()
	fmt.Println(string(src))

	h.Free(ref)
	if err := h.Deinit(); err != nil {
		panic(err)
	}
}
