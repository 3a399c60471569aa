package main

import (
	"bytes"
	"flag"
	"fmt"

	"github.com/tidwall/hashmap"
	"github.com/xgzlucario/linkheap"
	"golang.org/x/exp/rand"
)

func main() {
	arenaSize := 0
	seed := uint64(0)
	flag.IntVar(&arenaSize, "arena", 1<<20, "arena size in bytes")
	flag.Uint64Var(&seed, "seed", 1, "random seed")
	flag.Parse()

	h, err := linkheap.New(make([]byte, arenaSize), linkheap.DefaultOptions)
	if err != nil {
		panic(err)
	}
	rnd := rand.New(rand.NewSource(seed))

	// live maps a ref to the pattern byte written into it.
	live := hashmap.New[linkheap.Ref, byte](0)
	var refs []linkheap.Ref

	for i := 0; ; i++ {
		if i%300000 == 0 {
			s := h.Stat()
			fmt.Printf("progress: %dw | live: %d | usage: %.1f%% | frag: %.1f%%\n",
				i/10000, live.Len(), s.Usage(), s.Fragmentation())
			if err := h.Verify(); err != nil {
				panic(err)
			}
		}

		if len(refs) > 0 && rnd.Intn(2) == 0 {
			k := rnd.Intn(len(refs))
			ref := refs[k]
			refs[k] = refs[len(refs)-1]
			refs = refs[:len(refs)-1]

			want, _ := live.Delete(ref)
			buf, err := h.Bytes(ref)
			if err != nil {
				panic(err)
			}
			if !bytes.Equal(buf, bytes.Repeat([]byte{want}, len(buf))) {
				panic("payload clobbered")
			}
			if err := h.Free(ref); err != nil {
				panic(err)
			}
			continue
		}

		ref, _, err := h.Alloc(rnd.Intn(1024))
		if err != nil {
			continue
		}
		buf, _ := h.Bytes(ref)
		pattern := byte(rnd.Uint32())
		for j := range buf {
			buf[j] = pattern
		}
		if _, ok := live.Set(ref, pattern); ok {
			panic("ref handed out twice")
		}
		refs = append(refs, ref)
	}
}
