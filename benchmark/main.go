package main

import (
	"flag"
	"fmt"
	"slices"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/xgzlucario/linkheap"
	"golang.org/x/exp/rand"
)

type result struct {
	worker int
	lat    *linkheap.Percentile[time.Duration]
}

func main() {
	arenaSize := 0
	ops := 0
	maxSize := 0
	workers := 0
	flag.IntVar(&arenaSize, "arena", 64<<20, "arena size in bytes")
	flag.IntVar(&ops, "ops", 1000000, "alloc/free operations per worker")
	flag.IntVar(&maxSize, "max-size", 512, "largest allocation in bytes")
	flag.IntVar(&workers, "workers", 1, "workers, each with a private partition")
	flag.Parse()

	fmt.Println("arena:", arenaSize>>20, "mb")
	fmt.Println("ops:", ops, "workers:", workers)

	heaps, err := linkheap.Partition(make([]byte, arenaSize), workers, linkheap.DefaultOptions)
	if err != nil {
		panic(err)
	}

	start := time.Now()
	p := pool.NewWithResults[result]()
	for i, h := range heaps {
		i, h := i, h
		p.Go(func() result {
			return result{i, churn(h, uint64(i), ops, maxSize)}
		})
	}
	results := p.Wait()
	cost := time.Since(start)

	slices.SortFunc(results, func(a, b result) int {
		return a.worker - b.worker
	})
	for _, r := range results {
		i, lat := r.worker, r.lat
		stat := heaps[i].Stat()
		fmt.Printf("[worker %d] chunks: %d | usage: %.1f%% | frag: %.1f%% | fails: %d\n",
			i, stat.Chunks, stat.Usage(), stat.Fragmentation(), ops-lat.Len())
		fmt.Printf("50th = %v\n", lat.Percentile(50))
		fmt.Printf("99th = %v\n", lat.Percentile(99))
		fmt.Printf("100th = %v\n", lat.Max())
	}
	fmt.Println("cost:", cost)
}

// churn keeps a bounded working set of live allocations and replaces a
// random one on every step.
func churn(h *linkheap.Heap, seed uint64, ops, maxSize int) *linkheap.Percentile[time.Duration] {
	rnd := rand.New(rand.NewSource(seed))
	lat := linkheap.NewPercentile[time.Duration]()
	refs := make([]linkheap.Ref, 0, 4096)

	for i := 0; i < ops; i++ {
		if len(refs) == cap(refs) {
			k := rnd.Intn(len(refs))
			h.Free(refs[k])
			refs[k] = refs[len(refs)-1]
			refs = refs[:len(refs)-1]
		}
		t := time.Now()
		ref, _, err := h.Alloc(1 + rnd.Intn(maxSize))
		if err != nil {
			continue
		}
		lat.Add(time.Since(t))
		refs = append(refs, ref)
	}
	return lat
}
