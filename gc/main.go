package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/tidwall/hashmap"
	"github.com/xgzlucario/linkheap"
)

var previousPause time.Duration

func gcPause() time.Duration {
	runtime.GC()
	var stats debug.GCStats
	debug.ReadGCStats(&stats)
	pause := stats.PauseTotal - previousPause
	previousPause = stats.PauseTotal
	return pause
}

func main() {
	c := ""
	entries := 0
	repeat := 0
	valueSize := 0
	flag.StringVar(&c, "store", "linkheap", "store to bench: linkheap, bigcache, stdmap.")
	flag.IntVar(&entries, "entries", 2000000, "number of entries to test")
	flag.IntVar(&repeat, "repeat", 20, "number of repetitions")
	flag.IntVar(&valueSize, "value-size", 100, "size of single entry value in bytes")
	flag.Parse()

	debug.SetGCPercent(10)
	fmt.Println("Store:             ", c)
	fmt.Println("Number of entries: ", entries)
	fmt.Println("Number of repeats: ", repeat)
	fmt.Println("Value size:        ", valueSize)

	var benchFunc func(entries, valueSize int)

	switch c {
	case "bigcache":
		benchFunc = bigCache
	case "linkheap":
		benchFunc = linkHeap
	case "stdmap":
		benchFunc = stdMap
	default:
		fmt.Printf("unknown store: %s", c)
		os.Exit(1)
	}

	benchFunc(entries, valueSize)
	fmt.Println("GC pause for startup: ", gcPause())
	for i := 0; i < repeat; i++ {
		benchFunc(entries, valueSize)
	}

	fmt.Printf("GC pause for %s: %s\n", c, gcPause())
}

func stdMap(entries, valueSize int) {
	m := make(map[string][]byte)
	for i := 0; i < entries; i++ {
		key, val := generateKeyValue(i, valueSize)
		m[key] = val
	}
}

func bigCache(entries, valueSize int) {
	config := bigcache.Config{
		Shards:             256,
		LifeWindow:         100 * time.Minute,
		MaxEntriesInWindow: entries,
		MaxEntrySize:       valueSize + 16,
	}

	cache, _ := bigcache.New(context.Background(), config)
	for i := 0; i < entries; i++ {
		key, val := generateKeyValue(i, valueSize)
		cache.Set(key, val)
	}
}

// linkHeap keeps every value in one pointer-free arena, only the index holds
// GC-visible keys.
func linkHeap(entries, valueSize int) {
	arena := make([]byte, entries*(valueSize+32)+1024)
	h, err := linkheap.New(arena, linkheap.DefaultOptions)
	if err != nil {
		panic(err)
	}
	index := hashmap.New[string, linkheap.Ref](entries)

	for i := 0; i < entries; i++ {
		key, val := generateKeyValue(i, valueSize)
		ref, buf, err := h.Alloc(len(val))
		if err != nil {
			panic(err)
		}
		copy(buf, val)
		if old, ok := index.Set(key, ref); ok {
			h.Free(old)
		}
	}
}

func generateKeyValue(index int, valSize int) (string, []byte) {
	key := fmt.Sprintf("key-%010d", index)
	fixedNumber := []byte(fmt.Sprintf("%010d", index))
	val := append(make([]byte, max(valSize-10, 0)), fixedNumber...)

	return key, val
}
