package linkheap

import (
	"slices"

	"golang.org/x/exp/constraints"
)

const percentileSize = 100 * 10000

type number interface {
	constraints.Integer | constraints.Float
}

// Percentile keeps the latest samples of a latency or size distribution.
type Percentile[T number] struct {
	data   []T
	sorted bool
	pos    int
}

// NewPercentile
func NewPercentile[T number](data ...T) *Percentile[T] {
	p := &Percentile[T]{
		data: make([]T, 0, min(percentileSize, max(len(data), 1024))),
	}
	for _, d := range data {
		p.Add(d)
	}
	return p
}

// Add
func (p *Percentile[T]) Add(data T) {
	p.sorted = false
	if len(p.data) == percentileSize {
		p.pos = (p.pos + 1) % percentileSize
		p.data[p.pos] = data

	} else {
		p.data = append(p.data, data)
	}
}

func (p *Percentile[T]) sort() {
	if !p.sorted {
		slices.Sort(p.data)
		p.sorted = true
	}
}

// Percentile returns the sample at the given percentile, 0 when empty.
func (p *Percentile[T]) Percentile(percentile float64) T {
	if len(p.data) == 0 {
		return 0
	}
	p.sort()
	i := int((percentile / 100) * float64(len(p.data)))
	return p.data[min(i, len(p.data)-1)]
}

// Min
func (p *Percentile[T]) Min() T {
	return p.Percentile(0)
}

// Max
func (p *Percentile[T]) Max() T {
	return p.Percentile(100)
}

// Avg
func (p *Percentile[T]) Avg() float64 {
	if len(p.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.data {
		sum += float64(v)
	}
	return sum / float64(len(p.data))
}

// Len
func (p *Percentile[T]) Len() int {
	return len(p.data)
}
