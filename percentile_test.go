package linkheap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	assert := assert.New(t)

	p := NewPercentile[float64]()
	assert.Zero(p.Max())
	assert.Zero(p.Avg())

	for i := 0; i < 100; i++ {
		p.Add(float64(i))
	}
	assert.Equal(0.0, p.Min())
	assert.Equal(99.0, p.Max())
	assert.Equal(49.5, p.Avg())
	assert.Equal(50.0, p.Percentile(50))
	assert.Equal(99.0, p.Percentile(99))
	assert.Equal(100, p.Len())

	d := NewPercentile(time.Second, time.Millisecond, time.Microsecond)
	assert.Equal(time.Microsecond, d.Min())
	assert.Equal(time.Second, d.Max())
}
