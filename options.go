package linkheap

import (
	"math/bits"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// maxSizeClasses bounds the table: 32-bit offsets never need a higher class.
	maxSizeClasses = 32
)

// Options is the configuration of Heap.
type Options struct {
	// Alignment of every chunk and payload, a power of two >= 4.
	Alignment uint32

	// NumSizeClasses is the width of the free-list table.
	NumSizeClasses int

	// Paranoid runs Verify after every mutation and panics on a violation.
	Paranoid bool

	// Logger receives bootstrap and failure events. nil discards them.
	Logger *zap.Logger
}

// DefaultOptions
var DefaultOptions = Options{
	Alignment:      4,
	NumSizeClasses: maxSizeClasses,
}

func checkOptions(options Options) error {
	if options.Alignment < 4 || bits.OnesCount32(options.Alignment) != 1 {
		return errors.Errorf("linkheap/options: invalid alignment %d", options.Alignment)
	}
	if options.NumSizeClasses <= 0 || options.NumSizeClasses > maxSizeClasses {
		return errors.Errorf("linkheap/options: invalid size class count %d", options.NumSizeClasses)
	}
	return nil
}
