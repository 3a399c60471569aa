package linkheap

import "github.com/pkg/errors"

var (
	// ErrArenaTooSmall indicates the buffer cannot hold the bootstrap layout.
	ErrArenaTooSmall = errors.New("linkheap: arena too small")

	// ErrArenaTooLarge indicates the buffer does not fit 32-bit chunk offsets.
	ErrArenaTooLarge = errors.New("linkheap: arena too large")

	// ErrTooLarge indicates the request exceeds the largest size class.
	ErrTooLarge = errors.New("linkheap: request exceeds largest size class")

	// ErrNoSpace indicates that no free chunk large enough was found.
	ErrNoSpace = errors.New("linkheap: no free chunk large enough")

	// ErrBadRef indicates a ref that was never returned by Alloc.
	ErrBadRef = errors.New("linkheap: bad ref")

	// ErrDoubleFree indicates a ref whose chunk is already free.
	ErrDoubleFree = errors.New("linkheap: chunk already free")

	// ErrLiveChunks is reported by Deinit when allocations are still outstanding.
	ErrLiveChunks = errors.New("linkheap: live chunks on deinit")

	// ErrCorrupt is wrapped by every invariant violation Verify reports.
	ErrCorrupt = errors.New("linkheap: corrupt arena")
)
