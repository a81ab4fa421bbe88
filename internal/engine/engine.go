// Package engine implements the deterministic fill/verify core: it streams a
// reproducible pseudorandom sequence onto a raw device and can later verify
// that the device still holds exactly that sequence. The 32-byte seed is
// embedded as the first 32 bytes of the stream itself, so a verify run needs
// no state beyond the device contents.
package engine

import (
	"fmt"
	"time"

	"github.com/mqudsi/hddrand/internal/keystream"
)

const (
	// DefaultChunkSize is the transfer unit between the keystream and the
	// device. Large chunks keep rotational media streaming sequentially.
	DefaultChunkSize = 16 * 1024 * 1024

	// DefaultProgressInterval is how often the background reporter samples
	// the transfer counter.
	DefaultProgressInterval = time.Second
)

// Result is returned on every terminal path of a run, including early
// termination, and always carries the exact number of bytes transferred.
type Result struct {
	Bytes   uint64
	Elapsed time.Duration
}

type options struct {
	chunkSize        int
	progressInterval time.Duration
}

type Option func(o *options)

// WithChunkSize sets the size of each generated and transferred chunk. It
// must be at least keystream.SeedSize bytes.
func WithChunkSize(size int) Option {
	return func(o *options) {
		o.chunkSize = size
	}
}

// WithProgressInterval sets how often the background reporter emits a
// progress line. A nonpositive interval disables progress reporting.
func WithProgressInterval(interval time.Duration) Option {
	return func(o *options) {
		o.progressInterval = interval
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := &options{
		chunkSize:        DefaultChunkSize,
		progressInterval: DefaultProgressInterval,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.chunkSize < keystream.SeedSize {
		return nil, fmt.Errorf("chunk size must be at least %d bytes, got %d", keystream.SeedSize, o.chunkSize)
	}

	return o, nil
}
