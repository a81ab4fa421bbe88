package engine

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	pool "github.com/libp2p/go-buffer-pool"
	"github.com/rs/zerolog/log"

	"github.com/mqudsi/hddrand/internal/keystream"
)

// Fill overwrites the device with a pseudorandom stream derived from a fresh
// seed, with the raw seed occupying the first 32 bytes so that Verify can
// later reconstruct the stream from the device alone. The run ends when the
// device reports it is full, which is the expected outcome and not an error.
//
// The returned Result carries the accumulated byte count and elapsed time on
// every path, including failures.
func Fill(ctx context.Context, device io.Writer, opts ...Option) (Result, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return Result{}, err
	}

	ctx = log.Ctx(ctx).With().Str("operation", "fill").Logger().WithContext(ctx)

	var seed [keystream.SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return Result{}, fmt.Errorf("unable to draw a seed from the system random source: %w", err)
	}
	stream := keystream.New(seed)

	buffer := pool.Get(o.chunkSize)
	defer pool.Put(buffer)

	metrics := newTransferMetrics(ctx, o.progressInterval)
	metrics.Start()
	defer metrics.Stop()

	firstChunk := true
	for {
		stream.Fill(buffer)
		if firstChunk {
			copy(buffer, seed[:])
			firstChunk = false
		}

		offset := 0
		for offset < len(buffer) {
			written, err := device.Write(buffer[offset:])
			offset += written
			metrics.Add(uint64(written))
			if err != nil {
				if isDiskFull(err) {
					// The device is full. This is how a fill is expected to end.
					return metrics.result(), nil
				}
				return metrics.result(), fmt.Errorf("error writing to device: %w", err)
			}
			if written == 0 {
				// No error and no progress: the device has no capacity left.
				return metrics.result(), nil
			}
		}
	}
}

// FillPath opens the device for writing and runs Fill against it. This is the
// entry point used by the CLI.
func FillPath(ctx context.Context, path string, opts ...Option) (Result, error) {
	device, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return Result{}, fmt.Errorf("unable to open device for writing: %w", err)
	}
	defer device.Close()

	return Fill(ctx, device, opts...)
}
