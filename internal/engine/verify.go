package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	pool "github.com/libp2p/go-buffer-pool"
	"github.com/rs/zerolog/log"

	"github.com/mqudsi/hddrand/internal/keystream"
)

// ErrNoSeed indicates that the device yielded no data before the full 32-byte
// seed could be read, so no expected stream can be derived.
var ErrNoSeed = errors.New("unable to read a seed from the start of the device")

// Mismatch reports the first byte at which the device's contents diverged
// from the expected stream. It is a detection result, not an I/O failure, and
// is returned separately from the error value.
type Mismatch struct {
	Offset   uint64
	Expected byte
	Found    byte
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("content mismatch at offset %#x: expected %#02x, found %#02x", m.Offset, m.Expected, m.Found)
}

// Verify reads the device back and checks that it holds exactly the stream a
// previous Fill wrote. The seed is recovered from the first 32 bytes of the
// device itself; the read cursor is then rewound so the first chunk of
// verification re-observes those bytes. A clean run ends at end of device
// with a nil Mismatch.
//
// On divergence the returned Result counts only bytes confirmed matching
// before the mismatching range; the divergent range itself is never counted.
func Verify(ctx context.Context, device io.ReadSeeker, opts ...Option) (Result, *Mismatch, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return Result{}, nil, err
	}

	ctx = log.Ctx(ctx).With().Str("operation", "verify").Logger().WithContext(ctx)

	seed, err := recoverSeed(device)
	if err != nil {
		return Result{}, nil, err
	}
	stream := keystream.New(seed)

	readBuffer := pool.Get(o.chunkSize)
	defer pool.Put(readBuffer)
	expected := pool.Get(o.chunkSize)
	defer pool.Put(expected)

	metrics := newTransferMetrics(ctx, o.progressInterval)
	metrics.Start()
	defer metrics.Stop()

	firstChunk := true
	var chunkStart uint64
	for {
		stream.Fill(expected)
		if firstChunk {
			copy(expected, seed[:])
			firstChunk = false
		}

		offset := 0
		for {
			read, err := device.Read(readBuffer[offset:])
			if read > 0 {
				if !bytes.Equal(readBuffer[offset:offset+read], expected[offset:offset+read]) {
					i := offset
					for i < offset+read && readBuffer[i] == expected[i] {
						i++
					}
					mismatch := &Mismatch{
						Offset:   chunkStart + uint64(i),
						Expected: expected[i],
						Found:    readBuffer[i],
					}
					log.Ctx(ctx).Error().
						Uint64("offset", mismatch.Offset).
						Uint8("expected", mismatch.Expected).
						Uint8("found", mismatch.Found).
						Msg("Content mismatch")
					return metrics.result(), mismatch, nil
				}
				offset += read
				metrics.Add(uint64(read))
			}
			if err != nil {
				if err == io.EOF {
					return metrics.result(), nil, nil
				}
				return metrics.result(), nil, fmt.Errorf("error reading from device: %w", err)
			}
			if offset == len(readBuffer) {
				break
			}
			if read == 0 {
				// A zero-byte read with no error means the device has no
				// more data: the whole device has been verified.
				return metrics.result(), nil, nil
			}
		}
		chunkStart += uint64(len(readBuffer))
	}
}

// VerifyPath opens the device for reading and runs Verify against it. This is
// the entry point used by the CLI.
func VerifyPath(ctx context.Context, path string, opts ...Option) (Result, *Mismatch, error) {
	device, err := os.Open(path)
	if err != nil {
		return Result{}, nil, fmt.Errorf("unable to open device for reading: %w", err)
	}
	defer device.Close()

	return Verify(ctx, device, opts...)
}

// recoverSeed reads the seed embedded at the start of the device and rewinds
// the cursor to offset zero so the main loop re-reads from the beginning.
func recoverSeed(device io.ReadSeeker) ([keystream.SeedSize]byte, error) {
	var seed [keystream.SeedSize]byte

	// Some devices refuse reads smaller than a sector, so probe with a
	// sector-aligned buffer rather than asking for exactly 32 bytes.
	probe := make([]byte, 4096)
	accumulated := 0
	for accumulated < keystream.SeedSize {
		read, err := device.Read(probe[accumulated:])
		accumulated += read
		if accumulated >= keystream.SeedSize {
			break
		}
		if err == io.EOF || (read == 0 && err == nil) {
			return seed, fmt.Errorf("%w: only %d of %d bytes available", ErrNoSeed, accumulated, keystream.SeedSize)
		}
		if err != nil {
			return seed, fmt.Errorf("error reading seed from device: %w", err)
		}
	}

	if _, err := device.Seek(0, io.SeekStart); err != nil {
		return seed, fmt.Errorf("error rewinding device after seed recovery: %w", err)
	}

	copy(seed[:], probe[:keystream.SeedSize])
	return seed, nil
}
