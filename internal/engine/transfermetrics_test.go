package engine

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunshineplan/limiter"
)

const (
	KiB = 1024
	MiB = 1024 * KiB
)

func TestMetricsCountExactly(t *testing.T) {
	tm := newTransferMetrics(context.Background(), 0)
	tm.Start()
	tm.Add(100)
	tm.Add(0)
	tm.Add(4096)
	require.Equal(t, uint64(4196), tm.Total())
	require.Equal(t, uint64(4196), tm.result().Bytes)

	// Reporting was never started, so Stop must be a no-op.
	tm.Stop()
}

func TestMetricsStopTerminatesReporter(t *testing.T) {
	tm := newTransferMetrics(context.Background(), time.Millisecond)
	tm.Start()
	tm.Add(1234)
	time.Sleep(10 * time.Millisecond)

	// Stop blocks until the reporter goroutine has exited; a hang here means
	// the handshake is broken.
	tm.Stop()
	require.Equal(t, uint64(1234), tm.Total())
}

func TestRunResultsUnaffectedByProgressReporting(t *testing.T) {
	const capacity = 2*testChunkSize + 47

	silent := &capWriter{capacity: capacity}
	silentResult, err := Fill(context.Background(), silent,
		WithChunkSize(testChunkSize), WithProgressInterval(0))
	require.NoError(t, err)

	reported := &capWriter{capacity: capacity}
	reportedResult, err := Fill(context.Background(), reported,
		WithChunkSize(testChunkSize), WithProgressInterval(time.Millisecond))
	require.NoError(t, err)

	require.Equal(t, silentResult.Bytes, reportedResult.Bytes)

	verified, mismatch, err := Verify(context.Background(), bytes.NewReader(reported.buf.Bytes()),
		WithChunkSize(testChunkSize), WithProgressInterval(time.Millisecond))
	require.NoError(t, err)
	require.Nil(t, mismatch)
	require.Equal(t, reportedResult.Bytes, verified.Bytes)
}

func TestThrottledTransferStillCountsExactly(t *testing.T) {
	const capacity = 512 * KiB

	device := &capWriter{capacity: capacity}
	throttled := limiter.New(4 * MiB).Writer(&shortWriter{Writer: device, maxChunk: 64 * KiB})

	result, err := Fill(context.Background(), throttled,
		WithChunkSize(testChunkSize), WithProgressInterval(10*time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, uint64(capacity), result.Bytes)
}
