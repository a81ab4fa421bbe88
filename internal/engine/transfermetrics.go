package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// transferMetrics tracks the total number of bytes moved by a run and
// periodically reports instantaneous throughput from a background goroutine.
// The transfer loop is the only writer of the counter and the reporter
// goroutine its only reader, so no lock is needed beyond the atomic.
type transferMetrics struct {
	ctx               context.Context
	totalBytes        atomic.Uint64
	interval          time.Duration
	startTime         time.Time
	ticker            *time.Ticker
	stoppedChannel    chan any
	reportingComplete chan any
}

func newTransferMetrics(ctx context.Context, interval time.Duration) *transferMetrics {
	return &transferMetrics{ctx: ctx, interval: interval}
}

func (tm *transferMetrics) Add(byteCount uint64) {
	tm.totalBytes.Add(byteCount)
}

// Total is exact: it reflects every byte the transfer loop has accounted for,
// independent of the reporter's sampling cadence.
func (tm *transferMetrics) Total() uint64 {
	return tm.totalBytes.Load()
}

func (tm *transferMetrics) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

func (tm *transferMetrics) Start() {
	tm.startTime = time.Now()
	if tm.interval <= 0 {
		return
	}

	tm.stoppedChannel = make(chan any)
	tm.reportingComplete = make(chan any)
	tm.ticker = time.NewTicker(tm.interval)
	lastTime := tm.startTime
	var lastBytes uint64

	go func() {
		for {
			select {
			case <-tm.stoppedChannel:
				tm.reportingComplete <- nil
				return
			case t := <-tm.ticker.C:
				elapsed := t.Sub(lastTime)
				lastTime = t
				currentBytes := tm.totalBytes.Load()
				rate := float64(currentBytes-lastBytes) / elapsed.Seconds()
				lastBytes = currentBytes
				log.Ctx(tm.ctx).Info().
					Str("total", humanize.IBytes(currentBytes)).
					Str("rate", humanize.IBytes(uint64(rate))+"/s").
					Msg("Transfer progress")
			}
		}
	}()
}

// Stop halts the reporter and waits for it to exit. It is called from a
// deferred statement so the reporter is guaranteed to be gone on every return
// path, and it is a no-op when reporting was never started.
func (tm *transferMetrics) Stop() {
	if tm.ticker == nil {
		return
	}
	tm.ticker.Stop()
	tm.stoppedChannel <- nil
	<-tm.reportingComplete
	tm.ticker = nil

	log.Ctx(tm.ctx).Debug().
		Float32("elapsedSeconds", float32(tm.Elapsed().Seconds())).
		Str("total", humanize.IBytes(tm.Total())).
		Msg("Transfer complete")
}

func (tm *transferMetrics) result() Result {
	return Result{Bytes: tm.Total(), Elapsed: tm.Elapsed()}
}
