// path: alerts/events.go
package alerts

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const broadcastBudget = 2 * time.Minute

// FireReports decouples report submission from alert delivery: the write path
// only drops a signal here, and the consumer goroutine runs the broadcast, so
// submission latency and failure never depend on the email gateway.
type FireReports struct {
	b       *Broadcaster
	log     *zap.Logger
	signals chan struct{}
	quit    chan struct{}
	done    chan struct{}

	started   atomic.Bool
	closeOnce sync.Once
}

func NewFireReports(b *Broadcaster, log *zap.Logger) *FireReports {
	return &FireReports{
		b:       b,
		log:     log,
		signals: make(chan struct{}, 16),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the consumer. Call Close to stop it.
func (f *FireReports) Start() {
	if !f.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(f.done)
		for {
			select {
			case <-f.quit:
				// Drain signals accepted before shutdown began.
				for {
					select {
					case <-f.signals:
						f.broadcast()
					default:
						return
					}
				}
			case <-f.signals:
				f.broadcast()
			}
		}
	}()
}

func (f *FireReports) broadcast() {
	ctx, cancel := context.WithTimeout(context.Background(), broadcastBudget)
	defer cancel()
	if _, err := f.b.BroadcastFireAlert(ctx); err != nil {
		f.log.Error("alerts: fire broadcast failed", zap.Error(err))
	}
}

// Notify signals that a fire was reported. Never blocks and is safe during or
// after Close; when the queue is saturated the signal is dropped, since a
// broadcast is already pending. The signal channel is never closed, so a
// handler racing shutdown cannot panic here.
func (f *FireReports) Notify() {
	select {
	case <-f.quit:
		f.log.Warn("alerts: fire signal ignored, dispatcher shut down")
		return
	default:
	}
	select {
	case f.signals <- struct{}{}:
	default:
		f.log.Warn("alerts: fire signal dropped, broadcast queue full")
	}
}

// Close stops the consumer and waits for in-flight broadcasts. Idempotent,
// and returns immediately when Start was never called.
func (f *FireReports) Close() {
	f.closeOnce.Do(func() { close(f.quit) })
	if f.started.Load() {
		<-f.done
	}
}
