// path: alerts/broadcast.go
package alerts

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"parkwatch/mailer"
	"parkwatch/metrics"
	"parkwatch/models"
)

// EmailLister is the read side of the registration store the fan-out needs.
type EmailLister interface {
	ListEmails(ctx context.Context) ([]models.EmailRegistration, error)
}

// Summary describes one fan-out run. A partial delivery failure is not a
// failure of the run.
type Summary struct {
	RunID      string
	Recipients int
	Sent       int
	Failed     int
}

// Broadcaster fans one fire alert out to every registered email. Each
// recipient gets at most one send per run; one failure never short-circuits
// the rest.
type Broadcaster struct {
	emails  EmailLister
	sender  mailer.Sender
	log     *zap.Logger
	workers int
}

func NewBroadcaster(emails EmailLister, sender mailer.Sender, workers int, log *zap.Logger) *Broadcaster {
	if workers < 1 {
		workers = 1
	}
	return &Broadcaster{emails: emails, sender: sender, log: log, workers: workers}
}

// BroadcastFireAlert lists the registered addresses and attempts one delivery
// per address. The only hard error is failing to read the registration store.
func (b *Broadcaster) BroadcastFireAlert(ctx context.Context) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: uuid.NewString()}

	regs, err := b.emails.ListEmails(ctx)
	if err != nil {
		return sum, fmt.Errorf("list alert recipients: %w", err)
	}
	sum.Recipients = len(regs)

	b.log.Info("alerts: broadcasting fire alert",
		zap.String("run_id", sum.RunID),
		zap.Int("recipients", sum.Recipients),
	)
	metrics.AlertBroadcastsTotal.Inc()

	var sent, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(b.workers)
	for _, reg := range regs {
		to := reg.Email
		g.Go(func() error {
			if err := b.sender.Send(ctx, mailer.FireAlert(to)); err != nil {
				failed.Add(1)
				metrics.AlertSendsTotal.WithLabelValues("failed").Inc()
				b.log.Warn("alerts: delivery failed",
					zap.String("run_id", sum.RunID),
					zap.String("to", to),
					zap.Error(err),
				)
				return nil
			}
			sent.Add(1)
			metrics.AlertSendsTotal.WithLabelValues("sent").Inc()
			return nil
		})
	}
	_ = g.Wait()

	sum.Sent = int(sent.Load())
	sum.Failed = int(failed.Load())
	metrics.AlertBroadcastDuration.Observe(time.Since(start).Seconds())

	b.log.Info("alerts: broadcast complete",
		zap.String("run_id", sum.RunID),
		zap.Int("sent", sum.Sent),
		zap.Int("failed", sum.Failed),
		zap.Duration("took", time.Since(start).Round(time.Millisecond)),
	)
	return sum, nil
}
