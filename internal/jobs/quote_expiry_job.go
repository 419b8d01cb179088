package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	DefaultQuoteExpirySchedule = "0 */5 * * * *"
	quoteExpiryBatchSize       = 200
	// maxBatchesPerRun bounds one run; the next tick picks up the rest.
	maxBatchesPerRun = 10
	runTimeout       = 30 * time.Second
)

// QuoteExpirer expires one batch of overdue quotes.
type QuoteExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireQuotesCommand) (int, error)
}

// QuoteExpiryJob marks overdue BROUILLON and ENVOYE quotes EXPIRE on a cron
// schedule. Overlapping runs are skipped.
type QuoteExpiryJob struct {
	handler  QuoteExpirer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewQuoteExpiryJob uses a six-field cron schedule (with seconds). An empty
// schedule means DefaultQuoteExpirySchedule.
func NewQuoteExpiryJob(handler QuoteExpirer, schedule string, logger *slog.Logger) *QuoteExpiryJob {
	if schedule == "" {
		schedule = DefaultQuoteExpirySchedule
	}
	return &QuoteExpiryJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "quote_expiry_job"),
	}
}

func (j *QuoteExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Quote expiry job failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Quote expiry job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *QuoteExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Quote expiry job stopped")
}

// RunOnce expires overdue quotes batch by batch until a batch comes back short.
func (j *QuoteExpiryJob) RunOnce(ctx context.Context) (int, error) {
	cmd, err := commands.NewExpireQuotesCommand(quoteExpiryBatchSize)
	if err != nil {
		return 0, err
	}

	total := 0
	for range maxBatchesPerRun {
		n, err := j.handler.Handle(ctx, cmd)
		total += n
		if err != nil {
			return total, errors.Join(fmt.Errorf("expired %d quotes before failing", total), err)
		}
		if n < quoteExpiryBatchSize {
			break
		}
	}

	if total > 0 {
		j.logger.InfoContext(ctx, "Expired overdue quotes", "count", total)
	}
	return total, nil
}
