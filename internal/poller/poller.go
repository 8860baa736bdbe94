package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jobvault-systems/leads-backend/internal/logging"
	"github.com/jobvault-systems/leads-backend/internal/metrics"
	"github.com/jobvault-systems/leads-backend/internal/models"
	"github.com/jobvault-systems/leads-backend/internal/notification"
	"github.com/jobvault-systems/leads-backend/internal/repository"
)

// Poller periodically re-reads the submission store and notifies channels
// about submissions it has not observed before. New-item detection diffs by
// id-set membership, never by row count: a delete coinciding with an insert
// between two polls must not misflag or replay anything.
type Poller struct {
	repo     repository.Repository
	seen     SeenStore
	channel  notification.Channel
	interval time.Duration
	logger   *logging.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// Config configures the submission poller.
type Config struct {
	Interval time.Duration
}

// New creates a submission poller. A zero interval defaults to 30 seconds,
// matching the dashboard's refresh cadence.
func New(repo repository.Repository, seen SeenStore, channel notification.Channel, cfg Config, logger *logging.Logger) *Poller {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Poller{
		repo:     repo,
		seen:     seen,
		channel:  channel,
		interval: cfg.Interval,
		logger:   logger,
	}
}

// Start begins the polling loop. Returns an error if already running.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	p.running = true
	p.stopChan = make(chan struct{})
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(ctx)

	p.logger.Info("submission poller started", "interval", p.interval.String())
	return nil
}

// Stop halts the polling loop and waits for the in-flight cycle to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("submission poller stopped")
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Run once immediately so a fresh deploy seeds its seen-set before the
	// first tick.
	if err := p.Poll(ctx); err != nil {
		p.logger.Error("poll cycle failed", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := p.Poll(ctx); err != nil {
				p.logger.Error("poll cycle failed", "error", err)
			}
		case <-p.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Poll executes a single cycle: list, diff against the seen-set, notify,
// mark. Exported so tests and the CLI can drive cycles directly.
func (p *Poller) Poll(ctx context.Context) error {
	metrics.PollerRuns.Inc()

	subs, err := p.repo.List(ctx, models.ListFilter{})
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}

	ids := make([]string, len(subs))
	byID := make(map[string]*models.Submission, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
		byID[sub.ID] = sub
	}

	// On a completely fresh seen-set, seed silently: replaying the entire
	// backlog as "new leads" on first start would spam every channel.
	fresh, err := p.seen.Empty(ctx)
	if err != nil {
		return fmt.Errorf("check seen-set: %w", err)
	}
	if fresh {
		if err := p.seen.Mark(ctx, ids); err != nil {
			return fmt.Errorf("seed seen-set: %w", err)
		}
		return nil
	}

	seen, err := p.seen.Seen(ctx, ids)
	if err != nil {
		return fmt.Errorf("read seen-set: %w", err)
	}

	var newIDs []string
	for _, id := range ids {
		if !seen[id] {
			newIDs = append(newIDs, id)
		}
	}

	for _, id := range newIDs {
		metrics.PollerNewSubmissions.Inc()
		if p.channel != nil {
			if err := p.channel.Send(ctx, byID[id]); err != nil {
				// Best-effort: the id is still marked seen below, so a
				// flaky channel cannot cause duplicate notifications.
				p.logger.Error("notification failed", "submission_id", id, "error", err)
			}
		}
	}

	if err := p.seen.Mark(ctx, newIDs); err != nil {
		return fmt.Errorf("mark seen-set: %w", err)
	}

	return nil
}
