// Package daemon provides the long-running insights service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"
	"github.com/theirongolddev/budgetpulse/internal/notify"
	"github.com/theirongolddev/budgetpulse/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Loader provides household snapshots and a revision that changes on write.
// *store.Store satisfies it.
type Loader interface {
	Revision(ctx context.Context) (int64, error)
	LoadSnapshot(ctx context.Context) (model.Snapshot, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Horizon      time.Duration
	Publisher    notify.Publisher // optional
}

// Snapshot is a compact insight state for status and event payloads.
type Snapshot struct {
	At             time.Time       `json:"at"`
	Revision       int64           `json:"revision"`
	Month          string          `json:"month"`
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	Balance        decimal.Decimal `json:"balance"`
	Obligations    decimal.Decimal `json:"obligations"`
	SavingsPercent float64         `json:"savings_percent"`
	HealthScore    int             `json:"health_score"`
	OverBudget     []string        `json:"over_budget"`
}

// Delta captures snapshot changes between recomputes.
type Delta struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Balance     decimal.Decimal `json:"balance"`
	Obligations decimal.Decimal `json:"obligations"`
	HealthScore int             `json:"health_score"`
}

func (d Delta) isZero() bool {
	return d.Income.IsZero() &&
		d.Expenses.IsZero() &&
		d.Balance.IsZero() &&
		d.Obligations.IsZero() &&
		d.HealthScore == 0
}

// Event is emitted whenever the insight snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Event types.
const (
	EventSnapshot        = "snapshot"
	EventInsightsChanged = "insights_changed"
)

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	RecomputeCount  int64     `json:"recompute_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
	Publishing      bool      `json:"publishing"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	watcher *pipeline.Watcher
	metrics *metrics
	now     func() time.Time

	mu             sync.RWMutex
	startedAt      time.Time
	lastPollAt     time.Time
	pollCount      int64
	recomputeCount int64
	lastError      string
	hasSnapshot    bool
	snapshot       Snapshot
	report         pipeline.Report
	nextEventID    int64
	events         []Event

	nextSubID int
	subs      map[int]chan Event

	// closed when the HTTP server shuts down so open streams return
	streamsDone chan struct{}
	stopOnce    sync.Once
}

// New returns a new daemon service reading from loader.
func New(cfg Config, loader Loader) *Service {
	if cfg.Interval < time.Second {
		cfg.Interval = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = pipeline.DefaultHorizon
	}

	return &Service{
		cfg:       cfg,
		watcher:   pipeline.NewWatcher(loader),
		metrics:   newMetrics(),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),

		streamsDone: make(chan struct{}),
	}
}

// Registry exposes the service's Prometheus registry.
func (s *Service) Registry() *prometheus.Registry {
	return s.metrics.registry
}

// Run serves HTTP and polls the store until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	server.RegisterOnShutdown(s.closeStreams)

	g.Go(func() error {
		slog.Info("daemon listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		// Seed the first snapshot so status is useful immediately.
		s.pollOnce(ctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(ctx)
			}
		}
	})

	return g.Wait()
}

func (s *Service) pollOnce(ctx context.Context) {
	now := s.now()
	s.metrics.polls.Inc()

	report, changed, err := s.watcher.Report(ctx, pipeline.Options{Now: now, Horizon: s.cfg.Horizon})
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.metrics.pollErrors.Inc()
		slog.Error("daemon poll failed", "err", err)
		return
	}

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	if !changed && s.hasSnapshot {
		s.mu.Unlock()
		return
	}

	snap := snapshotFromReport(report, now)
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.report = report
	s.recomputeCount++

	var (
		ev      Event
		publish bool
	)
	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() || !slices.Equal(prev.OverBudget, snap.OverBudget) || prev.Month != snap.Month {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: EventInsightsChanged, Timestamp: now, Snapshot: snap, Delta: delta}
			publish = true
		}
	}
	s.mu.Unlock()

	s.metrics.observe(report)
	slog.Debug("insights recomputed", "revision", report.Revision, "score", snap.HealthScore, "event", publish)

	if publish {
		s.publishEvent(ev)
		s.forward(ctx, ev, report)
	}
}

// forward sends an event to the configured publisher, if any.
func (s *Service) forward(ctx context.Context, ev Event, report pipeline.Report) {
	if s.cfg.Publisher == nil {
		return
	}
	msg := notify.NewMessage(ev.Type, report.Revision, report.Month, report.Insights)
	if err := s.cfg.Publisher.Publish(ctx, msg); err != nil {
		s.metrics.publishErrors.Inc()
		slog.Warn("publishing insights failed", "event", ev.ID, "err", err)
	}
}

func snapshotFromReport(r pipeline.Report, at time.Time) Snapshot {
	in := r.Insights
	over := []string{}
	for _, c := range in.Categories {
		if c.OverBudget() {
			over = append(over, c.Name)
		}
	}
	return Snapshot{
		At:             at,
		Revision:       r.Revision,
		Month:          r.Month.Format("2006-01"),
		Income:         in.TotalIncome,
		Expenses:       in.TotalExpenses,
		Balance:        in.AvailableBalance,
		Obligations:    in.TotalObligations,
		SavingsPercent: in.SavingsProgress.Percentage,
		HealthScore:    in.HealthScore,
		OverBudget:     over,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Income:      curr.Income.Sub(prev.Income),
		Expenses:    curr.Expenses.Sub(prev.Expenses),
		Balance:     curr.Balance.Sub(prev.Balance),
		Obligations: curr.Obligations.Sub(prev.Obligations),
		HealthScore: curr.HealthScore - prev.HealthScore,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
	s.metrics.events.WithLabelValues(ev.Type).Inc()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		RecomputeCount:  s.recomputeCount,
		DBPath:          s.cfg.DBPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
		Publishing:      s.cfg.Publisher != nil,
	}
}

// closeStreams ends every open SSE stream. Shutdown does not cancel
// in-flight requests on its own.
func (s *Service) closeStreams() {
	s.stopOnce.Do(func() { close(s.streamsDone) })
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.metrics.subscribers.Set(float64(len(s.subs)))
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
	s.metrics.subscribers.Set(float64(len(s.subs)))
}
