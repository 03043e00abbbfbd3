// Package collector drives the collection pipeline: read usage events from
// the preferred source, aggregate them into accounting windows, and persist
// a snapshot — once, or continuously on a fixed interval.
package collector

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jdhollis/cquota/internal/account"
	"github.com/jdhollis/cquota/internal/adminapi"
	"github.com/jdhollis/cquota/internal/model"
	"github.com/jdhollis/cquota/internal/snapshot"
	"github.com/jdhollis/cquota/internal/source"
	"github.com/jdhollis/cquota/internal/store"
	"github.com/jdhollis/cquota/internal/window"
)

// Config controls the collector runtime behavior.
type Config struct {
	ClaudeDir         string
	AccountConfigPath string
	DataDir           string
	Interval          time.Duration
	// Client is the optional remote source; nil means local-only.
	Client    *adminapi.Client
	UseCache  bool
	CachePath string
}

// Service runs collection passes and persists their snapshots.
type Service struct {
	cfg       Config
	snapshots *snapshot.Store
	logger    *log.Logger

	mu        sync.RWMutex
	passCount int64
	lastError string
}

// New returns a collector service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &Service{
		cfg:       cfg,
		snapshots: snapshot.NewStore(cfg.DataDir),
		logger:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLogger replaces the pass logger, used in tests.
func (s *Service) SetLogger(l *log.Logger) {
	s.logger = l
}

// Run executes collection passes until ctx is canceled: one immediately,
// then one per interval tick. A failed pass is logged and never terminates
// the loop; cancellation is observed between passes so shutdown latency is
// bounded by the select, not the interval.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Printf("collector started (every %s)", s.cfg.Interval)
	s.runPass(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("collector stopped")
			return nil
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

// runPass is the loop boundary: every error from a pass stops here.
func (s *Service) runPass(ctx context.Context) {
	snap, err := s.CollectOnce(ctx, time.Now())

	s.mu.Lock()
	s.passCount++
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Printf("collection pass failed: %v", err)
		return
	}
	s.logger.Printf("saved snapshot (source: %s, session $%.4f, daily $%.4f, weekly $%.4f)",
		snap.Source, snap.Session.Cost, snap.Daily.Cost, snap.Weekly.Cost)
}

// PassCount returns the number of completed passes.
func (s *Service) PassCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passCount
}

// LastError returns the last pass error message, empty when the last pass
// succeeded.
func (s *Service) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// CollectOnce executes one collection pass: remote source when configured,
// with silent fallback to local transcripts on any remote failure. Exactly
// one snapshot is produced and persisted, tagged with the source that
// actually supplied the data. Only a persistence failure is returned as an
// error; source trouble is downgraded to the fallback path.
func (s *Service) CollectOnce(ctx context.Context, now time.Time) (model.Snapshot, error) {
	acct := account.Read(s.cfg.AccountConfigPath)

	snap := model.Snapshot{
		Timestamp:  now,
		Source:     model.SourceLocal,
		ConfigCost: acct.ConfigCost,
	}

	collected := false
	if s.cfg.Client != nil {
		totals, err := s.cfg.Client.CollectWindows(ctx, now)
		if err != nil {
			s.logger.Printf("admin API failed (%v), falling back to local", err)
		} else {
			snap.Source = model.SourceRemote
			snap.Session = totals.Session
			snap.Daily = totals.Daily
			snap.Weekly = totals.Weekly
			collected = true
		}
	}

	if !collected {
		events := s.loadEvents()
		r := window.Aggregate(events, now)
		snap.Session = r.Session
		snap.Daily = r.Daily
		snap.Weekly = r.Weekly
		if !r.SessionOldest.IsZero() {
			oldest, newest := r.SessionOldest, r.SessionNewest
			resets := window.SessionResetAt(oldest)
			snap.SessionOldest = &oldest
			snap.SessionNewest = &newest
			snap.SessionResetsAt = &resets
		}
	}

	// The weekly cycle depends only on the account origin, so it is
	// attached regardless of which source supplied the buckets.
	if wr := window.NextWeeklyReset(acct.Origin, now); !wr.IsZero() {
		snap.WeeklyResetsAt = &wr
	}

	if err := s.snapshots.Write(snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// loadEvents reads local transcripts, cache-assisted when enabled. Any
// trouble with the cache or the scan degrades to whatever can be read;
// partial availability must not abort the pass.
func (s *Service) loadEvents() []model.UsageEvent {
	if s.cfg.UseCache && s.cfg.CachePath != "" {
		cache, err := store.Open(s.cfg.CachePath)
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := source.LoadEventsCached(s.cfg.ClaudeDir, cache)
			if loadErr == nil {
				return cr.Events
			}
			s.logger.Printf("cached load failed (%v), reparsing", loadErr)
		}
	}

	result, err := source.LoadEvents(s.cfg.ClaudeDir)
	if err != nil {
		s.logger.Printf("transcript scan failed: %v", err)
		return nil
	}
	return result.Events
}
