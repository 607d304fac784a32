package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chafiq1992/shopify-to-sheets/core/journal"
	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/snapshot"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrSweepRunning is returned when a sweep for the store is already in flight.
var ErrSweepRunning = errors.New("sweep already running for store")

// CacheInvalidator drops cached ledger state after a full rewrite.
// Implemented by the export feature's reference cache.
type CacheInvalidator interface {
	Invalidate(store *stores.Store)
}

// Options controls how a sweep applies its findings.
type Options struct {
	// DryRun reports drift and reordering without writing to the sheet.
	DryRun bool
}

// Report summarizes one sweep.
type Report struct {
	Store         string `json:"store"`
	RowsChecked   int    `json:"rows_checked"`
	StatusUpdates int    `json:"status_updates"`
	Failures      int    `json:"failures"`
	Reordered     bool   `json:"reordered"`
	Snapshot      string `json:"snapshot,omitempty"`
	ExecutionTime string `json:"execution_time"`
}

// Sweeper corrects drift between ledger status markers and upstream
// truth, then reorders the ledger so terminal rows come first.
//
// Sweeps are serialized per store. A sweep racing a webhook append or
// status update for the same store is accepted: the status cell is
// last-write-wins, and sweeps are kept short to minimize interleavings
// with the full rewrite.
type Sweeper struct {
	sheets   sheets.Client
	shopify  shopify.Client
	archiver snapshot.Archiver
	journal  *journal.Journal
	cache    CacheInvalidator
	logger   *zap.Logger
	limiter  *rate.Limiter
	cfg      Config

	mu      sync.Mutex
	running map[string]bool
}

// NewSweeper creates a sweeper. archiver and cache may be nil.
func NewSweeper(sheetsClient sheets.Client, shopifyClient shopify.Client, archiver snapshot.Archiver, jnl *journal.Journal, cache CacheInvalidator, log *zap.Logger, cfg Config) *Sweeper {
	interval := cfg.MinIntervalMillis
	if interval <= 0 {
		interval = 500
	}
	return &Sweeper{
		sheets:   sheetsClient,
		shopify:  shopifyClient,
		archiver: archiver,
		journal:  jnl,
		cache:    cache,
		logger:   log,
		limiter:  rate.NewLimiter(rate.Every(time.Duration(interval)*time.Millisecond), 1),
		cfg:      cfg,
		running:  make(map[string]bool),
	}
}

// Run performs one sweep for the store. A second sweep for the same
// store while one is in flight returns ErrSweepRunning.
func (s *Sweeper) Run(ctx context.Context, store *stores.Store, opts Options) (*Report, error) {
	if !s.acquire(store) {
		return nil, ErrSweepRunning
	}
	defer s.release(store)

	start := time.Now()
	report := &Report{Store: store.Name}

	rows, err := s.sheets.ReadRange(ctx, store.SpreadsheetID, ledger.DataRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(rows) < 2 {
		report.ExecutionTime = time.Since(start).String()
		return report, nil
	}

	header := padRow(rows[0])
	data := make([][]string, len(rows)-1)
	for i, cells := range rows[1:] {
		data[i] = padRow(cells)
	}

	s.correctDrift(ctx, store, data, report, opts)

	if err := s.reorder(ctx, store, header, data, report, opts); err != nil {
		return nil, err
	}

	report.ExecutionTime = time.Since(start).String()
	s.logger.Info("Sweep completed",
		zap.String("store", store.Name),
		zap.Int("rows_checked", report.RowsChecked),
		zap.Int("status_updates", report.StatusUpdates),
		zap.Int("failures", report.Failures),
		zap.Bool("reordered", report.Reordered),
		zap.String("duration", report.ExecutionTime))
	return report, nil
}

// correctDrift resolves each non-terminal row upstream and rewrites its
// status cell on mismatch. A failure on one row skips only that row.
// Resolved orders are memoized for the sweep so repeated references cost
// one call.
func (s *Sweeper) correctDrift(ctx context.Context, store *stores.Store, data [][]string, report *Report, opts Options) {
	resolved := make(map[string]*shopify.Order)

	for i, cells := range data {
		ref := ledger.ReferenceOf(cells)
		if ref == "" {
			continue
		}
		current := ledger.StatusOf(cells)
		if current.IsTerminal() {
			continue
		}
		report.RowsChecked++

		order, seen := resolved[ref]
		if !seen {
			if err := s.limiter.Wait(ctx); err != nil {
				report.Failures++
				return
			}
			var err error
			order, err = s.shopify.FetchOrderByReference(ctx, store, ref)
			if err != nil {
				s.logger.Warn("Failed to resolve order, skipping row",
					zap.String("store", store.Name), zap.String("order", ref), zap.Error(err))
				report.Failures++
				continue
			}
			resolved[ref] = order
		}
		if order == nil {
			s.logger.Warn("Ledger row references unknown order",
				zap.String("store", store.Name), zap.String("order", ref))
			continue
		}

		upstream := ledger.TerminalStatus(order.CancelledAt != "", order.FulfillmentStatus)
		if !upstream.IsTerminal() || upstream == current {
			continue
		}

		sheetRow := i + ledger.FirstDataRow
		if !opts.DryRun {
			if err := s.sheets.UpdateCell(ctx, store.SpreadsheetID, ledger.StatusCellRef(sheetRow), string(upstream)); err != nil {
				s.logger.Warn("Failed to update status cell, skipping row",
					zap.String("store", store.Name), zap.String("order", ref), zap.Error(err))
				report.Failures++
				continue
			}
		}
		cells[ledger.ColumnCount-1] = string(upstream)
		report.StatusUpdates++

		s.logger.Info("Order status drift corrected",
			zap.String("store", store.Name),
			zap.String("order", ref),
			zap.String("status", string(upstream)),
			zap.Bool("dry_run", opts.DryRun))
		if opts.DryRun {
			continue
		}
		if err := s.journal.Record(ctx, store.Name, ref, journal.ActionDriftUpdate, string(upstream)); err != nil {
			s.logger.Warn("Journal write failed", zap.String("order", ref), zap.Error(err))
		}
	}
}

// reorder partitions data rows terminal-first, preserving relative order
// within each partition, and rewrites the sheet when the order changed.
// The rewrite is a clear-then-write; when an archiver is configured a
// snapshot is taken first and a snapshot failure aborts the rewrite.
func (s *Sweeper) reorder(ctx context.Context, store *stores.Store, header []string, data [][]string, report *Report, opts Options) error {
	sorted := Partition(data)
	if !orderChanged(data, sorted) {
		return nil
	}
	if opts.DryRun {
		report.Reordered = true
		return nil
	}

	if s.archiver != nil {
		obj, err := s.archiver.Archive(ctx, store.Name, append([][]string{header}, data...))
		if err != nil {
			return fmt.Errorf("failed to snapshot ledger before rewrite: %w", err)
		}
		report.Snapshot = obj
	}

	rewrite := append([][]string{header}, sorted...)
	if err := s.sheets.ReplaceRange(ctx, store.SpreadsheetID, ledger.DataRange, rewrite); err != nil {
		return fmt.Errorf("failed to rewrite ledger: %w", err)
	}
	report.Reordered = true

	if s.cache != nil {
		s.cache.Invalidate(store)
	}
	return nil
}

// TrySweep starts a background sweep for the store unless one is already
// running. Used as the opportunistic trigger after webhook processing.
func (s *Sweeper) TrySweep(store *stores.Store) {
	timeout := time.Duration(s.cfg.TriggerTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := s.Run(ctx, store, Options{}); err != nil && !errors.Is(err, ErrSweepRunning) {
			s.logger.Error("Background sweep failed",
				zap.String("store", store.Name), zap.Error(err))
		}
	}()
}

// Partition returns the rows with every terminal-marked row ahead of the
// open rows, preserving relative order within each group.
func Partition(data [][]string) [][]string {
	terminal := make([][]string, 0, len(data))
	open := make([][]string, 0, len(data))
	for _, cells := range data {
		if ledger.StatusOf(cells).IsTerminal() {
			terminal = append(terminal, cells)
		} else {
			open = append(open, cells)
		}
	}
	return append(terminal, open...)
}

func orderChanged(before, after [][]string) bool {
	for i := range before {
		if ledger.ReferenceOf(before[i]) != ledger.ReferenceOf(after[i]) {
			return true
		}
	}
	return false
}

func padRow(cells []string) []string {
	if len(cells) >= ledger.ColumnCount {
		return cells
	}
	padded := make([]string, ledger.ColumnCount)
	copy(padded, cells)
	return padded
}

func (s *Sweeper) acquire(store *stores.Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[store.SpreadsheetID] {
		return false
	}
	s.running[store.SpreadsheetID] = true
	return true
}

func (s *Sweeper) release(store *stores.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, store.SpreadsheetID)
}
