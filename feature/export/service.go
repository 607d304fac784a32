package export

import (
	"context"
	"fmt"

	"github.com/chafiq1992/shopify-to-sheets/core/journal"
	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	"github.com/chafiq1992/shopify-to-sheets/core/sheets"
	"github.com/chafiq1992/shopify-to-sheets/core/shopify"
	"github.com/chafiq1992/shopify-to-sheets/core/stores"
	"github.com/chafiq1992/shopify-to-sheets/feature/export/models"

	"go.uber.org/zap"
)

// Result reports what processing an event did to the ledger.
type Result struct {
	Action Kind
	Reason string
}

// Service applies export decisions to the ledger. The decision itself is
// pure (see Engine); this is where every network effect lives.
type Service struct {
	sheets  sheets.Client
	shopify shopify.Client
	cache   *RefCache
	engine  *Engine
	journal *journal.Journal
	logger  *zap.Logger
	cfg     Config
}

// NewService creates the export service.
func NewService(sheetsClient sheets.Client, shopifyClient shopify.Client, cache *RefCache, engine *Engine, jnl *journal.Journal, logger *zap.Logger, cfg Config) *Service {
	return &Service{
		sheets:  sheetsClient,
		shopify: shopifyClient,
		cache:   cache,
		engine:  engine,
		journal: jnl,
		logger:  logger,
		cfg:     cfg,
	}
}

// Process evaluates one order event and applies its decision.
func (s *Service) Process(ctx context.Context, store *stores.Store, event *models.OrderEvent) (*Result, error) {
	refs, err := s.cache.KnownRefs(ctx, store)
	if err != nil {
		return nil, err
	}

	decision := s.engine.Decide(event, refs)

	switch decision.Kind {
	case KindSkip:
		s.logger.Info("Order skipped",
			zap.String("store", store.Name),
			zap.String("order", decision.Reference),
			zap.String("reason", decision.Reason))
		return &Result{Action: KindSkip, Reason: decision.Reason}, nil

	case KindUpdateStatus:
		if err := s.updateStatus(ctx, store, decision.Reference, decision.Status); err != nil {
			return nil, err
		}
		return &Result{Action: KindUpdateStatus}, nil

	case KindExportNew:
		res, err := s.exportNew(ctx, store, event, decision.Row)
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	return nil, fmt.Errorf("unknown decision kind %q", decision.Kind)
}

// updateStatus writes the terminal marker into the status cell of the row
// holding the reference. The scan is linear over all rows, which is fine
// for ledgers in the low thousands.
func (s *Service) updateStatus(ctx context.Context, store *stores.Store, ref string, status ledger.Status) error {
	rows, err := s.sheets.ReadRange(ctx, store.SpreadsheetID, ledger.DataRange)
	if err != nil {
		return fmt.Errorf("failed to locate row for %s: %w", ref, err)
	}

	for i, cells := range rows {
		if i == 0 || ledger.ReferenceOf(cells) != ref {
			continue
		}
		sheetRow := i + 1
		if err := s.sheets.UpdateCell(ctx, store.SpreadsheetID, ledger.StatusCellRef(sheetRow), string(status)); err != nil {
			return fmt.Errorf("failed to mark %s as %s: %w", ref, status, err)
		}
		s.logger.Info("Order status updated",
			zap.String("store", store.Name),
			zap.String("order", ref),
			zap.String("status", string(status)))
		s.record(ctx, store, ref, journal.ActionStatusUpdate, string(status))
		return nil
	}

	// The cache said the reference exists but the sheet disagrees; the
	// sheet is authoritative.
	s.logger.Warn("Row for status update not found, dropping stale cache entry",
		zap.String("store", store.Name),
		zap.String("order", ref))
	s.cache.Invalidate(store)
	return nil
}

// exportNew appends a new ledger row. The known-reference set is re-read
// from the sheet immediately before the append, shrinking the window in
// which a concurrent duplicate delivery could insert the same reference.
func (s *Service) exportNew(ctx context.Context, store *stores.Store, event *models.OrderEvent, row ledger.Row) (*Result, error) {
	refs, err := s.cache.Refresh(ctx, store)
	if err != nil {
		return nil, err
	}
	if _, exists := refs[row.Reference]; exists {
		s.logger.Info("Order skipped",
			zap.String("store", store.Name),
			zap.String("order", row.Reference),
			zap.String("reason", ReasonAlreadyExported))
		return &Result{Action: KindSkip, Reason: ReasonAlreadyExported}, nil
	}

	if err := s.sheets.AppendRow(ctx, store.SpreadsheetID, ledger.AppendRange, row.Cells()); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", row.Reference, err)
	}
	s.cache.Add(store, row.Reference)

	s.logger.Info("Order exported",
		zap.String("store", store.Name),
		zap.String("order", row.Reference),
		zap.String("city", row.City))
	s.record(ctx, store, row.Reference, journal.ActionExport, row.City)

	s.markExtracted(ctx, store, event)

	return &Result{Action: KindExportNew}, nil
}

// markExtracted writes the extracted tag back to the upstream order so a
// re-parse of old orders does not export them again. Failures are logged
// and do not undo the export.
func (s *Service) markExtracted(ctx context.Context, store *stores.Store, event *models.OrderEvent) {
	order, err := s.shopify.FetchOrderByReference(ctx, store, event.Name)
	if err != nil {
		s.logger.Warn("Failed to fetch order for tag writeback",
			zap.String("order", event.Name), zap.Error(err))
		return
	}
	if order == nil {
		s.logger.Warn("Order not found upstream for tag writeback",
			zap.String("order", event.Name))
		return
	}

	tags := order.TagList()
	for _, t := range tags {
		if t == s.cfg.ExtractedTag {
			return
		}
	}
	tags = append(tags, s.cfg.ExtractedTag)

	if err := s.shopify.UpdateOrderTags(ctx, store, order.ID, tags); err != nil {
		s.logger.Warn("Failed to write extracted tag",
			zap.String("order", event.Name), zap.Error(err))
	}
}

func (s *Service) record(ctx context.Context, store *stores.Store, ref, action, detail string) {
	if err := s.journal.Record(ctx, store.Name, ref, action, detail); err != nil {
		s.logger.Warn("Journal write failed", zap.String("order", ref), zap.Error(err))
	}
}
