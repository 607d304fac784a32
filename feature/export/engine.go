package export

import (
	"strings"

	"github.com/chafiq1992/shopify-to-sheets/core/cities"
	"github.com/chafiq1992/shopify-to-sheets/core/ledger"
	"github.com/chafiq1992/shopify-to-sheets/feature/export/models"
)

// Kind is the outcome class of an export decision.
type Kind string

const (
	// KindSkip means the event produces no ledger mutation.
	KindSkip Kind = "skip"
	// KindUpdateStatus means the existing row's status cell is updated.
	KindUpdateStatus Kind = "update_status"
	// KindExportNew means a new ledger row is appended.
	KindExportNew Kind = "export_new"
)

// Skip reasons.
const (
	ReasonNoTriggerTag    = "no trigger tag"
	ReasonAlreadyExported = "already exported"
	ReasonAlreadyTagged   = "already tagged as extracted"
	ReasonStatusExcluded  = "terminal or financial status excluded"
)

// Decision is the outcome of evaluating one order event.
type Decision struct {
	Kind      Kind
	Reference string
	// Reason is set for skips.
	Reason string
	// Status is set for status updates.
	Status ledger.Status
	// Row is set for new exports.
	Row ledger.Row
}

// Engine decides what an incoming order event does to the ledger.
// Decide is a pure function of its inputs; all ledger and upstream
// effects happen in the service, so duplicate deliveries are naturally
// idempotent given fresh known references.
type Engine struct {
	normalizer   *cities.Normalizer
	triggerTag   string
	extractedTag string
	financial    map[string]struct{}
}

// NewEngine creates a decision engine.
func NewEngine(normalizer *cities.Normalizer, cfg Config) *Engine {
	return &Engine{
		normalizer:   normalizer,
		triggerTag:   strings.ToLower(cfg.TriggerTag),
		extractedTag: strings.ToLower(cfg.ExtractedTag),
		financial:    cfg.FinancialStatusSet(),
	}
}

// Decide evaluates an order event against the set of references already
// present in the ledger.
//
// The checks run in a fixed order: the trigger-tag gate applies to every
// event (a terminal order already in the ledger still needs its status
// update), then terminal state routes known references to status updates
// and everything else through the export filters.
func (e *Engine) Decide(event *models.OrderEvent, knownRefs map[string]struct{}) Decision {
	ref := event.Name

	if !event.HasTag(e.triggerTag) {
		return Decision{Kind: KindSkip, Reference: ref, Reason: ReasonNoTriggerTag}
	}

	status := ledger.TerminalStatus(event.Cancelled(), event.FulfillmentStatus)

	if _, known := knownRefs[ref]; known {
		if status.IsTerminal() {
			return Decision{Kind: KindUpdateStatus, Reference: ref, Status: status}
		}
		return Decision{Kind: KindSkip, Reference: ref, Reason: ReasonAlreadyExported}
	}

	if status.IsTerminal() || event.Closed() {
		return Decision{Kind: KindSkip, Reference: ref, Reason: ReasonStatusExcluded}
	}
	if _, ok := e.financial[strings.ToLower(strings.TrimSpace(event.FinancialStatus))]; !ok {
		return Decision{Kind: KindSkip, Reference: ref, Reason: ReasonStatusExcluded}
	}
	if event.HasTag(e.extractedTag) {
		// Already tagged upstream from a previous export, even though the
		// reference was not in the ledger snapshot.
		return Decision{Kind: KindSkip, Reference: ref, Reason: ReasonAlreadyTagged}
	}

	return Decision{Kind: KindExportNew, Reference: ref, Row: e.buildRow(event)}
}

func (e *Engine) buildRow(event *models.OrderEvent) ledger.Row {
	addr := event.ShippingAddress
	city, _, _ := e.normalizer.Normalize(addr.City, addr.Address1)

	return ledger.Row{
		CreatedAt:    models.FormatCreatedAt(event.CreatedAt),
		Reference:    event.Name,
		ShippingName: addr.Name,
		Phone:        models.FormatPhone(addr.Phone),
		AddressLine1: addr.Address1,
		TotalPrice:   models.FormatPrice(event.RawPrice()),
		City:         city,
		LineItems:    models.JoinLineItems(event.LineItems),
		Note:         event.Note,
		Tags:         event.Tags,
		Status:       ledger.StatusNone,
	}
}
