package export

import "strings"

// Config holds configuration for the export decision engine.
type Config struct {
	// TriggerTag marks an order as eligible for export.
	TriggerTag string `mapstructure:"trigger_tag" default:"pc"`
	// ExtractedTag is written back to orders after a successful export.
	ExtractedTag string `mapstructure:"extracted_tag" default:"1"`
	// AcceptedFinancialStatuses is the comma-separated set of financial
	// statuses an order may have to be exported.
	AcceptedFinancialStatuses string `mapstructure:"accepted_financial_statuses" default:"paid,pending,unpaid"`
	// CacheTTLSeconds is how long the known-reference cache stays fresh.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"120"`
}

// FinancialStatusSet parses the accepted financial statuses into a set.
func (c Config) FinancialStatusSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range strings.Split(c.AcceptedFinancialStatuses, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}
