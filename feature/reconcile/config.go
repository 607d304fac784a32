package reconcile

// Config holds configuration for the reconciliation sweep.
type Config struct {
	// MinIntervalMillis is the minimum spacing between upstream order
	// lookups during a sweep, to respect admin API rate limits.
	MinIntervalMillis int `mapstructure:"min_interval_millis" default:"500"`
	// TriggerTimeoutSeconds bounds a webhook-triggered background sweep.
	TriggerTimeoutSeconds int `mapstructure:"trigger_timeout_seconds" default:"300"`
}
