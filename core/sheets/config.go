package sheets

// Config holds configuration for the Google Sheets client.
type Config struct {
	// CredentialsBase64 is the base64-encoded service account JSON key.
	CredentialsBase64 string `mapstructure:"credentials_base64" default:""`
	// TimeoutSeconds bounds every individual Sheets API call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
