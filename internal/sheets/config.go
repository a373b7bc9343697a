// Package sheets publishes quotations to Google Sheets.
package sheets

import (
	"errors"
	"time"
)

// Config describes where quotations are published and how the writer
// authenticates. Exactly one of OAuth (client credentials plus a refresh
// token or token file) or a service account key must be set.
type Config struct {
	// OAuth installed-app credentials.
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenFile    string

	// ServiceAccountPath points at a JSON key file.
	ServiceAccountPath string

	// SpreadsheetID targets an existing workbook. When empty a workbook named
	// SpreadsheetName is created on first write.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string

	// BatchSize caps the rows sent per values.update call.
	BatchSize     int
	RetryAttempts int
	RetryDelay    time.Duration

	// EnableFormatting styles the header and totals rows.
	EnableFormatting bool
}

// DefaultConfig returns the writer settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Tour Quotations",
		TimeZone:         "UTC",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

func (c *Config) hasOAuth() bool {
	if c.ClientID == "" || c.ClientSecret == "" {
		return false
	}
	return c.RefreshToken != "" || c.TokenFile != ""
}

func (c *Config) hasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	switch oauth, sa := c.hasOAuth(), c.hasServiceAccount(); {
	case !oauth && !sa:
		return errors.New("no authentication method configured; set OAuth credentials or a service account key")
	case oauth && sa:
		return errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	}

	switch {
	case c.BatchSize <= 0:
		return errors.New("batch size must be positive")
	case c.RetryAttempts < 0:
		return errors.New("retry attempts cannot be negative")
	case c.RetryDelay < 0:
		return errors.New("retry delay cannot be negative")
	}
	return nil
}
