package config

import (
	"fmt"
	"os"
	"strconv"

	"invoicegen/internal/invoice"
	"invoicegen/internal/layout"
	"invoicegen/internal/locale"
	"invoicegen/internal/logger"
	"invoicegen/pkg/models"
)

type Config struct {
	// Invoice Defaults
	Language       string
	CurrencySymbol string
	LogoPath       string
	DueDays        int

	// Default Issuer, used for every field the request leaves empty
	IssuerName       string
	IssuerStreet     string
	IssuerPostalCode string
	IssuerCity       string
	IssuerPhone      string
	IssuerEmail      string
	IssuerWebsite    string
	IssuerTaxNumber  string
	IssuerVATID      string

	// Default Payment Details
	PaymentAccountHolder string
	PaymentIBAN          string
	PaymentBIC           string
	PaymentBankName      string

	// Layout Tuning (millimetres, characters)
	PageBreakThreshold float64
	PaymentReserve     float64
	WrapWidth          int

	// Google Sheets Configuration (receivables ledger)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Google Cloud Storage Configuration (archive)
	GCSOutputBucket string
	GCSOutputFolder string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string

	locale locale.Locale
}

func Load() (*Config, error) {
	defaults := layout.DefaultConfig()

	config := &Config{
		Language:             getEnv("INVOICE_LANGUAGE", "de"),
		CurrencySymbol:       getEnv("INVOICE_CURRENCY_SYMBOL", models.DefaultCurrencySymbol),
		LogoPath:             getEnv("INVOICE_LOGO_PATH", ""),
		IssuerName:           getEnv("ISSUER_NAME", ""),
		IssuerStreet:         getEnv("ISSUER_STREET", ""),
		IssuerPostalCode:     getEnv("ISSUER_POSTAL_CODE", ""),
		IssuerCity:           getEnv("ISSUER_CITY", ""),
		IssuerPhone:          getEnv("ISSUER_PHONE", ""),
		IssuerEmail:          getEnv("ISSUER_EMAIL", ""),
		IssuerWebsite:        getEnv("ISSUER_WEBSITE", ""),
		IssuerTaxNumber:      getEnv("ISSUER_TAX_NUMBER", ""),
		IssuerVATID:          getEnv("ISSUER_VAT_ID", ""),
		PaymentAccountHolder: getEnv("PAYMENT_ACCOUNT_HOLDER", ""),
		PaymentIBAN:          getEnv("PAYMENT_IBAN", ""),
		PaymentBIC:           getEnv("PAYMENT_BIC", ""),
		PaymentBankName:      getEnv("PAYMENT_BANK_NAME", ""),
		GoogleSheetURL:       getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet: getEnv("GOOGLE_SHEET_WORKSHEET", "Debitoren"),
		GCSOutputBucket:      getEnv("GCS_OUTPUT_BUCKET", ""),
		GCSOutputFolder:      getEnv("GCS_OUTPUT_FOLDER", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:        getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:            getEnv("LOG_OUTPUT", "stderr"),
	}

	var err error
	if config.DueDays, err = getEnvInt("INVOICE_DUE_DAYS", 14); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.PageBreakThreshold, err = getEnvFloat("LAYOUT_PAGE_BREAK_THRESHOLD_MM", defaults.PageBreakThreshold); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.PaymentReserve, err = getEnvFloat("LAYOUT_PAYMENT_RESERVE_MM", defaults.PaymentReserve); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if config.WrapWidth, err = getEnvInt("LAYOUT_WRAP_WIDTH", defaults.WrapWidth); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	loc, err := locale.Parse(c.Language)
	if err != nil {
		return fmt.Errorf("INVOICE_LANGUAGE: %w", err)
	}
	c.locale = loc

	if c.DueDays < 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS must not be negative")
	}
	if rowHeight := layout.DefaultConfig().RowHeight; c.PageBreakThreshold < rowHeight {
		return fmt.Errorf("LAYOUT_PAGE_BREAK_THRESHOLD_MM must be at least the row height of %g mm", rowHeight)
	}
	if c.PaymentReserve < 0 {
		return fmt.Errorf("LAYOUT_PAYMENT_RESERVE_MM must not be negative")
	}
	if c.WrapWidth < 1 {
		return fmt.Errorf("LAYOUT_WRAP_WIDTH must be at least 1")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// LayoutConfig returns the A4 layout with the configured tuning applied
func (c *Config) LayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	cfg.PageBreakThreshold = c.PageBreakThreshold
	cfg.PaymentReserve = c.PaymentReserve
	cfg.WrapWidth = c.WrapWidth
	return cfg
}

// InvoiceDefaults returns the values used for fields a request leaves empty
func (c *Config) InvoiceDefaults() invoice.Defaults {
	return invoice.Defaults{
		Issuer: models.Issuer{
			Address: models.Address{
				Name:       c.IssuerName,
				Street:     c.IssuerStreet,
				PostalCode: c.IssuerPostalCode,
				City:       c.IssuerCity,
			},
			Phone:     c.IssuerPhone,
			Email:     c.IssuerEmail,
			Website:   c.IssuerWebsite,
			TaxNumber: c.IssuerTaxNumber,
			VATID:     c.IssuerVATID,
		},
		Payment: models.PaymentInfo{
			AccountHolder: c.PaymentAccountHolder,
			IBAN:          c.PaymentIBAN,
			BIC:           c.PaymentBIC,
			BankName:      c.PaymentBankName,
		},
		Locale:         c.locale,
		CurrencySymbol: c.CurrencySymbol,
		DueDays:        c.DueDays,
		LogoPath:       c.LogoPath,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, value)
	}
	return f, nil
}
