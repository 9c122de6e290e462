package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	YNAB struct {
		APIKey             string        `envconfig:"YNAB_API_KEY" required:"true"`
		BudgetID           string        `envconfig:"YNAB_BUDGET_ID" required:"true"`
		AccountID          string        `envconfig:"YNAB_ACCOUNT_ID" required:"true"`
		FallbackCategoryID string        `envconfig:"YNAB_FALLBACK_CATEGORY_ID" required:"true"`
		BaseURL            string        `envconfig:"YNAB_BASE_URL" default:"https://api.youneedabudget.com/v1"`
		Timeout            time.Duration `envconfig:"YNAB_TIMEOUT" default:"30s"`
	}

	Upload struct {
		// PersistOnFailure keeps the run file and ledger append when the upload fails.
		PersistOnFailure bool `envconfig:"PERSIST_ON_UPLOAD_FAILURE" default:"true"`
	}
}

// Validate checks the values envconfig cannot.
func (c *Config) Validate() error {
	if c.YNAB.APIKey == "" {
		return errors.New("YNAB_API_KEY: must not be empty")
	}

	if c.YNAB.BudgetID == "" {
		return errors.New("YNAB_BUDGET_ID: must not be empty")
	}

	if _, err := uuid.Parse(c.YNAB.AccountID); err != nil {
		return fmt.Errorf("YNAB_ACCOUNT_ID: %w", err)
	}

	if _, err := uuid.Parse(c.YNAB.FallbackCategoryID); err != nil {
		return fmt.Errorf("YNAB_FALLBACK_CATEGORY_ID: %w", err)
	}

	if c.YNAB.Timeout <= 0 {
		return fmt.Errorf("YNAB_TIMEOUT: must be positive, got %s", c.YNAB.Timeout)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
