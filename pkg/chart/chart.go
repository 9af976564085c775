// Package chart loads a chart-of-accounts definition from a YAML file
// and seeds it into an account store.
package chart

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shunichi-ikebuchi/bookkeeper/pkg/ledger"
	"gopkg.in/yaml.v3"
)

// Entry represents one account in the chart definition.
type Entry struct {
	Number        string `yaml:"number"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	NormalBalance string `yaml:"normal_balance"`
}

// Chart represents a chart-of-accounts definition.
type Chart struct {
	Accounts []Entry `yaml:"accounts"`
}

// Load reads and parses a chart-of-accounts YAML file and validates
// every entry.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var chart Chart
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(chart.Accounts) == 0 {
		return nil, fmt.Errorf("%w: chart defines no accounts", ledger.ErrValidation)
	}
	for i, e := range chart.Accounts {
		if err := e.newAccount().Validate(); err != nil {
			return nil, fmt.Errorf("chart account %d (%s): %w", i, e.Number, err)
		}
	}

	return &chart, nil
}

func (e Entry) newAccount() ledger.NewAccount {
	return ledger.NewAccount{
		Number:        e.Number,
		Name:          e.Name,
		Type:          e.Type,
		NormalBalance: ledger.Side(e.NormalBalance),
	}
}

// Seed inserts the chart's accounts through the store. Accounts whose
// number already exists are skipped, so seeding is rerunnable. Returns
// the number of accounts created.
func (c *Chart) Seed(ctx context.Context, store ledger.AccountStore) (int, error) {
	created := 0
	for _, e := range c.Accounts {
		_, err := store.CreateAccount(ctx, e.newAccount())
		if errors.Is(err, ledger.ErrConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to seed account %s: %w", e.Number, err)
		}
		created++
	}
	return created, nil
}
