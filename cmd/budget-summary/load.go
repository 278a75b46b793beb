package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"budget/internal/core"
)

// fileTransaction is the on-disk form. Amount may be a number (1e3 included)
// or a string such as "12,50". File amounts are taken exactly, never rounded.
type fileTransaction struct {
	ID          string  `json:"id" yaml:"id"`
	AccountID   string  `json:"accountId" yaml:"accountId"`
	CategoryID  *string `json:"categoryId" yaml:"categoryId"`
	Amount      any     `json:"amount" yaml:"amount"`
	Date        string  `json:"date" yaml:"date"`
	Description string  `json:"description" yaml:"description"`
}

func loadFile(path string) ([]core.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []fileTransaction
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	txs := make([]core.Transaction, 0, len(records))
	for i, r := range records {
		amount, err := fileAmount(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d (%s): %w", path, i, r.ID, err)
		}
		t := core.Transaction{
			ID:          r.ID,
			AccountID:   r.AccountID,
			Amount:      amount,
			Date:        r.Date,
			Description: r.Description,
		}
		if r.CategoryID != nil {
			t.CategoryID = core.CategoryRef(*r.CategoryID)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func fileAmount(v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch a := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(a.String())
	case int:
		d = decimal.NewFromInt(int64(a))
	case int64:
		d = decimal.NewFromInt(a)
	case float64:
		d = decimal.NewFromFloat(a)
	case string:
		text := strings.TrimSpace(a)
		if strings.Count(text, ",") == 1 && !strings.Contains(text, ".") {
			text = strings.Replace(text, ",", ".", 1)
		}
		d, err = decimal.NewFromString(text)
	default:
		return decimal.Zero, core.ErrInvalidAmount
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", core.ErrInvalidAmount, v)
	}
	return d, nil
}
