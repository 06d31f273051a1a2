// Package questions loads the static geography bank and draws the
// per-run question sample.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"countries-trivia/internal/domain"
)

// FileLoader reads the bank from a JSON file: an array of objects with
// Country, Capital and Continent fields.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadBank(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	var bank []domain.Question
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, domain.ErrEmptyBank
	}
	return bank, nil
}
