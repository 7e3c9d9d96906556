// Package jsonfile implements the storage port over a single JSON
// document, the format the original ledger files used. Every mutation
// rewrites the whole collection; record identifiers are positional
// indexes into the stored array.
//
// The reader is deliberately lenient: files written by earlier
// versions may be a bare array of expenses, may key the collections
// as gastos/categorias, may use the legacy Portuguese field names,
// and may carry amounts as numbers or as locale-formatted strings. A missing or corrupt file reads as an
// empty store so a bad document never blocks the application.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gastos/internal/core"
	"gastos/internal/store"
)

type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store backed by the JSON document at path. The file
// is created lazily on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// document is the on-disk shape. Legacy files keyed the collections
// as gastos/categorias or held a bare expense array; load folds both
// into the current fields and only the current names are written back.
type document struct {
	Expenses   []fileExpense `json:"expenses"`
	Categories []string      `json:"categories"`

	LegacyExpenses   []fileExpense `json:"gastos,omitempty"`
	LegacyCategories []string      `json:"categorias,omitempty"`
}

// fileExpense tolerates both current and legacy field names on read;
// only the current names are written back.
type fileExpense struct {
	Date        string          `json:"date,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      json.RawMessage `json:"amount,omitempty"`
	Status      string          `json:"status,omitempty"`

	LegacyDate        string          `json:"data,omitempty"`
	LegacyCategory    string          `json:"categoria,omitempty"`
	LegacyDescription string          `json:"descricao,omitempty"`
	LegacyAmount      json.RawMessage `json:"valor,omitempty"`
}

func (fe fileExpense) toRecord(id int64) core.Record {
	rawDate := fe.Date
	if rawDate == "" {
		rawDate = fe.LegacyDate
	}
	category := fe.Category
	if category == "" {
		category = fe.LegacyCategory
	}
	description := fe.Description
	if description == "" {
		description = fe.LegacyDescription
	}
	amount := fe.Amount
	if len(amount) == 0 {
		amount = fe.LegacyAmount
	}

	r := core.Record{
		ID:          id,
		RawDate:     rawDate,
		Category:    category,
		Description: description,
		Amount:      core.ParseAmount(amountText(amount)),
		Status:      core.NormalizeStatus(fe.Status),
	}
	if d, ok := core.NormalizeDate(rawDate); ok {
		r.Date = d
	}
	return r
}

// amountText unwraps a JSON scalar into the text the amount parser
// expects: quoted strings lose their quotes, numbers pass through.
func amountText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func fromRecord(r core.Record) fileExpense {
	return fileExpense{
		Date:        r.RawDate,
		Category:    r.Category,
		Description: r.Description,
		Amount:      json.RawMessage(`"` + r.Amount.String() + `"`),
		Status:      string(r.Status),
	}
}

// load reads the document, accepting the bare-array legacy shape and
// failing open to an empty document on any error.
func (s *Store) load() document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Unreadable ledger file, treating as empty", "path", s.path, "error", err)
		}
		return document{}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err == nil {
		doc.Expenses = append(doc.Expenses, doc.LegacyExpenses...)
		doc.Categories = append(doc.Categories, doc.LegacyCategories...)
		doc.LegacyExpenses, doc.LegacyCategories = nil, nil
		return doc
	}

	var bare []fileExpense
	if err := json.Unmarshal(data, &bare); err == nil {
		return document{Expenses: bare}
	}

	slog.Warn("Corrupt ledger file, treating as empty", "path", s.path)
	return document{}
}

// save rewrites the whole document atomically via temp file + rename.
func (s *Store) save(doc document) error {
	if doc.Expenses == nil {
		doc.Expenses = []fileExpense{}
	}
	if doc.Categories == nil {
		doc.Categories = []string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	out := make([]core.Record, len(doc.Expenses))
	for i, fe := range doc.Expenses {
		out[i] = fe.toRecord(int64(i))
	}
	return out, nil
}

func (s *Store) InsertExpense(_ context.Context, r core.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	doc.Expenses = append(doc.Expenses, fromRecord(r))
	if err := s.save(doc); err != nil {
		return 0, err
	}
	return int64(len(doc.Expenses) - 1), nil
}

func (s *Store) ReplaceExpense(_ context.Context, id int64, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	if id < 0 || id >= int64(len(doc.Expenses)) {
		return store.ErrNotFound
	}
	doc.Expenses[id] = fromRecord(r)
	return s.save(doc)
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	if id < 0 || id >= int64(len(doc.Expenses)) {
		return store.ErrNotFound
	}
	doc.Expenses = append(doc.Expenses[:id], doc.Expenses[id+1:]...)
	return s.save(doc)
}

func (s *Store) UpdateStatus(_ context.Context, id int64, status core.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	if id < 0 || id >= int64(len(doc.Expenses)) {
		return store.ErrNotFound
	}
	doc.Expenses[id].Status = string(status)
	return s.save(doc)
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	return append([]string(nil), doc.Categories...), nil
}

func (s *Store) InsertCategory(_ context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.load()
	for _, c := range doc.Categories {
		if c == name {
			return nil
		}
	}
	doc.Categories = append(doc.Categories, name)
	return s.save(doc)
}

func (s *Store) Close() error { return nil }
