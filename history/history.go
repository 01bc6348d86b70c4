// Package history keeps the append-only ledger of automated generation runs.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// maxEntries caps the ledger; older entries are silently dropped.
const maxEntries = 50

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Entry records the outcome of one automated generation run. Entries are
// never mutated after insertion.
type Entry struct {
	Timestamp string   `json:"timestamp"`
	Tech      string   `json:"tech"`
	Topics    []string `json:"topics"`
	Files     []string `json:"files"`
	Status    string   `json:"status"`
	Error     *string  `json:"error"`
}

// NewEntry starts an entry stamped with the current time.
func NewEntry(tech string) Entry {
	return Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tech:      tech,
		Topics:    []string{},
		Files:     []string{},
		Status:    StatusSuccess,
	}
}

// Ledger persists run entries as a single JSON array, newest first. The
// read-modify-write in Append is not safe under concurrent writers; overlapping
// cron fires can lose an entry (last writer wins), which is accepted.
type Ledger struct {
	path string
	log  *slog.Logger
}

// New creates a Ledger stored at path.
func New(path string, log *slog.Logger) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("history path is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{path: path, log: log}, nil
}

// Append prepends the entry and truncates the ledger to the most recent 50.
func (l *Ledger) Append(entry Entry) error {
	entries := l.ReadAll()
	entries = append([]Entry{entry}, entries...)
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(l.path, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// ReadAll returns every stored entry, newest first. An absent or corrupt
// store yields an empty slice, never an error.
func (l *Ledger) ReadAll() []Entry {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return []Entry{}
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.log.Warn("history store corrupt, treating as empty", "path", l.path, "error", err)
		return []Entry{}
	}
	return entries
}
