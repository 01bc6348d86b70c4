// Package rotation selects completion credentials round-robin so that a
// single rate-limited key does not stall generation.
package rotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Credential is one (API key, model) pair in the pool. Immutable after load.
type Credential struct {
	Name   string
	APIKey string
	Model  string
}

type state struct {
	CurrentIndex int    `json:"currentIndex"`
	LastUsed     string `json:"lastUsed"`
}

// Rotation is a round-robin selector over a fixed credential pool. The index
// is persisted to a JSON file between invocations. Concurrent callers race on
// the state file (last writer wins); this is accepted, not coordinated.
type Rotation struct {
	pool      []Credential
	statePath string
	log       *slog.Logger
}

// New creates a Rotation backed by the given state file.
func New(pool []Credential, statePath string, log *slog.Logger) (*Rotation, error) {
	if len(pool) == 0 {
		return nil, errors.New("credential pool is empty")
	}
	if statePath == "" {
		return nil, errors.New("state path is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Rotation{pool: pool, statePath: statePath, log: log}, nil
}

// Next returns the credential at the current index and advances the persisted
// index, wrapping at the end of the pool. An unreadable or corrupt state file
// is treated as a fresh start from index 0.
func (r *Rotation) Next() Credential {
	idx := r.readIndex()
	cred := r.pool[idx]
	next := (idx + 1) % len(r.pool)
	if err := r.writeIndex(next); err != nil {
		r.log.Warn("persist rotation state", "path", r.statePath, "error", err)
	}
	r.log.Info("rotation selected", "name", cred.Name, "model", cred.Model, "next", r.pool[next].Name)
	return cred
}

// Current returns the credential at the current index without advancing.
func (r *Rotation) Current() Credential {
	return r.pool[r.readIndex()]
}

// Reset forces the rotation back to the first credential.
func (r *Rotation) Reset() error {
	if err := r.writeIndex(0); err != nil {
		return fmt.Errorf("reset rotation: %w", err)
	}
	return nil
}

// Pool returns the configured credentials in order.
func (r *Rotation) Pool() []Credential {
	return r.pool
}

func (r *Rotation) readIndex() int {
	data, err := os.ReadFile(r.statePath)
	if err != nil {
		return 0
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		r.log.Warn("rotation state corrupt, starting over", "path", r.statePath, "error", err)
		return 0
	}
	if st.CurrentIndex < 0 || st.CurrentIndex >= len(r.pool) {
		return 0
	}
	return st.CurrentIndex
}

func (r *Rotation) writeIndex(idx int) error {
	if err := os.MkdirAll(filepath.Dir(r.statePath), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(state{
		CurrentIndex: idx,
		LastUsed:     time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.statePath, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// PoolFromEnv builds the credential pool from OPENROUTER_API_KEY_n and
// OPENROUTER_MODEL_n. Every slot is present even when its key is unset so the
// pool size, and therefore the rotation order, stays stable across deploys.
func PoolFromEnv() []Credential {
	defaults := []string{
		"nvidia/nemotron-3-nano-30b-a3b:free",
		"arcee-ai/trinity-mini:free",
		"qwen/qwen3-4b:free",
		"nvidia/nemotron-nano-9b-v2:free",
		"nvidia/nemotron-nano-12b-v2-vl:free",
		"google/gemini-2.0-flash-exp:free",
		"xiaomi/mimo-v2-flash:free",
	}

	pool := make([]Credential, 0, len(defaults))
	for i, model := range defaults {
		n := i + 1
		if v := os.Getenv(fmt.Sprintf("OPENROUTER_MODEL_%d", n)); v != "" {
			model = v
		}
		pool = append(pool, Credential{
			Name:   fmt.Sprintf("Model %d", n),
			APIKey: os.Getenv(fmt.Sprintf("OPENROUTER_API_KEY_%d", n)),
			Model:  model,
		})
	}
	return pool
}
