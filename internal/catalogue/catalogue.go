/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package catalogue implements the room's QuestionSource: a fixed-shape
// pack of questions grouped by act, loaded once from an embedded directory
// and swappable at runtime in dev mode by pointing at a directory on disk.
// The shape mirrors the QuizData/Question pairing used elsewhere in the
// retrieval corpus for trivia content (see quiz-maker's room package).
package catalogue

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Seednode/trivia-party/internal/trivia"
)

//go:embed packs/*.json
var embeddedPacks embed.FS

// pack is the on-disk/embedded JSON shape for one question pack.
type pack struct {
	PackID string                                    `json:"packId"`
	Name   string                                    `json:"name"`
	Acts   map[trivia.ActID][]trivia.QuestionRecord `json:"acts"`
}

// Catalogue loads question packs by id and serves trivia.QuestionSource.
// All packs are read once at construction and held in memory; Questions
// returns a defensive copy of the stored slice so callers (the Room's
// shuffle) never observe each other's mutations.
type Catalogue struct {
	mu    sync.RWMutex
	packs map[string]pack
}

// New loads every *.json pack embedded at build time.
func New() (*Catalogue, error) {
	c := &Catalogue{packs: make(map[string]pack)}
	entries, err := embeddedPacks.ReadDir("packs")
	if err != nil {
		return nil, fmt.Errorf("catalogue: reading embedded packs: %w", err)
	}
	for _, entry := range entries {
		data, err := embeddedPacks.ReadFile(filepath.Join("packs", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("catalogue: reading %s: %w", entry.Name(), err)
		}
		if err := c.load(data); err != nil {
			return nil, fmt.Errorf("catalogue: parsing %s: %w", entry.Name(), err)
		}
	}
	if len(c.packs) == 0 {
		return nil, trivia.ErrNoPacksLoaded
	}
	return c, nil
}

func (c *Catalogue) load(data []byte) error {
	var p pack
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.PackID == "" {
		return fmt.Errorf("pack missing packId")
	}
	c.mu.Lock()
	c.packs[p.PackID] = p
	c.mu.Unlock()
	return nil
}

// Questions implements trivia.QuestionSource.
func (c *Catalogue) Questions(packID string, act trivia.ActID) ([]trivia.QuestionRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.packs[packID]
	if !ok {
		return nil, trivia.ErrNoQuestionsForAct
	}
	qs, ok := p.Acts[act]
	if !ok || len(qs) == 0 {
		return nil, trivia.ErrNoQuestionsForAct
	}
	out := make([]trivia.QuestionRecord, len(qs))
	copy(out, qs)
	return out, nil
}

// PackIDs lists every loaded pack, for the room-creation pack picker.
func (c *Catalogue) PackIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.packs))
	for id := range c.packs {
		out = append(out, id)
	}
	return out
}

// ReloadFromDisk replaces the in-memory pack set by reading every *.json
// file in dir. The server calls it once at startup when --packs-dir is set,
// and again from the POST /packs/reload route, which web.go registers only
// when the server is started with --dev-reload.
func (c *Catalogue) ReloadFromDisk(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("catalogue: reading %s: %w", dir, err)
	}

	next := &Catalogue{packs: make(map[string]pack)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("catalogue: reading %s: %w", entry.Name(), err)
		}
		if err := next.load(data); err != nil {
			return fmt.Errorf("catalogue: parsing %s: %w", entry.Name(), err)
		}
	}
	if len(next.packs) == 0 {
		return trivia.ErrNoPacksLoaded
	}

	c.mu.Lock()
	c.packs = next.packs
	c.mu.Unlock()
	return nil
}
