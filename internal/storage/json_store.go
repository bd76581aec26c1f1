package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/noahxzhu/timetable-notify/internal/model"
)

// Store persists which (class, period) pairs were already notified
// today. It is the only state that survives across invocations; the
// whole file is rewritten on every mark.
type Store struct {
	mu       sync.RWMutex
	filePath string
	Data     *model.StateFile
	now      func() time.Time
}

func NewStore(filePath string) *Store {
	return &Store{
		filePath: filePath,
		Data: &model.StateFile{
			Records: map[string]model.NotifyRecord{},
		},
		now: time.Now,
	}
}

// Load reads the state file. It fails open: a missing, empty, or
// corrupt file becomes an empty store, so the worst case is a repeat
// notification rather than a silently suppressed one.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		slog.Warn("Failed to read state file, starting empty", "path", s.filePath, "error", err)
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	var state model.StateFile
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("State file is corrupt, starting empty", "path", s.filePath, "error", err)
		return nil
	}
	if state.Records == nil {
		state.Records = map[string]model.NotifyRecord{}
	}
	s.Data = &state

	return nil
}

// Has reports whether a live record exists for this class and period
// dated dateKey. Records from other dates never count.
func (s *Store) Has(class, period, dateKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.Data.Records[dedupKey(class, period)]
	return ok && rec.Date == dateKey
}

// MarkNotified upserts the record for this class and period, purges
// every record whose date differs from dateKey, and persists the store.
// A persist failure is logged, not returned: failing to record "already
// notified" must never take down the reminder path.
func (s *Store) MarkNotified(class, period, dateKey string) {
	s.mu.Lock()

	s.Data.Records[dedupKey(class, period)] = model.NotifyRecord{
		Date:       dateKey,
		NotifiedAt: s.now(),
	}
	for key, rec := range s.Data.Records {
		if rec.Date != dateKey {
			delete(s.Data.Records, key)
		}
	}

	s.mu.Unlock()

	if err := s.save(); err != nil {
		slog.Error("Failed to persist state file", "path", s.filePath, "error", err)
	}
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.Data, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func dedupKey(class, period string) string {
	return class + "|" + period
}
