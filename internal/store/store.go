package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"copytune/internal/category"
	"copytune/internal/prompt"
)

// Storage keys
const (
	settingsKey = "copytune-settings"
	historyKey  = "copytune-history"
)

var (
	// ErrBuiltinAgent is returned when deleting the built-in agent
	ErrBuiltinAgent = errors.New("the built-in agent cannot be deleted")

	// ErrNotFound is returned when an id does not resolve
	ErrNotFound = errors.New("not found")

	errInvalidBrandTerm = errors.New("brand term needs both a wrong and a correct phrase")
)

// Store is the in-memory mirror of the persisted configuration. A
// mutex serializes mutations because callers dispatch work to
// background goroutines; every mutation round-trips the whole document
// through the blob store and then notifies subscribers outside the
// lock.
type Store struct {
	blob   Blob
	logger *zap.Logger

	mu        sync.Mutex
	settings  Settings
	history   []HistoryRecord
	listeners map[int]func()
	nextID    int
}

// Open loads settings and history. A failed or missing load never
// fails the caller: it is logged and replaced by defaults.
func Open(ctx context.Context, blob Blob, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		blob:      blob,
		logger:    logger,
		settings:  DefaultSettings(),
		listeners: make(map[int]func()),
	}

	if data, err := blob.Get(ctx, settingsKey); err != nil {
		logger.Warn("settings load failed, using defaults", zap.Error(err))
	} else if data != nil {
		var loaded Settings
		if err := json.Unmarshal(data, &loaded); err != nil {
			logger.Warn("settings unreadable, using defaults", zap.Error(err))
		} else {
			migrateSettings(&loaded)
			normalize(&loaded)
			s.settings = loaded
		}
	}

	if data, err := blob.Get(ctx, historyKey); err != nil {
		logger.Warn("history load failed, starting empty", zap.Error(err))
	} else if data != nil {
		if err := json.Unmarshal(data, &s.history); err != nil {
			logger.Warn("history unreadable, starting empty", zap.Error(err))
			s.history = nil
		}
	}

	return s
}

// update runs one mutation under the lock, then notifies subscribers
// after the lock is released.
func (s *Store) update(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	s.notify()
	return err
}

// Settings returns a copy of the current aggregate
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SaveSettings replaces the whole aggregate and persists it
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	return s.update(func() error {
		normalize(&settings)
		s.settings = settings
		return s.persistSettings(ctx)
	})
}

// persistSettings writes the aggregate; the caller holds the lock
func (s *Store) persistSettings(ctx context.Context) error {
	data, err := json.Marshal(s.settings)
	if err != nil {
		return err
	}
	if err := s.blob.Set(ctx, settingsKey, data); err != nil {
		s.logger.Warn("settings save failed, in-memory state kept", zap.Error(err))
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// ActiveAgent returns the agent the active pointer references; the
// aggregate's invariants guarantee one exists.
func (s *Store) ActiveAgent() AgentConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := findAgent(s.settings.Agents, s.settings.ActiveAgentID); a != nil {
		return *a
	}
	return *findAgent(s.settings.Agents, BuiltinAgentID)
}

// SetActiveAgent points the active agent at an existing id
func (s *Store) SetActiveAgent(ctx context.Context, id string) error {
	return s.update(func() error {
		if findAgent(s.settings.Agents, id) == nil {
			return fmt.Errorf("agent %s: %w", id, ErrNotFound)
		}
		s.settings.ActiveAgentID = id
		return s.persistSettings(ctx)
	})
}

// AddAgent appends a user-defined agent
func (s *Store) AddAgent(ctx context.Context, agent AgentConfig) error {
	return s.update(func() error {
		s.settings.Agents = append(s.settings.Agents, agent)
		return s.persistSettings(ctx)
	})
}

// UpdateAgent replaces an agent in place. The built-in agent may be
// edited but keeps its builtin flag.
func (s *Store) UpdateAgent(ctx context.Context, agent AgentConfig) error {
	return s.update(func() error {
		existing := findAgent(s.settings.Agents, agent.ID)
		if existing == nil {
			return fmt.Errorf("agent %s: %w", agent.ID, ErrNotFound)
		}
		agent.Builtin = existing.Builtin
		agent.CreatedAt = existing.CreatedAt
		agent.UpdatedAt = time.Now()
		*existing = agent
		return s.persistSettings(ctx)
	})
}

// DeleteAgent removes a user-defined agent. Deleting the active agent
// falls back to the built-in one.
func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	return s.update(func() error {
		target := findAgent(s.settings.Agents, id)
		if target == nil {
			return fmt.Errorf("agent %s: %w", id, ErrNotFound)
		}
		if target.Builtin {
			return ErrBuiltinAgent
		}

		kept := s.settings.Agents[:0]
		for _, a := range s.settings.Agents {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		s.settings.Agents = kept
		if s.settings.ActiveAgentID == id {
			s.settings.ActiveAgentID = BuiltinAgentID
		}
		return s.persistSettings(ctx)
	})
}

// ActiveModel returns the referenced saved model, if any
func (s *Store) ActiveModel() (SavedModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := findModel(s.settings.SavedModels, s.settings.ActiveModelID); m != nil {
		return *m, true
	}
	return SavedModel{}, false
}

// SetActiveModel points the active model at an existing id
func (s *Store) SetActiveModel(ctx context.Context, id string) error {
	return s.update(func() error {
		if findModel(s.settings.SavedModels, id) == nil {
			return fmt.Errorf("model %s: %w", id, ErrNotFound)
		}
		s.settings.ActiveModelID = id
		return s.persistSettings(ctx)
	})
}

// AddModel registers a saved model. The first model added becomes
// active.
func (s *Store) AddModel(ctx context.Context, model SavedModel) error {
	return s.update(func() error {
		s.settings.SavedModels = append(s.settings.SavedModels, model)
		if s.settings.ActiveModelID == "" {
			s.settings.ActiveModelID = model.ID
		}
		return s.persistSettings(ctx)
	})
}

// DeleteModel removes a saved model, repointing the active pointer at
// the first remaining one.
func (s *Store) DeleteModel(ctx context.Context, id string) error {
	return s.update(func() error {
		if findModel(s.settings.SavedModels, id) == nil {
			return fmt.Errorf("model %s: %w", id, ErrNotFound)
		}

		kept := s.settings.SavedModels[:0]
		for _, m := range s.settings.SavedModels {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		s.settings.SavedModels = kept
		if s.settings.ActiveModelID == id {
			s.settings.ActiveModelID = ""
			if len(kept) > 0 {
				s.settings.ActiveModelID = kept[0].ID
			}
		}
		return s.persistSettings(ctx)
	})
}

// AddBrandTerm appends a global brand term
func (s *Store) AddBrandTerm(ctx context.Context, term prompt.BrandTerm) error {
	return s.update(func() error {
		s.settings.GlobalBrandTerms = append(s.settings.GlobalBrandTerms, term)
		return s.persistSettings(ctx)
	})
}

// RemoveBrandTerm deletes a global brand term by id
func (s *Store) RemoveBrandTerm(ctx context.Context, id string) error {
	return s.update(func() error {
		kept := s.settings.GlobalBrandTerms[:0]
		for _, t := range s.settings.GlobalBrandTerms {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		s.settings.GlobalBrandTerms = kept
		return s.persistSettings(ctx)
	})
}

// AddRule appends a global rule
func (s *Store) AddRule(ctx context.Context, rule prompt.Rule) error {
	return s.update(func() error {
		s.settings.GlobalRules = append(s.settings.GlobalRules, rule)
		return s.persistSettings(ctx)
	})
}

// RemoveRule deletes a global rule by id
func (s *Store) RemoveRule(ctx context.Context, id string) error {
	return s.update(func() error {
		kept := s.settings.GlobalRules[:0]
		for _, r := range s.settings.GlobalRules {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		s.settings.GlobalRules = kept
		return s.persistSettings(ctx)
	})
}

// SetReference keeps the newest style example for its category
func (s *Store) SetReference(ctx context.Context, ref prompt.Reference) error {
	return s.update(func() error {
		if s.settings.References == nil {
			s.settings.References = make(map[category.Category]prompt.Reference)
		}
		s.settings.References[ref.Category] = ref
		return s.persistSettings(ctx)
	})
}

// Reference returns the style example for a category, if one is set
func (s *Store) Reference(cat category.Category) *prompt.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref, ok := s.settings.References[cat]; ok {
		return &ref
	}
	return nil
}

// History returns a copy of the records, newest first
func (s *Store) History() []HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// AddHistory inserts a record at the head and truncates the list to
// the configured limit, dropping the oldest entries. Safe to call from
// concurrent goroutines.
func (s *Store) AddHistory(ctx context.Context, record HistoryRecord) error {
	return s.update(func() error {
		s.history = append([]HistoryRecord{record}, s.history...)
		if len(s.history) > s.settings.HistoryLimit {
			s.history = s.history[:s.settings.HistoryLimit]
		}
		return s.persistHistory(ctx)
	})
}

// ClearHistory drops every record
func (s *Store) ClearHistory(ctx context.Context) error {
	return s.update(func() error {
		s.history = nil
		return s.persistHistory(ctx)
	})
}

// persistHistory writes the record list; the caller holds the lock
func (s *Store) persistHistory(ctx context.Context) error {
	data, err := json.Marshal(s.history)
	if err != nil {
		return err
	}
	if err := s.blob.Set(ctx, historyKey, data); err != nil {
		s.logger.Warn("history save failed, in-memory state kept", zap.Error(err))
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Subscribe registers a change listener and returns its removal func
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// notify invokes listeners outside the lock so they may call back into
// the store.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
