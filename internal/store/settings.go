// Package store owns the persisted configuration: agents, saved model
// credentials, global brand terms and rules, style references, and the
// bounded rewrite history. Everything round-trips as whole documents
// through an async blob store.
package store

import (
	"time"

	"github.com/google/uuid"

	"copytune/internal/category"
	"copytune/internal/llm"
	"copytune/internal/prompt"
)

// BuiltinAgentID identifies the one agent that always exists and can
// only be edited, never deleted.
const BuiltinAgentID = "agent-builtin"

const defaultHistoryLimit = 100

// AgentConfig is a named, reusable bundle of system-prompt override,
// brand terms, and rules.
type AgentConfig struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	SystemPrompt string             `json:"systemPrompt"`
	BrandTerms   []prompt.BrandTerm `json:"brandTerms"`
	Rules        []prompt.Rule      `json:"rules"`
	Builtin      bool               `json:"builtin"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`

	// LegacyModel is the pre-v2 embedded model configuration. It is
	// only read during migration and dropped on the next save.
	LegacyModel *llm.ModelConfig `json:"modelConfig,omitempty"`
}

// SavedModel is a named, credentialed backend configuration
type SavedModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	llm.ModelConfig
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryRecord is an immutable snapshot of one rewrite
type HistoryRecord struct {
	ID        string            `json:"id"`
	NodeID    string            `json:"nodeId"`
	NodeName  string            `json:"nodeName"`
	Original  string            `json:"original"`
	Optimized string            `json:"optimized"`
	Category  category.Category `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Applied   bool              `json:"applied"`
}

// Settings is the aggregate root persisted under the settings key
type Settings struct {
	Version          int                                    `json:"version"`
	ActiveAgentID    string                                 `json:"activeAgentId"`
	Agents           []AgentConfig                          `json:"agents"`
	ActiveModelID    string                                 `json:"activeModelId"`
	SavedModels      []SavedModel                           `json:"savedModels"`
	GlobalBrandTerms []prompt.BrandTerm                     `json:"globalBrandTerms"`
	GlobalRules      []prompt.Rule                          `json:"globalRules"`
	References       map[category.Category]prompt.Reference `json:"references,omitempty"`
	HistoryLimit     int                                    `json:"historyLimit"`
}

// DefaultSettings returns the aggregate a fresh install starts from
func DefaultSettings() Settings {
	return Settings{
		Version:       currentSchemaVersion,
		ActiveAgentID: BuiltinAgentID,
		Agents:        []AgentConfig{builtinAgent()},
		HistoryLimit:  defaultHistoryLimit,
	}
}

func builtinAgent() AgentConfig {
	now := time.Now()
	return AgentConfig{
		ID:          BuiltinAgentID,
		Name:        "默认优化助手",
		Description: "通用文案优化 Agent",
		Builtin:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// normalize merges defaults over loaded data field by field and
// restores the aggregate's invariants: the built-in agent exists, and
// both active pointers reference present entries.
func normalize(s *Settings) {
	if !hasBuiltin(s.Agents) {
		s.Agents = append([]AgentConfig{builtinAgent()}, s.Agents...)
	}
	if findAgent(s.Agents, s.ActiveAgentID) == nil {
		s.ActiveAgentID = BuiltinAgentID
	}
	if s.ActiveModelID != "" && findModel(s.SavedModels, s.ActiveModelID) == nil {
		s.ActiveModelID = ""
	}
	if s.ActiveModelID == "" && len(s.SavedModels) > 0 {
		s.ActiveModelID = s.SavedModels[0].ID
	}
	if s.HistoryLimit <= 0 {
		s.HistoryLimit = defaultHistoryLimit
	}
	s.Version = currentSchemaVersion
}

func hasBuiltin(agents []AgentConfig) bool {
	for _, a := range agents {
		if a.Builtin {
			return true
		}
	}
	return false
}

func findAgent(agents []AgentConfig, id string) *AgentConfig {
	for i := range agents {
		if agents[i].ID == id {
			return &agents[i]
		}
	}
	return nil
}

func findModel(models []SavedModel, id string) *SavedModel {
	for i := range models {
		if models[i].ID == id {
			return &models[i]
		}
	}
	return nil
}

// NewAgent creates a user-defined agent
func NewAgent(name, description string) AgentConfig {
	now := time.Now()
	return AgentConfig{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSavedModel names and registers a model configuration
func NewSavedModel(name string, cfg llm.ModelConfig) SavedModel {
	if name == "" {
		name = string(cfg.Provider) + "/" + cfg.ModelName()
	}
	return SavedModel{
		ID:          uuid.NewString(),
		Name:        name,
		ModelConfig: cfg,
		CreatedAt:   time.Now(),
	}
}

// NewBrandTerm creates an enabled substitution. Both sides must be
// non-empty.
func NewBrandTerm(wrong, correct string) (prompt.BrandTerm, error) {
	if wrong == "" || correct == "" {
		return prompt.BrandTerm{}, errInvalidBrandTerm
	}
	return prompt.BrandTerm{
		ID:      uuid.NewString(),
		Wrong:   wrong,
		Correct: correct,
		Enabled: true,
	}, nil
}

// NewRule creates an enabled rule, optionally restricted to one
// category.
func NewRule(content string, cat category.Category) prompt.Rule {
	return prompt.Rule{
		ID:       uuid.NewString(),
		Content:  content,
		Category: cat,
		Enabled:  true,
	}
}

// NewHistoryRecord snapshots a completed rewrite
func NewHistoryRecord(nodeID, nodeName, original, optimized string, cat category.Category, applied bool) HistoryRecord {
	return HistoryRecord{
		ID:        uuid.NewString(),
		NodeID:    nodeID,
		NodeName:  nodeName,
		Original:  original,
		Optimized: optimized,
		Category:  cat,
		Timestamp: time.Now(),
		Applied:   applied,
	}
}
