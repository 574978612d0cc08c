package store

import "copytune/internal/llm"

// Schema history:
//   v1: each agent embedded its own modelConfig; there was no
//       saved-model list and no active-model pointer.
//   v2: model credentials live in Settings.SavedModels, referenced by
//       id from ActiveModelID.
const currentSchemaVersion = 2

// migrateSettings upgrades a loaded aggregate through every schema
// step in order. Each step is pure over the aggregate and idempotent.
func migrateSettings(s *Settings) {
	if s.Version < 2 {
		migrateV1toV2(s)
	}
	s.Version = currentSchemaVersion
}

// migrateV1toV2 lifts a legacy embedded model configuration into the
// saved-model list. It runs at most once: a non-empty saved-model list
// means the data is already in v2 shape, so re-running is a no-op and
// never duplicates the synthesized entry.
func migrateV1toV2(s *Settings) {
	if len(s.SavedModels) == 0 {
		if legacy := legacyModelConfig(s); legacy != nil {
			saved := NewSavedModel("", *legacy)
			s.SavedModels = []SavedModel{saved}
			s.ActiveModelID = saved.ID
		}
	}

	for i := range s.Agents {
		s.Agents[i].LegacyModel = nil
	}
}

// legacyModelConfig picks the embedded config to preserve: the active
// agent's when it has a credential, else the first agent that does.
// Credential-less configs carry no data worth migrating.
func legacyModelConfig(s *Settings) *llm.ModelConfig {
	if active := findAgent(s.Agents, s.ActiveAgentID); active != nil {
		if active.LegacyModel != nil && active.LegacyModel.APIKey != "" {
			return active.LegacyModel
		}
	}
	for i := range s.Agents {
		if lm := s.Agents[i].LegacyModel; lm != nil && lm.APIKey != "" {
			return lm
		}
	}
	return nil
}
