package handlers

import (
	"app/ai"
	"app/engine"
	"app/syncer"
)

// Package-level collaborators, wired once at startup by main.
// Handlers stay thin; the engine owns all analytics state.
var (
	eng      *engine.Engine
	syncSvc  *syncer.Syncer
	analyzer ai.Analyzer
)

// Setup wires the handlers to their collaborators.
func Setup(e *engine.Engine, s *syncer.Syncer, a ai.Analyzer) {
	eng = e
	syncSvc = s
	analyzer = a
}
