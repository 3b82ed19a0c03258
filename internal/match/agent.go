package match

import (
	"context"

	"github.com/lox/arenacore/internal/xhash"
)

// AgentKind classifies what kind of decision-maker an agent wraps. It is
// descriptive metadata only; the orchestrator treats every kind identically.
type AgentKind string

const (
	AgentKindLocal     AgentKind = "local"
	AgentKindLLM       AgentKind = "llm"
	AgentKindWebhook   AgentKind = "webhook"
	AgentKindFramework AgentKind = "framework"
)

// AgentMeta identifies an agent variant. Config is opaque and
// game/agent-defined; it is folded into the fingerprint so that two agents
// sharing an ID and version but differing in configuration are still
// distinguishable in the log.
type AgentMeta struct {
	ID          string
	Version     string
	DisplayName string
	Kind        AgentKind
	Config      any
}

// Fingerprint returns SHA-256(canonical({id, version, config})), identifying
// the precise agent variant that played a match.
func (m AgentMeta) Fingerprint() (string, error) {
	return xhash.CanonicalHash(struct {
		ID      string `json:"id"`
		Version string `json:"version"`
		Config  any    `json:"config"`
	}{ID: m.ID, Version: m.Version, Config: m.Config})
}

// ClockInfo tells an agent how long it has to decide.
type ClockInfo struct {
	TurnTimeoutMs int64 `json:"turnTimeoutMs"`
}

// DecideMeta carries turn bookkeeping an agent may want for its own
// reasoning (e.g. deriving its own deterministic sub-seed).
type DecideMeta struct {
	TurnIndex  int  `json:"turnIndex"`
	HandNumber *int `json:"handNumber,omitempty"`
}

// DecideInput is everything an Agent's Decide receives for one turn.
type DecideInput[O, A any] struct {
	MatchID      string
	GameID       string
	GameVersion  string
	PlayerIndex  int
	Observation  O
	LegalActions []A
	Clock        ClockInfo
	Meta         DecideMeta
}

// DecideOutput is an agent's response to a DecideInput. Reason is free-form
// text; the orchestrator sanitizes it (control characters stripped, length
// capped) before it ever reaches a log line.
type DecideOutput[A any] struct {
	Action A
	Reason string
}

// Agent is any entity (local heuristic, LLM, webhook, or another framework)
// that can decide an action for a given observation. Agents are permitted
// to be nondeterministic; conformant ones derive their own randomness from
// (matchId, turnIndex) so whole matches stay reproducible even though the
// core places no determinism requirement on agents themselves.
type Agent[O, A any] interface {
	Meta() AgentMeta
	Decide(ctx context.Context, in DecideInput[O, A]) (DecideOutput[A], error)
}
