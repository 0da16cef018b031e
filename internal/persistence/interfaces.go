// Package persistence defines the optional run-snapshot archive. The engine
// itself is pure; archiving evaluation and optimization outputs is a service
// concern wired in by the caller when an audit trail is wanted.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot kinds.
const (
	KindEligibility = "eligibility"
	KindFeasibility = "feasibility"
	KindPlanning    = "planning"
	KindOptimize    = "optimize"
)

// RunSnapshot is one archived engine run: the full input and output payloads
// as submitted, in JSON form, keyed by a run ID the caller can quote back.
type RunSnapshot struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	Kind      string                 `json:"kind" db:"kind"`
	SessionID string                 `json:"session_id,omitempty" db:"session_id"`
	Input     map[string]interface{} `json:"input" db:"input"`
	Output    map[string]interface{} `json:"output" db:"output"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// TimeRange bounds archive queries.
type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// SnapshotRepo archives and retrieves engine run snapshots.
type SnapshotRepo interface {
	// Insert archives one snapshot; the ID is assigned when zero.
	Insert(ctx context.Context, snapshot *RunSnapshot) error

	// Get retrieves a snapshot by run ID.
	Get(ctx context.Context, id uuid.UUID) (*RunSnapshot, error)

	// ListBySession retrieves snapshots for one advisory session, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]RunSnapshot, error)

	// ListByKind retrieves snapshots of one kind within a time range, newest first.
	ListByKind(ctx context.Context, kind string, tr TimeRange, limit int) ([]RunSnapshot, error)

	// Health verifies the archive is reachable.
	Health(ctx context.Context) error
}
