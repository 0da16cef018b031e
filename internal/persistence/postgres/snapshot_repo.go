// Package postgres implements the snapshot archive on PostgreSQL with JSONB
// payload columns.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/persistence"
)

// snapshotRepo implements SnapshotRepo for PostgreSQL
type snapshotRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewSnapshotRepo creates a new PostgreSQL snapshot repository
func NewSnapshotRepo(db *sqlx.DB, timeout time.Duration) persistence.SnapshotRepo {
	return &snapshotRepo{
		db:      db,
		timeout: timeout,
	}
}

// Insert archives a run snapshot, assigning an ID when the caller left it zero
func (r *snapshotRepo) Insert(ctx context.Context, snapshot *persistence.RunSnapshot) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}

	inputJSON, err := json.Marshal(snapshot.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot input: %w", err)
	}
	outputJSON, err := json.Marshal(snapshot.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot output: %w", err)
	}

	query := `
		INSERT INTO run_snapshots (id, kind, session_id, input, output)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err = r.db.QueryRowxContext(ctx, query,
		snapshot.ID, snapshot.Kind, snapshot.SessionID, inputJSON, outputJSON).
		Scan(&snapshot.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("duplicate snapshot id %s: %w", snapshot.ID, err)
		}
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// Get retrieves a snapshot by run ID
func (r *snapshotRepo) Get(ctx context.Context, id uuid.UUID) (*persistence.RunSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, kind, session_id, input, output, created_at
		FROM run_snapshots
		WHERE id = $1`

	return r.scanSnapshot(r.db.QueryRowxContext(ctx, query, id))
}

// ListBySession retrieves snapshots for one session, newest first
func (r *snapshotRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]persistence.RunSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, kind, session_id, input, output, created_at
		FROM run_snapshots
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots by session: %w", err)
	}
	defer rows.Close()

	return r.scanSnapshots(rows)
}

// ListByKind retrieves snapshots of one kind within a time range, newest first
func (r *snapshotRepo) ListByKind(ctx context.Context, kind string, tr persistence.TimeRange, limit int) ([]persistence.RunSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, kind, session_id, input, output, created_at
		FROM run_snapshots
		WHERE kind = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
		LIMIT $4`

	rows, err := r.db.QueryxContext(ctx, query, kind, tr.From, tr.To, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots by kind: %w", err)
	}
	defer rows.Close()

	return r.scanSnapshots(rows)
}

// Health verifies the archive is reachable
func (r *snapshotRepo) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("snapshot archive unreachable: %w", err)
	}
	return nil
}

func (r *snapshotRepo) scanSnapshot(row *sqlx.Row) (*persistence.RunSnapshot, error) {
	var snapshot persistence.RunSnapshot
	var inputJSON, outputJSON []byte

	err := row.Scan(&snapshot.ID, &snapshot.Kind, &snapshot.SessionID,
		&inputJSON, &outputJSON, &snapshot.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	if err := unmarshalPayloads(&snapshot, inputJSON, outputJSON); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepo) scanSnapshots(rows *sqlx.Rows) ([]persistence.RunSnapshot, error) {
	var snapshots []persistence.RunSnapshot
	for rows.Next() {
		var snapshot persistence.RunSnapshot
		var inputJSON, outputJSON []byte

		err := rows.Scan(&snapshot.ID, &snapshot.Kind, &snapshot.SessionID,
			&inputJSON, &outputJSON, &snapshot.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		if err := unmarshalPayloads(&snapshot, inputJSON, outputJSON); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

func unmarshalPayloads(snapshot *persistence.RunSnapshot, inputJSON, outputJSON []byte) error {
	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &snapshot.Input); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot input: %w", err)
		}
	}
	if len(outputJSON) > 0 {
		if err := json.Unmarshal(outputJSON, &snapshot.Output); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot output: %w", err)
		}
	}
	return nil
}
