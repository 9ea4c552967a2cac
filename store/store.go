// SPDX-License-Identifier: MIT
// Package: store
//
// store.go — SQLite persistence of engine snapshots.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/multigram/multigram"
	"github.com/katalvlaran/multigram/token"
)

// ErrSnapshotNotFound indicates no snapshot matched the id or layer.
var ErrSnapshotNotFound = errors.New("store: snapshot not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	layer        INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	max_tokens   INTEGER NOT NULL,
	max_strength INTEGER NOT NULL,
	threshold    REAL NOT NULL,
	tokens       INTEGER NOT NULL,
	edges        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_layer ON snapshots(layer, created_at);

CREATE TABLE IF NOT EXISTS nodes (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	slot        INTEGER NOT NULL,
	payload     TEXT NOT NULL,
	strength    INTEGER NOT NULL,
	PRIMARY KEY (snapshot_id, slot)
);

CREATE TABLE IF NOT EXISTS edges (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	owner       INTEGER NOT NULL,
	seq         INTEGER NOT NULL,
	target      INTEGER NOT NULL,
	distance    INTEGER NOT NULL,
	strength    INTEGER NOT NULL,
	PRIMARY KEY (snapshot_id, owner, seq)
);
`

// Info describes a stored snapshot without loading it.
type Info struct {
	ID        string
	Layer     int
	CreatedAt time.Time
	Tokens    int
	Edges     int
}

// Store persists multigram snapshots in a SQLite database.
// Methods are safe for concurrent use; the connection pool holds one connection.
type Store struct {
	db   *sql.DB
	path string
	log  *zap.Logger
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the creation-time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if needed) the database at path and its schema.
// MemoryPath opens a private in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("Open(%q): create directory: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Open(%q): %w", path, err)
	}
	// A second connection to :memory: would see a different database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open(%q): %w", path, err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open(%q): create schema: %w", path, err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Save writes snap as a new snapshot of layer in one transaction and
// returns its id.
func (s *Store) Save(ctx context.Context, layer int, snap multigram.Snapshot) (string, error) {
	id := uuid.NewString()
	edges := 0
	for _, n := range snap.Nodes {
		edges += len(n.Edges)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, layer, created_at, max_tokens, max_strength, threshold, tokens, edges)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, layer, s.now().UnixNano(), snap.MaxTokens, snap.MaxStrength, snap.Threshold, len(snap.Nodes), edges,
	); err != nil {
		return "", fmt.Errorf("Save: snapshot row: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (snapshot_id, slot, payload, strength) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	defer nodeStmt.Close()

	edgeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (snapshot_id, owner, seq, target, distance, strength) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	defer edgeStmt.Close()

	for slot, n := range snap.Nodes {
		payload, err := token.Encode(n.Token)
		if err != nil {
			return "", fmt.Errorf("Save: node %d: %w", slot, err)
		}
		if _, err = nodeStmt.ExecContext(ctx, id, slot, string(payload), n.Strength); err != nil {
			return "", fmt.Errorf("Save: node %d: %w", slot, err)
		}
		for seq, e := range n.Edges {
			if _, err = edgeStmt.ExecContext(ctx, id, slot, seq, e.Target, e.Distance, e.Strength); err != nil {
				return "", fmt.Errorf("Save: node %d edge %d: %w", slot, seq, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("Save: commit: %w", err)
	}
	s.log.Info("snapshot saved",
		zap.String("id", id), zap.Int("layer", layer),
		zap.Int("tokens", len(snap.Nodes)), zap.Int("edges", edges))

	return id, nil
}

// Load reads the snapshot with the given id.
//
// Errors:
//   - ErrSnapshotNotFound (wrapped) for an unknown id.
//   - token decoding failures, wrapped.
func (s *Store) Load(ctx context.Context, id string) (multigram.Snapshot, error) {
	var snap multigram.Snapshot
	var tokens int

	err := s.db.QueryRowContext(ctx,
		`SELECT max_tokens, max_strength, threshold, tokens FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.MaxTokens, &snap.MaxStrength, &snap.Threshold, &tokens)
	if errors.Is(err, sql.ErrNoRows) {
		return multigram.Snapshot{}, fmt.Errorf("Load(%q): %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return multigram.Snapshot{}, fmt.Errorf("Load(%q): %w", id, err)
	}

	snap.Nodes = make([]multigram.NodeState, tokens)
	if err = s.loadNodes(ctx, id, snap.Nodes); err != nil {
		return multigram.Snapshot{}, fmt.Errorf("Load(%q): %w", id, err)
	}
	if err = s.loadEdges(ctx, id, snap.Nodes); err != nil {
		return multigram.Snapshot{}, fmt.Errorf("Load(%q): %w", id, err)
	}
	s.log.Info("snapshot loaded", zap.String("id", id), zap.Int("tokens", tokens))

	return snap, nil
}

func (s *Store) loadNodes(ctx context.Context, id string, nodes []multigram.NodeState) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slot, payload, strength FROM nodes WHERE snapshot_id = ? ORDER BY slot`, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			slot, strength int
			payload        string
		)
		if err = rows.Scan(&slot, &payload, &strength); err != nil {
			return err
		}
		if slot < 0 || slot >= len(nodes) {
			return fmt.Errorf("node slot %d out of range: %w", slot, multigram.ErrBadSnapshot)
		}
		tok, err := token.Decode([]byte(payload))
		if err != nil {
			return fmt.Errorf("node %d: %w", slot, err)
		}
		nodes[slot] = multigram.NodeState{Token: tok, Strength: strength, Edges: []multigram.EdgeState{}}
	}

	return rows.Err()
}

func (s *Store) loadEdges(ctx context.Context, id string, nodes []multigram.NodeState) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner, target, distance, strength FROM edges WHERE snapshot_id = ? ORDER BY owner, seq`, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			owner int
			e     multigram.EdgeState
		)
		if err = rows.Scan(&owner, &e.Target, &e.Distance, &e.Strength); err != nil {
			return err
		}
		if owner < 0 || owner >= len(nodes) {
			return fmt.Errorf("edge owner %d out of range: %w", owner, multigram.ErrBadSnapshot)
		}
		nodes[owner].Edges = append(nodes[owner].Edges, e)
	}

	return rows.Err()
}

// Latest returns the most recent snapshot of layer.
func (s *Store) Latest(ctx context.Context, layer int) (Info, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, layer, created_at, tokens, edges FROM snapshots
		 WHERE layer = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, layer)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("Latest(%d): %w", layer, ErrSnapshotNotFound)
	}
	if err != nil {
		return Info{}, fmt.Errorf("Latest(%d): %w", layer, err)
	}
	return info, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, layer, created_at, tokens, edges FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		out = append(out, info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot with its nodes and edges.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete(%q): %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("Delete(%q): %w", id, ErrSnapshotNotFound)
	}
	s.log.Info("snapshot deleted", zap.String("id", id))
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (Info, error) {
	var (
		info Info
		at   int64
	)
	if err := row.Scan(&info.ID, &info.Layer, &at, &info.Tokens, &info.Edges); err != nil {
		return Info{}, err
	}
	info.CreatedAt = time.Unix(0, at)
	return info, nil
}
