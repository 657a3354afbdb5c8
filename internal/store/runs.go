package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/queryir"
)

// Run is one recorded generation.
type Run struct {
	ID               string            `json:"id"`
	Node             string            `json:"node"`
	SchemaHash       string            `json:"schema_hash"`
	OutputHash       string            `json:"output_hash"`
	GeneratorVersion string            `json:"generator_version"`
	Storage          string            `json:"storage"`
	Words            int               `json:"words"`
	Options          map[string]string `json:"options,omitempty"`
	Seq              int64             `json:"seq"`
}

// Fragment is one stored fragment of a run.
type Fragment struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
	Text    string `json:"text"`
}

// RecordRun stores a run and its fragments in one transaction.
//
// ID, OutputHash and Seq are assigned here. A run whose schema hash and
// output hash match an existing run is not stored again; the existing run
// is returned with created=false.
func (s *Store) RecordRun(ctx context.Context, run Run, frags []Fragment) (Run, bool, error) {
	options, err := marshalOptions(run.Options)
	if err != nil {
		return Run{}, false, fmt.Errorf("record run: %w", err)
	}
	run.OutputHash = outputHash(frags, options)

	existing, found, err := s.findRun(ctx, run.SchemaHash, run.OutputHash)
	if err != nil {
		return Run{}, false, err
	}
	if found {
		return existing, false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, false, fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM generation_runs`).Scan(&run.Seq); err != nil {
		return Run{}, false, fmt.Errorf("record run: next seq: %w", err)
	}
	run.ID = s.ids.Generate()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO generation_runs
		(id, node_name, schema_hash, output_hash, generator_version, storage, words, options, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Node,
		run.SchemaHash,
		run.OutputHash,
		run.GeneratorVersion,
		run.Storage,
		run.Words,
		options,
		run.Seq,
	)
	if err != nil {
		return Run{}, false, fmt.Errorf("record run: %w", err)
	}

	for i, f := range frags {
		hash, err := writeFragment(ctx, tx, f.Text)
		if err != nil {
			return Run{}, false, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_fragments (run_id, name, backend, fragment_hash, position)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, f.Name, f.Backend, hash, i)
		if err != nil {
			return Run{}, false, fmt.Errorf("record run: fragment %q: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, false, fmt.Errorf("record run: commit: %w", err)
	}
	if run.Options, err = unmarshalOptions(options); err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// writeFragment stores text once per content hash.
// Uses ON CONFLICT DO NOTHING: identical text is shared between runs.
func writeFragment(ctx context.Context, tx *sql.Tx, text string) (string, error) {
	hash := hashFragment(text)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO fragments (hash, text) VALUES (?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, text)
	if err != nil {
		return "", fmt.Errorf("write fragment: %w", err)
	}
	return hash, nil
}

var runColumns = strings.Join(runColumnList, ", ")

func (s *Store) findRun(ctx context.Context, schemaHash, outHash string) (Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM generation_runs
		WHERE schema_hash = ? AND output_hash = ?
	`, schemaHash, outHash)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// ListRuns returns the recorded runs matching filter.
// Results are ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no runs match.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query, args, err := runQueries.Compile(queryir.Select{
		From:   queryir.TableRuns,
		Filter: filter.predicate(),
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the most recent run for a node.
func (s *Store) LatestRun(ctx context.Context, node string) (Run, bool, error) {
	query, args, err := runQueries.Compile(queryir.Select{
		From:   queryir.TableRuns,
		Filter: RunFilter{Node: node}.predicate(),
		Order:  queryir.Descending,
		Limit:  1,
	})
	if err != nil {
		return Run{}, false, fmt.Errorf("latest run: %w", err)
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

// RunFragments returns a run's fragments in output order.
//
// Returns an empty slice (not nil) for unknown runs.
func (s *Store) RunFragments(ctx context.Context, runID string) ([]Fragment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rf.name, rf.backend, f.text
		FROM run_fragments rf
		JOIN fragments f ON rf.fragment_hash = f.hash
		WHERE rf.run_id = ?
		ORDER BY rf.position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query fragments: %w", err)
	}
	defer rows.Close()

	frags := []Fragment{}
	for rows.Next() {
		var f Fragment
		if err := rows.Scan(&f.Name, &f.Backend, &f.Text); err != nil {
			return nil, fmt.Errorf("scan fragment: %w", err)
		}
		frags = append(frags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fragments: %w", err)
	}
	return frags, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var options string
	err := row.Scan(
		&run.ID,
		&run.Node,
		&run.SchemaHash,
		&run.OutputHash,
		&run.GeneratorVersion,
		&run.Storage,
		&run.Words,
		&options,
		&run.Seq,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if run.Options, err = unmarshalOptions(options); err != nil {
		return Run{}, err
	}
	return run, nil
}
