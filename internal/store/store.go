// Package store persists the two durable reconciliation outputs, the
// reconciled perimeters and their provenance rows, in a SQLite database.
// Geometry is stored as GeoJSON text. A run is written in one transaction
// so a partially written run is never visible as complete output.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	_ "modernc.org/sqlite"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// Store manages perimeter persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the perimeter database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStoreError("open", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, errors.NewStoreError("open", path, fmt.Errorf("apply pragma %q: %w", pragma, execErr))
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("open", path, err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRun replaces the stored outputs with the given run in a single
// transaction. Either the whole run lands or nothing changes.
func (s *Store) SaveRun(ctx context.Context, runID string, perims []perimeters.ReconciledPerimeter, entries []perimeters.ProvenanceEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("write", s.path, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"reconciled_perimeters", "fire_perimeter_provenance"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.NewStoreError("write", s.path, err)
		}
	}

	const insertPerimeter = `
INSERT INTO reconciled_perimeters (
    run_id, fire_id, fire_name, fire_label, year, start_month, start_day,
    acres, fire_type, agency, source, source_record_id, provenance_id, geometry
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, p := range perims {
		geom, err := marshalGeometry(p.Geometry)
		if err != nil {
			return errors.NewStoreError("write", s.path, err)
		}
		var source *string
		if p.Source != nil {
			source = perimeters.Ptr(p.Source.String())
		}
		_, err = tx.ExecContext(ctx, insertPerimeter,
			runID, p.FireID, p.FireName, p.FireLabel, p.Year, p.StartMonth,
			p.StartDay, p.Acres, p.FireType, p.Agency, source,
			p.SourceRecordID, p.ProvenanceID, geom)
		if err != nil {
			return errors.NewStoreError("write", s.path, err)
		}
	}

	const insertProvenance = `
INSERT INTO fire_perimeter_provenance (
    run_id, provenance_id, original_id, source, norm_label, fire_year
) VALUES (?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, insertProvenance,
			runID, e.ProvenanceID, e.OriginalID, e.Source.String(),
			e.NormalizedLabel, e.FireYear)
		if err != nil {
			return errors.NewStoreError("write", s.path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("write", s.path, err)
	}
	return nil
}

// Perimeters returns all stored perimeters ordered by provenance ID.
func (s *Store) Perimeters(ctx context.Context) ([]perimeters.ReconciledPerimeter, error) {
	const query = `
SELECT fire_id, fire_name, fire_label, year, start_month, start_day,
       acres, fire_type, agency, source, source_record_id, provenance_id, geometry
FROM reconciled_perimeters
ORDER BY provenance_id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStoreError("read", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var out []perimeters.ReconciledPerimeter
	for rows.Next() {
		var (
			p      perimeters.ReconciledPerimeter
			source *string
			geom   *string
		)
		err := rows.Scan(&p.FireID, &p.FireName, &p.FireLabel, &p.Year,
			&p.StartMonth, &p.StartDay, &p.Acres, &p.FireType, &p.Agency,
			&source, &p.SourceRecordID, &p.ProvenanceID, &geom)
		if err != nil {
			return nil, errors.NewStoreError("read", s.path, err)
		}
		if source != nil {
			p.Source = perimeters.Ptr(perimeters.SourceID(*source))
		}
		if geom != nil {
			g, err := unmarshalGeometry(*geom)
			if err != nil {
				return nil, errors.NewStoreError("read", s.path, err)
			}
			p.Geometry = g
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("read", s.path, err)
	}
	return out, nil
}

// Provenance returns all stored provenance entries ordered by provenance ID.
func (s *Store) Provenance(ctx context.Context) ([]perimeters.ProvenanceEntry, error) {
	const query = `
SELECT provenance_id, original_id, source, norm_label, fire_year
FROM fire_perimeter_provenance
ORDER BY provenance_id, id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStoreError("read", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var out []perimeters.ProvenanceEntry
	for rows.Next() {
		var (
			e      perimeters.ProvenanceEntry
			source string
		)
		if err := rows.Scan(&e.ProvenanceID, &e.OriginalID, &source, &e.NormalizedLabel, &e.FireYear); err != nil {
			return nil, errors.NewStoreError("read", s.path, err)
		}
		e.Source = perimeters.SourceID(source)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("read", s.path, err)
	}
	return out, nil
}

// marshalGeometry encodes geometry as GeoJSON text, nil for no geometry.
func marshalGeometry(g orb.Geometry) (*string, error) {
	if g == nil {
		return nil, nil
	}
	data, err := json.Marshal(geojson.NewGeometry(g))
	if err != nil {
		return nil, err
	}
	return perimeters.Ptr(string(data)), nil
}

func unmarshalGeometry(text string) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry([]byte(text))
	if err != nil {
		return nil, err
	}
	return g.Geometry(), nil
}
