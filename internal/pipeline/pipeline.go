// Package pipeline orchestrates a full reconciliation run: label
// normalization, spatial proximity grouping, name and date sub-clustering,
// the transitive duplicate merge, provenance, attribute reconciliation,
// geometry dissolve, and fire ID synthesis.
//
// Stages run strictly batchwise over the whole input. Group identifiers are
// assigned in input order, so a run is reproducible only while the caller
// holds the record order fixed.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/coloradofire/perimeters/pkg/dedupe"
	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/fireid"
	"github.com/coloradofire/perimeters/pkg/geometry"
	"github.com/coloradofire/perimeters/pkg/logging"
	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
	"github.com/coloradofire/perimeters/pkg/provenance"
	"github.com/coloradofire/perimeters/pkg/reconcile"
	"github.com/coloradofire/perimeters/pkg/sources"
)

// Config holds the tunable thresholds of a run.
type Config struct {
	// ProximityThreshold is the neighbor search radius in the coordinate
	// units of the geometry engine.
	ProximityThreshold float64

	// NameSimilarity is the similarity two normalized labels must strictly
	// exceed to land in the same name cluster.
	NameSimilarity float64

	// StartYear and EndYear bound the fire years admitted into a run.
	// Records outside the range, and records with no year, are dropped
	// before grouping. Leaving both zero disables the filter.
	StartYear int
	EndYear   int
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		ProximityThreshold: 500,
		NameSimilarity:     dedupe.DefaultNameSimilarity,
		StartYear:          1984,
		EndYear:            2024,
	}
}

// Report summarizes one run: stage counts plus the per-record errors that
// did not abort it.
type Report struct {
	RunID           uuid.UUID
	Started         time.Time
	Finished        time.Time
	InputRecords    int
	ProximityGroups int
	DuplicateGroups int
	Perimeters      int
	SynthesizedIDs  int
	RecordErrors    []error
}

// Result is the complete output of a run.
type Result struct {
	Perimeters []perimeters.ReconciledPerimeter
	Provenance []perimeters.ProvenanceEntry
	Report     Report
}

// Pipeline runs the reconciliation stages over one record batch.
type Pipeline struct {
	cfg      Config
	engine   geometry.Engine
	selector reconcile.Selector
	logger   *zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the run logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithSelector overrides the attribute reconciliation strategy.
func WithSelector(s reconcile.Selector) Option {
	return func(p *Pipeline) {
		p.selector = s
	}
}

// New creates a Pipeline with the given configuration and geometry engine.
func New(cfg Config, engine geometry.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		engine:   engine,
		selector: reconcile.NewSelector(),
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes all stages over records. Per-record geometry failures are
// collected into the report and the affected perimeter keeps its reconciled
// attributes; validation and neighbor-search failures abort the run.
func (p *Pipeline) Run(ctx context.Context, records []perimeters.SourceRecord) (*Result, error) {
	report := Report{
		RunID:        uuid.New(),
		Started:      time.Now().UTC(),
		InputRecords: len(records),
	}
	p.logger.Info().
		Str("run_id", report.RunID.String()).
		Int("records", len(records)).
		Msg("starting reconciliation run")

	if err := validate(records); err != nil {
		return nil, err
	}

	if p.cfg.StartYear != 0 || p.cfg.EndYear != 0 {
		records = sources.FilterYears(records, p.cfg.StartYear, p.cfg.EndYear)
		if dropped := report.InputRecords - len(records); dropped > 0 {
			p.logger.Debug().Int("dropped", dropped).Msg("records outside year range dropped")
		}
	}
	records = scrub(records)

	labels := make(map[int]string, len(records))
	for _, r := range records {
		labels[r.ID] = normalize.LabelPtr(r.FireLabel)
	}

	pairs, err := p.engine.NearPairs(ctx, records, p.cfg.ProximityThreshold)
	if err != nil {
		return nil, err
	}

	prox := dedupe.ProximityGroups(records, pairs)
	names := dedupe.NameGroups(records, prox, labels, p.cfg.NameSimilarity)
	dates := dedupe.DateGroups(records, prox)
	groups := dedupe.DuplicateGroups(records, names, dates)

	report.ProximityGroups = distinct(prox)
	report.DuplicateGroups = distinct(groups)
	p.logger.Debug().
		Int("proximity_groups", report.ProximityGroups).
		Int("duplicate_groups", report.DuplicateGroups).
		Msg("grouping complete")

	entries := provenance.Build(records, groups, labels)

	geometries := make(map[int]perimeters.SourceRecord, len(records))
	for _, r := range records {
		geometries[r.ID] = r
	}

	synth := fireid.New()
	candidates := p.selector.Select(records, groups)
	out := make([]perimeters.ReconciledPerimeter, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, p.finalize(c, geometries, synth, &report))
	}
	report.Perimeters = len(out)
	report.Finished = time.Now().UTC()

	p.logger.Info().
		Str("run_id", report.RunID.String()).
		Int("perimeters", report.Perimeters).
		Int("synthesized_ids", report.SynthesizedIDs).
		Int("record_errors", len(report.RecordErrors)).
		Dur("elapsed", report.Finished.Sub(report.Started)).
		Msg("reconciliation run complete")

	return &Result{
		Perimeters: out,
		Provenance: entries,
		Report:     report,
	}, nil
}

// finalize turns one reconciled candidate into the output perimeter:
// dissolve the member geometries, synthesize a fire ID when none was
// inherited, recompute acres from the merged footprint, and apply the final
// name and type rewrites.
func (p *Pipeline) finalize(c reconcile.Candidate, records map[int]perimeters.SourceRecord, synth *fireid.Synthesizer, report *Report) perimeters.ReconciledPerimeter {
	perim := c.Perimeter

	var geoms []orb.Geometry
	for _, id := range c.MemberIDs {
		if g := records[id].Geometry; g != nil {
			geoms = append(geoms, g)
		}
	}

	if len(geoms) > 0 {
		merged, err := p.engine.Union(geoms)
		if err != nil {
			p.record(report, errors.NewGeometryError("union", firstID(c.MemberIDs), err))
		} else {
			perim.Geometry = merged
		}
	}

	if perim.Geometry != nil {
		if perim.FireID == nil {
			lat, lon, err := p.engine.Centroid(perim.Geometry)
			if err != nil {
				p.record(report, errors.NewGeometryError("centroid", firstID(c.MemberIDs), err))
			} else {
				year := 0
				if perim.Year != nil {
					year = *perim.Year
				}
				perim.FireID = perimeters.Ptr(synth.FireID(lat, lon, year, perim.StartMonth, perim.StartDay))
				report.SynthesizedIDs++
			}
		}

		acres, err := p.engine.AreaAcres(perim.Geometry)
		if err != nil {
			p.record(report, errors.NewGeometryError("area", firstID(c.MemberIDs), err))
		} else {
			perim.Acres = perimeters.Ptr(acres)
		}
	}

	reconcile.Cleanup(&perim)
	return perim
}

// record logs a per-record failure and adds it to the report.
func (p *Pipeline) record(report *Report, err error) {
	p.logger.Warn().Err(err).Msg("record error, perimeter kept without derived geometry values")
	report.RecordErrors = append(report.RecordErrors, err)
}

// scrub replaces placeholder attribute strings ("Unknown", "Unnamed",
// "UNK", "N/A") with absence so that neither grouping nor reconciliation
// ever matches on them. The input slice is left untouched.
func scrub(records []perimeters.SourceRecord) []perimeters.SourceRecord {
	out := append([]perimeters.SourceRecord{}, records...)
	for i := range out {
		out[i].FireID = normalize.ScrubUnknown(out[i].FireID)
		out[i].FireName = normalize.ScrubUnknown(out[i].FireName)
		out[i].FireLabel = normalize.ScrubUnknown(out[i].FireLabel)
		out[i].FireType = normalize.ScrubUnknown(out[i].FireType)
		out[i].Agency = normalize.ScrubUnknown(out[i].Agency)
		out[i].SourceRecordID = normalize.ScrubUnknown(out[i].SourceRecordID)
	}
	return out
}

// validate rejects batches with missing or duplicated record identifiers.
func validate(records []perimeters.SourceRecord) error {
	seen := make(map[int]struct{}, len(records))
	for i, r := range records {
		if r.ID <= 0 {
			return fmt.Errorf("record at index %d: %w", i, errors.ErrMissingIdentifier)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("record identifier %d repeated: %w", r.ID, errors.ErrMissingIdentifier)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// distinct counts the distinct values of a membership map.
func distinct(m map[int]int) int {
	set := make(map[int]struct{}, len(m))
	for _, v := range m {
		set[v] = struct{}{}
	}
	return len(set)
}

// firstID returns the first member identifier, 0 for an empty group.
func firstID(ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}
