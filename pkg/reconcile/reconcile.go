// Package reconcile chooses the best attribute values for each duplicate
// group using the fixed source-priority order, producing one reconciled
// perimeter candidate per group.
package reconcile

import (
	"math"
	"sort"

	"github.com/coloradofire/perimeters/pkg/normalize"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// Candidate is one reconciled perimeter before geometry merging: the chosen
// attribute values, the priority of the most authoritative member, and the
// full group membership for the geometry union.
type Candidate struct {
	ProvenanceID    int
	Perimeter       perimeters.ReconciledPerimeter
	WinningPriority int // non-positive when no member carries a priority
	MemberIDs       []int
}

// Selector reconciles duplicate groups into candidates.
type Selector interface {
	// Select produces one candidate per duplicate group, ordered by
	// ascending group identifier. groups must be total over records.
	Select(records []perimeters.SourceRecord, groups map[int]int) []Candidate
}

// selector is the default priority-order implementation.
type selector struct{}

// NewSelector creates the default selector.
func NewSelector() Selector {
	return &selector{}
}

// Select produces one candidate per duplicate group.
func (s *selector) Select(records []perimeters.SourceRecord, groups map[int]int) []Candidate {
	members := make(map[int][]perimeters.SourceRecord)
	var order []int
	for _, r := range records {
		g := groups[r.ID]
		if _, seen := members[g]; !seen {
			order = append(order, g)
		}
		members[g] = append(members[g], r)
	}
	sort.Ints(order)

	candidates := make([]Candidate, 0, len(order))
	for _, g := range order {
		candidates = append(candidates, selectGroup(g, members[g]))
	}
	return candidates
}

// selectGroup reconciles one duplicate group: members are scanned in
// ascending priority order and the first non-nil, non-empty value wins each
// field independently.
func selectGroup(group int, members []perimeters.SourceRecord) Candidate {
	sorted := append([]perimeters.SourceRecord{}, members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return effectivePriority(sorted[i].Priority) < effectivePriority(sorted[j].Priority)
	})

	p := perimeters.ReconciledPerimeter{ProvenanceID: group}
	ids := make([]int, 0, len(sorted))
	for _, m := range sorted {
		ids = append(ids, m.ID)

		if p.FireID == nil {
			p.FireID = nonEmpty(m.FireID)
		}
		if p.FireName == nil {
			p.FireName = nonEmpty(m.FireName)
		}
		if p.FireLabel == nil {
			p.FireLabel = nonEmpty(m.FireLabel)
		}
		if p.Year == nil && m.Year != 0 {
			p.Year = perimeters.Ptr(m.Year)
		}
		if p.StartMonth == nil {
			p.StartMonth = m.StartMonth
		}
		if p.StartDay == nil {
			p.StartDay = m.StartDay
		}
		if p.Acres == nil {
			p.Acres = m.Acres
		}
		if p.FireType == nil {
			p.FireType = nonEmpty(m.FireType)
		}
		if p.Agency == nil {
			p.Agency = nonEmpty(m.Agency)
		}
		if p.Source == nil && m.Source != "" {
			p.Source = perimeters.Ptr(m.Source)
		}
		if p.SourceRecordID == nil {
			p.SourceRecordID = nonEmpty(m.SourceRecordID)
		}
	}

	return Candidate{
		ProvenanceID:    group,
		Perimeter:       p,
		WinningPriority: sorted[0].Priority,
		MemberIDs:       ids,
	}
}

// Cleanup applies the final attribute rewrites to a reconciled perimeter:
// prescribed fire unit suffixes are stripped from the display name and
// label, and the legacy "Wildland Fire Use" type becomes "Wildfire".
func Cleanup(p *perimeters.ReconciledPerimeter) {
	if p.FireName != nil {
		p.FireName = perimeters.Ptr(normalize.StripUnitSuffix(*p.FireName))
	}
	if p.FireLabel != nil {
		p.FireLabel = perimeters.Ptr(normalize.StripUnitSuffix(*p.FireLabel))
	}
	if p.FireType != nil && *p.FireType == perimeters.FireTypeWildlandFireUse {
		p.FireType = perimeters.Ptr(perimeters.FireTypeWildfire)
	}
}

// effectivePriority maps unknown (non-positive) priorities behind every
// known rank.
func effectivePriority(p int) float64 {
	if p <= 0 {
		return math.Inf(1)
	}
	return float64(p)
}

// nonEmpty filters out nil pointers and empty strings.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
