// Package dedupe implements the record-linkage engine: spatial proximity
// grouping via union-find, greedy name-similarity sub-clustering, start-date
// sub-clustering, and the transitive merge that produces one duplicate-group
// identifier per input record.
//
// All group identifiers are assigned in order of first discovery over the
// input slice, so results are reproducible only while the caller holds the
// input record order fixed between runs.
package dedupe

import (
	"github.com/coloradofire/perimeters/pkg/geometry"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// DefaultNameSimilarity is the similarity a label must strictly exceed to
// join an existing name cluster.
const DefaultNameSimilarity = 0.85

// ProximityGroups computes connected components over the neighbor-pair feed,
// keeping only pairs whose records share the same year. Component
// identifiers are 1, 2, 3, … in order of first discovery. Records with no
// same-year neighbor are absent from the result. Self-pairs are discarded.
func ProximityGroups(records []perimeters.SourceRecord, pairs []geometry.Pair) map[int]int {
	years := make(map[int]int, len(records))
	for _, r := range records {
		years[r.ID] = r.Year
	}

	uf := newUnionFind()
	for _, p := range pairs {
		if p.A == p.B {
			continue
		}
		ya, okA := years[p.A]
		yb, okB := years[p.B]
		if !okA || !okB || ya != yb {
			continue
		}
		uf.add(p.A)
		uf.add(p.B)
		uf.union(p.A, p.B)
	}

	groups := make(map[int]int)
	rootToGroup := make(map[int]int)
	next := 1
	for _, r := range records {
		if !uf.contains(r.ID) {
			continue
		}
		root := uf.find(r.ID)
		g, ok := rootToGroup[root]
		if !ok {
			g = next
			next++
			rootToGroup[root] = g
		}
		groups[r.ID] = g
	}
	return groups
}

// NameGroups clusters records by normalized-label similarity within each
// proximity group. Records are processed in input order; each record joins
// the first existing cluster whose first member's label it exceeds the
// threshold against, otherwise it starts a new cluster. This is greedy
// first-match by construction, not globally optimal. Cluster identifiers
// are sequential across the whole run. Records without a proximity group or
// with an empty normalized label are absent from the result.
func NameGroups(records []perimeters.SourceRecord, prox map[int]int, labels map[int]string, threshold float64) map[int]int {
	type member struct {
		id    int
		label string
	}

	// Bucket records by proximity group, preserving input order.
	byGroup := make(map[int][]member)
	var groupOrder []int
	for _, r := range records {
		g, ok := prox[r.ID]
		if !ok {
			continue
		}
		label := labels[r.ID]
		if label == "" {
			continue
		}
		if _, seen := byGroup[g]; !seen {
			groupOrder = append(groupOrder, g)
		}
		byGroup[g] = append(byGroup[g], member{id: r.ID, label: label})
	}

	result := make(map[int]int)
	next := 1
	for _, g := range groupOrder {
		var clusters [][]member
		for _, m := range byGroup[g] {
			placed := false
			for i, cluster := range clusters {
				if Ratio(m.label, cluster[0].label) > threshold {
					clusters[i] = append(cluster, m)
					placed = true
					break
				}
			}
			if !placed {
				clusters = append(clusters, []member{m})
			}
		}

		for _, cluster := range clusters {
			for _, m := range cluster {
				result[m.id] = next
			}
			next++
		}
	}
	return result
}

// DateGroups groups records within each proximity group that share an
// identical (start month, start day) pair. Records missing either value, or
// without a proximity group, are absent from the result. Group identifiers
// are sequential in order of first appearance.
func DateGroups(records []perimeters.SourceRecord, prox map[int]int) map[int]int {
	type dateKey struct {
		group int
		month int
		day   int
	}

	ids := make(map[dateKey]int)
	result := make(map[int]int)
	next := 1
	for _, r := range records {
		g, ok := prox[r.ID]
		if !ok || r.StartMonth == nil || r.StartDay == nil {
			continue
		}
		key := dateKey{group: g, month: *r.StartMonth, day: *r.StartDay}
		id, seen := ids[key]
		if !seen {
			id = next
			next++
			ids[key] = id
		}
		result[r.ID] = id
	}
	return result
}

// DuplicateGroups produces the final duplicate-group identifier for every
// input record. It builds one graph with an edge between every pair of
// records sharing a name group and every pair sharing a date group, then
// takes connected components in a single union-find pass, so chains linked
// through an intermediate record merge transitively. Component identifiers
// are 1, 2, 3, … by first discovery; records touched by no edge receive
// singleton identifiers allocated above the maximum input record ID. The
// mapping is total over the input.
func DuplicateGroups(records []perimeters.SourceRecord, names, dates map[int]int) map[int]int {
	uf := newUnionFind()
	firstByName := make(map[int]int)
	firstByDate := make(map[int]int)

	for _, r := range records {
		if g, ok := names[r.ID]; ok {
			uf.add(r.ID)
			if first, seen := firstByName[g]; seen {
				uf.union(first, r.ID)
			} else {
				firstByName[g] = r.ID
			}
		}
		if g, ok := dates[r.ID]; ok {
			uf.add(r.ID)
			if first, seen := firstByDate[g]; seen {
				uf.union(first, r.ID)
			} else {
				firstByDate[g] = r.ID
			}
		}
	}

	maxID := 0
	for _, r := range records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	result := make(map[int]int, len(records))
	rootToGroup := make(map[int]int)
	next := 1
	for _, r := range records {
		if !uf.contains(r.ID) {
			continue
		}
		root := uf.find(r.ID)
		g, ok := rootToGroup[root]
		if !ok {
			g = next
			next++
			rootToGroup[root] = g
		}
		result[r.ID] = g
	}

	// Ungrouped records get unique identifiers disjoint from component IDs.
	singleton := 1
	for _, r := range records {
		if _, ok := result[r.ID]; !ok {
			result[r.ID] = maxID + singleton
			singleton++
		}
	}
	return result
}
