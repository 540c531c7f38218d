// Package queryshape parses the external input-pattern shape (spec §6):
// a sequence of "sentences" of alternating edge-expand and select
// binders rooted at a named start vertex, into a pkg/pattern.Pattern.
//
// Grounded on spec §6's prose directly — no original_source parser
// survived retrieval (the pb description's generated bindings are
// explicitly out of the retrieved pack, same reasoning as the dropped
// grpc/protobuf dependency). The error taxonomy in errors.go is a set of
// typed error structs rather than sentinel values.
package queryshape

import (
	"strconv"

	"github.com/mundrapranay/patternplan/pkg/extend"
	"github.com/mundrapranay/patternplan/pkg/pattern"
	"github.com/mundrapranay/patternplan/pkg/schema"
)

// Expand is one edge-expand-then-select binder: an edge label, a
// direction relative to the current vertex, an optional alias, and an
// optional predicate on the newly reached vertex.
type Expand struct {
	EdgeLabel      int
	Direction      extend.Direction
	Alias          string // "" means unaliased
	VertexPredicate pattern.Predicate
	EdgePredicate   pattern.Predicate
}

// Input is one parsed query shape: a named, labeled start vertex
// followed by a chain of expand sentences.
type Input struct {
	StartAlias string
	StartLabel int
	Expands    []Expand

	// EndAlias, if non-empty, must match the final vertex's resolved id.
	EndAlias string
}

// Parse builds a Pattern from in, resolving each expand's endpoint-label
// pair against s and assigning vertex ids per spec §6: an aliased name
// maps directly to its numeric tag id, an unaliased vertex gets a fresh
// id past the highest tag id seen, skipping ids already used as a tag.
func Parse(in Input, s schema.Schema) (*pattern.Pattern, error) {
	if in.StartAlias == "" {
		return nil, NewMissingDataError("start_alias")
	}
	if len(in.Expands) == 0 {
		return nil, NewMissingDataError("expands")
	}

	startID, err := resolveTag(in.StartAlias)
	if err != nil {
		return nil, err
	}

	used := map[int]bool{startID: true}
	maxTag := startID
	nextFresh := func() int {
		candidate := maxTag + 1
		for used[candidate] {
			candidate++
		}
		used[candidate] = true
		return candidate
	}

	type pendingVertex struct {
		id    int
		label int
	}
	curr := pendingVertex{id: startID, label: in.StartLabel}

	var edges []pattern.EdgeSpec
	vertexPredicates := map[int]pattern.Predicate{}
	edgePredicates := map[int]pattern.Predicate{}

	for i, exp := range in.Expands {
		nextLabel, err := resolveEndpointLabel(s, exp.EdgeLabel, exp.Direction, curr.label)
		if err != nil {
			return nil, err
		}

		var nextID int
		if exp.Alias != "" {
			id, err := resolveTag(exp.Alias)
			if err != nil {
				return nil, err
			}
			nextID = id
			used[id] = true
			if id > maxTag {
				maxTag = id
			}
		} else {
			nextID = nextFresh()
		}

		var spec pattern.EdgeSpec
		spec.EdgeID = i
		spec.EdgeLabel = exp.EdgeLabel
		if exp.Direction == extend.Out {
			spec.StartID, spec.StartLabel = curr.id, curr.label
			spec.EndID, spec.EndLabel = nextID, nextLabel
		} else {
			spec.StartID, spec.StartLabel = nextID, nextLabel
			spec.EndID, spec.EndLabel = curr.id, curr.label
		}
		edges = append(edges, spec)

		if exp.VertexPredicate != nil {
			vertexPredicates[nextID] = exp.VertexPredicate
		}
		if exp.EdgePredicate != nil {
			edgePredicates[i] = exp.EdgePredicate
		}

		curr = pendingVertex{id: nextID, label: nextLabel}
	}

	if in.EndAlias != "" {
		endID, err := resolveTag(in.EndAlias)
		if err != nil {
			return nil, err
		}
		if endID != curr.id {
			return nil, NewInvalidPatternError("end_alias does not match the resolved final vertex")
		}
	}

	p, err := pattern.FromEdges(edges)
	if err != nil {
		return nil, NewInvalidPatternError(err.Error())
	}
	for id, pred := range vertexPredicates {
		p.SetVertexPredicate(id, pred)
	}
	for id, pred := range edgePredicates {
		p.SetEdgePredicate(id, pred)
	}
	return p, nil
}

func resolveTag(alias string) (int, error) {
	id, err := strconv.Atoi(alias)
	if err != nil {
		return 0, NewTagNotExistError(alias)
	}
	return id, nil
}

// resolveEndpointLabel consults the schema's (start_label, end_label)
// set for edgeLabel and returns the single label consistent with
// knownLabel sitting at the edge's other endpoint, per dir.
func resolveEndpointLabel(s schema.Schema, edgeLabel int, dir extend.Direction, knownLabel int) (int, error) {
	endpoints := s.EndpointsOf(edgeLabel)
	if len(endpoints) == 0 {
		return 0, NewInvalidPatternError("edge label has no schema endpoints")
	}

	candidates := map[int]bool{}
	for _, ep := range endpoints {
		if dir == extend.Out && ep.StartLabel == knownLabel {
			candidates[ep.EndLabel] = true
		} else if dir == extend.In && ep.EndLabel == knownLabel {
			candidates[ep.StartLabel] = true
		}
	}

	switch len(candidates) {
	case 0:
		return 0, NewInvalidPatternError("no schema endpoint consistent with the known vertex label")
	case 1:
		for label := range candidates {
			return label, nil
		}
	}
	return 0, NewUnsupportedError("FuzzyPattern")
}
