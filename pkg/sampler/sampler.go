// Package sampler executes partial pattern matches over a data graph to
// populate catalogue cardinality estimates (spec §4.6). It is the one
// explicitly parallel subsystem (spec §5): each sub-task partitions its
// input record vector into thread_num contiguous slices by static index,
// fans out one worker per slice, and joins through two channels — one
// carrying a per-worker partial count, one carrying produced records —
// before the main goroutine consumes them.
//
// Grounded on the teacher's algorithms/{exact,ledp} split: Config.Strategy
// selects between the plain "exact" count (pkg/sampler/exact) and the
// differentially-private "ledp" count (pkg/sampler/ledp), mirroring the
// teacher's AlgorithmTypeExact/AlgorithmTypeLEDP dispatch
// (algorithms/registry.go), without carrying over the teacher's
// round-based distributed-algorithm machinery, which has no counterpart
// here: sampling is a single in-process BFS, not a multi-worker
// coordination protocol.
package sampler

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/mundrapranay/patternplan/pkg/catalogue"
	"github.com/mundrapranay/patternplan/pkg/datagraph"
	"github.com/mundrapranay/patternplan/pkg/pattern"
	"github.com/mundrapranay/patternplan/pkg/sampler/exact"
	"github.com/mundrapranay/patternplan/pkg/sampler/ledp"
)

// applyStrategy dispatches a raw estimated count to the configured
// strategy, mirroring the teacher's algorithms/registry.go dispatch on
// AlgorithmType.
func applyStrategy(cfg Config, estimated float64) float64 {
	switch cfg.Strategy {
	case StrategyLEDP:
		return ledp.Perturb(estimated, cfg.NoiseLambda)
	default:
		return exact.Count(estimated)
	}
}

// PatternRecord maps a pattern-vertex id to the data-graph vertex it is
// currently bound to.
type PatternRecord map[int]datagraph.VertexID

func (r PatternRecord) clone() PatternRecord {
	out := make(PatternRecord, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Strategy selects the cardinality-estimation dispatch, mirroring the
// teacher's AlgorithmType.
type Strategy string

const (
	StrategyExact Strategy = "exact"
	StrategyLEDP  Strategy = "ledp"
)

// Config controls one sampling run.
type Config struct {
	Strategy Strategy

	// Rate is the fraction of produced records kept after each level,
	// in (0, 1]. 1.0 disables down-sampling.
	Rate float64

	// MinRecords is a lower bound below which down-sampling will not
	// shrink a level's record set, 0 means no lower bound.
	MinRecords int

	// ThreadNum is the worker-pool size for sub-task execution.
	ThreadNum int

	// SparsificationRate is the reciprocal scaling factor applied for
	// any per-edge sparsification performed at data ingest; 1.0 means
	// no ingest-time sparsification occurred.
	SparsificationRate float64

	// NoiseLambda parameterizes the two-sided geometric noise applied
	// under StrategyLEDP (pkg/sampler/ledp). Unused under StrategyExact.
	NoiseLambda float64
}

// DefaultConfig matches the teacher's AlgorithmConfig defaults in spirit
// (no sparsification, no down-sampling) — a caller sets Rate/ThreadNum
// explicitly for a real run.
func DefaultConfig() Config {
	return Config{
		Strategy:           StrategyExact,
		Rate:               1.0,
		ThreadNum:          1,
		SparsificationRate: 1.0,
	}
}

type countInfo struct {
	pat     *pattern.Pattern
	records []PatternRecord
	count   float64
}

// Sampler runs the BFS cardinality-estimation pass over one catalogue.
type Sampler struct {
	cat *catalogue.Catalogue
	dg  *datagraph.DataGraph
	cfg Config
}

// New builds a Sampler over cat's entries and dg's data.
func New(cat *catalogue.Catalogue, dg *datagraph.DataGraph, cfg Config) *Sampler {
	return &Sampler{cat: cat, dg: dg, cfg: cfg}
}

// Run seeds entry-level records by label scan, then performs
// level-by-level BFS over the catalogue until no new target node is
// produced (spec §4.6), recording every visited node's estimated count
// back onto the catalogue.
func (s *Sampler) Run(target *pattern.Pattern) error {
	targetKey, ok := s.cat.GetPatternIndex(target)
	if !ok {
		return fmt.Errorf("sampler: target pattern not present in catalogue")
	}

	held := make(map[string]*countInfo)
	s.seedEntries(held)

	for {
		best := s.pickBestCandidates(held)
		if len(best) == 0 {
			break
		}
		for toKey, cand := range best {
			if err := s.executeSubTask(held, cand.fromKey, toKey, cand.approach); err != nil {
				return err
			}
		}
	}

	if _, ok := held[targetKey]; !ok {
		return fmt.Errorf("sampler: target pattern unreachable from entry-level scans")
	}
	s.annotateApproachEstimates(held)
	return nil
}

func (s *Sampler) seedEntries(held map[string]*countInfo) {
	for _, key := range s.cat.AllNodes() {
		node, ok := s.cat.GetNode(key)
		if !ok || node.Pattern.VerticesNum() != 1 {
			continue
		}
		vs := node.Pattern.VerticesIter()
		if len(vs) != 1 {
			continue
		}
		entryVertexID := vs[0].ID
		label := vs[0].Label

		dataVertices := s.dg.VerticesWithLabel(label)
		records := make([]PatternRecord, len(dataVertices))
		for i, v := range dataVertices {
			records[i] = PatternRecord{entryVertexID: v}
		}
		held[key] = &countInfo{pat: node.Pattern, records: records, count: float64(len(records))}
		s.cat.SetPatternCount(key, float64(len(records)))
	}
}

type candidate struct {
	fromKey     string
	approach    *catalogue.Approach
	sourceCount float64
}

// pickBestCandidates chooses, for every target node reachable from a
// held source by exactly one unexplored Extend approach, the candidate
// whose source carries the smallest recorded count and non-empty
// records — minimizing the blow-up factor (spec §4.6 step 2).
func (s *Sampler) pickBestCandidates(held map[string]*countInfo) map[string]candidate {
	best := make(map[string]candidate)
	for fromKey, info := range held {
		if len(info.records) == 0 {
			continue
		}
		for _, a := range s.cat.PatternOutApproachesIter(fromKey) {
			if a.Kind != catalogue.ExtendApproach {
				continue
			}
			if _, already := held[a.To]; already {
				continue
			}
			cur, exists := best[a.To]
			if !exists || info.count < cur.sourceCount {
				best[a.To] = candidate{fromKey: fromKey, approach: a, sourceCount: info.count}
			}
		}
	}
	return best
}

// newVertexOf returns the single pattern-vertex id present in to but not
// in from — the vertex this Extend approach introduces. Valid because
// every catalogue node below the sampled target is derived from the
// target by removing vertices (ids are a subset of the target's ids,
// never renumbered), so the set difference is exactly the one vertex the
// corresponding Extend step added back.
func newVertexOf(from, to *pattern.Pattern) (int, bool) {
	present := make(map[int]bool)
	for _, v := range from.VerticesIter() {
		present[v.ID] = true
	}
	for _, v := range to.VerticesIter() {
		if !present[v.ID] {
			return v.ID, true
		}
	}
	return 0, false
}

func (s *Sampler) executeSubTask(held map[string]*countInfo, fromKey, toKey string, a *catalogue.Approach) error {
	toNode, ok := s.cat.GetNode(toKey)
	if !ok {
		return fmt.Errorf("sampler: unknown target node %q", toKey)
	}
	fromInfo := held[fromKey]
	newVertexID, ok := newVertexOf(fromInfo.pat, toNode.Pattern)
	if !ok {
		return fmt.Errorf("sampler: could not determine extended vertex for approach %q -> %q", fromKey, toKey)
	}

	partial, produced := s.runWorkers(fromInfo.records, a, fromInfo.pat, newVertexID)

	sourceCount := fromInfo.count
	sampledSourceCount := float64(len(fromInfo.records))
	estimated := 0.0
	if sampledSourceCount > 0 {
		estimated = partial * (sourceCount / sampledSourceCount)
	}
	if s.cfg.SparsificationRate > 0 {
		estimated /= s.cfg.SparsificationRate
	}
	estimated = applyStrategy(s.cfg, estimated)

	kept := strideSample(produced, s.cfg.Rate, s.cfg.MinRecords)
	held[toKey] = &countInfo{pat: toNode.Pattern, records: kept, count: estimated}
	s.cat.SetPatternCount(toKey, estimated)
	return nil
}

// runWorkers partitions records into thread_num contiguous slices by
// static index, fans one worker per slice over two channels — a partial
// count and a record slice — and joins unconditionally before draining
// (spec §5). No locks are taken inside workers.
func (s *Sampler) runWorkers(records []PatternRecord, a *catalogue.Approach, sourcePat *pattern.Pattern, newVertexID int) (float64, []PatternRecord) {
	threadNum := s.cfg.ThreadNum
	if threadNum < 1 {
		threadNum = 1
	}
	if threadNum > len(records) && len(records) > 0 {
		threadNum = len(records)
	}
	if len(records) == 0 {
		return 0, nil
	}

	sliceSize := (len(records) + threadNum - 1) / threadNum
	countsCh := make(chan float64, threadNum)
	recordsCh := make(chan []PatternRecord, threadNum)

	var wg sync.WaitGroup
	for start := 0; start < len(records); start += sliceSize {
		end := start + sliceSize
		if end > len(records) {
			end = len(records)
		}
		slice := records[start:end]
		wg.Add(1)
		go func(slice []PatternRecord) {
			defer wg.Done()
			partial, produced := processSlice(slice, a, sourcePat, newVertexID, s.dg)
			countsCh <- partial
			recordsCh <- produced
		}(slice)
	}
	wg.Wait()
	close(countsCh)
	close(recordsCh)

	var total float64
	for c := range countsCh {
		total += c
	}
	var all []PatternRecord
	for rs := range recordsCh {
		all = append(all, rs...)
	}
	return total, all
}

func processSlice(records []PatternRecord, a *catalogue.Approach, sourcePat *pattern.Pattern, newVertexID int, dg *datagraph.DataGraph) (float64, []PatternRecord) {
	var partial float64
	var produced []PatternRecord

	for _, rec := range records {
		candidates, ok := intersectCandidates(rec, a, sourcePat, dg)
		if !ok {
			continue
		}
		partial += float64(len(candidates))
		for _, c := range candidates {
			next := rec.clone()
			next[newVertexID] = c
			produced = append(produced, next)
		}
	}
	return partial, produced
}

// intersectCandidates resolves every ExtendEdge in a.Step against rec's
// existing bindings, intersecting the data-graph neighborhoods they
// imply into the candidate set for the newly extended vertex.
func intersectCandidates(rec PatternRecord, a *catalogue.Approach, sourcePat *pattern.Pattern, dg *datagraph.DataGraph) ([]datagraph.VertexID, bool) {
	if a.Step == nil || len(a.Step.Edges) == 0 {
		return nil, false
	}
	var candidates map[datagraph.VertexID]bool

	for i, edge := range a.Step.Edges {
		srcVertex, ok := sourcePat.GetVertexFromRank(edge.SrcRank)
		if !ok {
			return nil, false
		}
		dataVertex, ok := rec[srcVertex.ID]
		if !ok {
			return nil, false
		}
		neighbors := dg.Neighbors(dataVertex, edge.EdgeLabel, edge.Direction)

		if i == 0 {
			candidates = make(map[datagraph.VertexID]bool, len(neighbors))
			for _, n := range neighbors {
				candidates[n] = true
			}
			continue
		}
		next := make(map[datagraph.VertexID]bool)
		for _, n := range neighbors {
			if candidates[n] {
				next[n] = true
			}
		}
		candidates = next
	}

	out := make([]datagraph.VertexID, 0, len(candidates))
	for v := range candidates {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, true
}

// strideSample keeps an in-order-preserving stride subset of records
// down to floor(len(records)*rate), never shrinking below minLimit when
// that many records exist (spec §4.6 step 5, §5's "deterministic stride
// sampling... truncate(records, floor(records*rate))").
func strideSample(records []PatternRecord, rate float64, minLimit int) []PatternRecord {
	n := len(records)
	if n == 0 || rate >= 1.0 {
		return records
	}
	keep := int(math.Floor(float64(n) * rate))
	if minLimit > 0 && keep < minLimit {
		keep = minLimit
	}
	if keep >= n {
		return records
	}
	if keep <= 0 {
		return nil
	}
	stride := n / keep
	if stride < 1 {
		stride = 1
	}
	out := make([]PatternRecord, 0, keep)
	for i := 0; i < n && len(out) < keep; i += stride {
		out = append(out, records[i])
	}
	return out
}

// annotateApproachEstimates computes each Extend arc's adjacency-count
// and intersect-count estimate from its target/parent count ratio (spec
// §4.6 step 7), after every reachable node has a count.
func (s *Sampler) annotateApproachEstimates(held map[string]*countInfo) {
	for toKey, toInfo := range held {
		for _, a := range s.cat.PatternInApproachesIter(toKey) {
			if a.Kind != catalogue.ExtendApproach {
				continue
			}
			fromInfo, ok := held[a.From]
			if !ok || fromInfo.count == 0 {
				continue
			}
			ratio := toInfo.count / fromInfo.count
			s.cat.SetApproachEstimates(a.ID, ratio, ratio)
		}
	}
}
