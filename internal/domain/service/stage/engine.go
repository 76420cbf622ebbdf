// Package stage decides when a list may move to its next stage and builds
// that stage from the unused candidates of the current analysis.
package stage

import (
	"github.com/YoshitsuguKoike/stagelist/internal/domain/failure"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/checklist"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/list"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/model/parking"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/extract"
	"github.com/YoshitsuguKoike/stagelist/internal/domain/service/textnorm"
)

const (
	MsgNotEligible  = "finish at least %d tasks, or get down to %d or fewer remaining, before moving to the next stage"
	MsgNoAnalysis   = "no analysis yet: run analyze before moving to the next stage"
	MsgNoCandidates = "no further candidates: add more draft text or re-run the analysis"
)

// Policy holds the tunable thresholds of stage advancement.
type Policy struct {
	// MinDone done tasks make a list eligible.
	MinDone int
	// MaxRemaining or fewer unfinished tasks make a list eligible.
	MaxRemaining int
	// MaxPicks bounds the number of tasks issued into a stage.
	MaxPicks int
}

// DefaultPolicy returns the standard thresholds: 3 done, 2 remaining, 5 picks.
func DefaultPolicy() Policy {
	return Policy{MinDone: 3, MaxRemaining: 2, MaxPicks: 5}
}

// Engine runs stage transitions.
type Engine struct {
	policy        Policy
	canonicalizer textnorm.Canonicalizer
}

// NewEngine creates an engine. A nil canonicalizer uses the package default
// imperative rewriter.
func NewEngine(policy Policy, c textnorm.Canonicalizer) *Engine {
	def := DefaultPolicy()
	if policy.MinDone <= 0 {
		policy.MinDone = def.MinDone
	}
	if policy.MaxRemaining < 0 {
		policy.MaxRemaining = def.MaxRemaining
	}
	if policy.MaxPicks <= 0 {
		policy.MaxPicks = def.MaxPicks
	}
	if c == nil {
		c = textnorm.NewJapaneseCanonicalizer()
	}
	return &Engine{policy: policy, canonicalizer: c}
}

// Policy returns the engine's effective thresholds.
func (e *Engine) Policy() Policy {
	return e.policy
}

// CanAdvance reports whether the checklist has made enough progress to be
// replaced by a new stage.
func (e *Engine) CanAdvance(tree checklist.Tree) bool {
	done, total := tree.Counts()
	return done >= e.policy.MinDone || total-done <= e.policy.MaxRemaining
}

// Eligible returns the candidates of the document's analysis that were never
// issued, deduplicated by normalized action in first-seen order.
func (e *Engine) Eligible(doc *list.Document) []extract.Candidate {
	var (
		out  []extract.Candidate
		seen = make(map[string]bool)
	)
	for _, c := range extract.Candidates(doc.Analysis, e.canonicalizer) {
		key := textnorm.Key(c.Action)
		if key == "" || seen[key] || doc.UsedActions.Has(c.Action) {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Pick selects up to limit candidates in two passes: one per distinct category
// in candidate order, then the leftovers in order, skipping actions already
// picked.
func Pick(candidates []extract.Candidate, limit int) []extract.Candidate {
	picked := make([]extract.Candidate, 0, limit)
	taken := make([]bool, len(candidates))
	categories := make(map[string]bool)

	for i, c := range candidates {
		if len(picked) >= limit {
			break
		}
		if categories[c.Category] {
			continue
		}
		categories[c.Category] = true
		taken[i] = true
		picked = append(picked, c)
	}

	for i, c := range candidates {
		if len(picked) >= limit {
			break
		}
		if taken[i] || containsAction(picked, c.Action) {
			continue
		}
		taken[i] = true
		picked = append(picked, c)
	}
	return picked
}

func containsAction(cs []extract.Candidate, action string) bool {
	for _, c := range cs {
		if c.Action == action {
			return true
		}
	}
	return false
}

// Outcome reports what a stage transition did.
type Outcome struct {
	Stage       int
	Issued      []checklist.Item
	Remaining   int
	CarriedOver []parking.Item
	SnapshotID  string
}

// Advance moves doc to its next stage. Refusals are reported as
// failure.KindIneligible and leave doc untouched.
func (e *Engine) Advance(doc *list.Document, env list.Env) (Outcome, error) {
	if !e.CanAdvance(doc.Checklist) {
		return Outcome{}, failure.Newf(failure.KindIneligible, MsgNotEligible, e.policy.MinDone, e.policy.MaxRemaining)
	}
	if textnorm.Normalize(doc.Analysis) == "" {
		return Outcome{}, failure.New(failure.KindIneligible, MsgNoAnalysis)
	}
	eligible := e.Eligible(doc)
	if len(eligible) == 0 {
		return Outcome{}, failure.New(failure.KindIneligible, MsgNoCandidates)
	}

	snap := doc.Capture(env)

	var carried []parking.Item
	for _, it := range doc.Checklist.Incomplete() {
		carried = append(carried, doc.Parked.CarryOver(parking.Entry{Text: it.Text, Category: it.Category}, doc.Stage, env.Now))
	}

	done, total := doc.Checklist.Counts()
	doc.ArchivedCreated += total
	doc.ArchivedDone += done

	picks := Pick(eligible, e.policy.MaxPicks)
	issued := make(checklist.Tree, 0, len(picks))
	actions := make([]string, 0, len(picks))
	for _, c := range picks {
		issued = append(issued, checklist.NewTask(env.IDs.NewID(), c.Action, c.Category, 0))
		actions = append(actions, c.Action)
	}
	doc.Checklist = issued

	doc.Stage = max(2, doc.Stage+1)
	doc.UsedActions.Add(actions...)
	doc.UpdatedAt = env.Now

	return Outcome{
		Stage:       doc.Stage,
		Issued:      issued.Clone(),
		Remaining:   len(eligible) - len(picks),
		CarriedOver: carried,
		SnapshotID:  snap.ID,
	}, nil
}
