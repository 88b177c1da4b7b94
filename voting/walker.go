package voting

import "github.com/Pierocul/DIDAWARDS/storage"

type DecisionKind string

const (
	DecisionVoted   DecisionKind = "voted"
	DecisionSkipped DecisionKind = "skipped"
)

type Decision struct {
	Kind        DecisionKind `json:"kind"`
	CandidateID string       `json:"candidateId,omitempty"`
}

func Voted(candidateID string) Decision {
	return Decision{Kind: DecisionVoted, CandidateID: candidateID}
}

func Skipped() Decision {
	return Decision{Kind: DecisionSkipped}
}

// CategoryWalker is a forward-only cursor over the categories of a session.
// It can only be restarted through Reset.
type CategoryWalker struct {
	categories []*storage.Category
	allowed    func(*storage.Category) bool
	cursor     int
	decisions  map[string]Decision
}

func NewCategoryWalker(categories []*storage.Category, allowed func(*storage.Category) bool) *CategoryWalker {
	if allowed == nil {
		allowed = func(*storage.Category) bool { return true }
	}
	return &CategoryWalker{
		categories: categories,
		allowed:    allowed,
		decisions:  make(map[string]Decision),
	}
}

// Current returns the category at the cursor, first moving past every
// category the user may not access. It returns false once the list is
// exhausted.
func (w *CategoryWalker) Current() (*storage.Category, bool) {
	for w.cursor < len(w.categories) {
		category := w.categories[w.cursor]
		if w.allowed(category) {
			return category, true
		}
		w.cursor++
	}
	return nil, false
}

// RecordDecision stores d for the current category and moves past it.
func (w *CategoryWalker) RecordDecision(d Decision) error {
	category, ok := w.Current()
	if !ok {
		return ErrWalkExhausted
	}
	w.decisions[category.ID] = d
	w.cursor++
	return nil
}

func (w *CategoryWalker) Done() bool {
	_, ok := w.Current()
	return !ok
}

func (w *CategoryWalker) Cursor() int {
	return w.cursor
}

func (w *CategoryWalker) Decision(categoryID string) (Decision, bool) {
	d, ok := w.decisions[categoryID]
	return d, ok
}

func (w *CategoryWalker) Decisions() map[string]Decision {
	out := make(map[string]Decision, len(w.decisions))
	for k, v := range w.decisions {
		out[k] = v
	}
	return out
}

func (w *CategoryWalker) Reset() {
	w.cursor = 0
	w.decisions = make(map[string]Decision)
}
