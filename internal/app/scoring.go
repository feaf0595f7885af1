package app

import "soul-quiz-service/internal/domain"

// ScoreTally accumulates weight per category tag, remembering the order in
// which tags were first seen.
type ScoreTally struct {
	order  []string
	scores map[string]int
}

func newScoreTally() *ScoreTally {
	return &ScoreTally{scores: make(map[string]int)}
}

func (t *ScoreTally) add(tag string, weight int) {
	if _, ok := t.scores[tag]; !ok {
		t.order = append(t.order, tag)
	}
	t.scores[tag] += weight
}

// Score returns the accumulated weight for a tag.
func (t *ScoreTally) Score(tag string) int {
	return t.scores[tag]
}

// Tags returns the tags in first-seen order.
func (t *ScoreTally) Tags() []string {
	return append([]string(nil), t.order...)
}

// Len reports how many tags were accumulated.
func (t *ScoreTally) Len() int {
	return len(t.order)
}

// Leader returns the tag with the strictly greatest positive score. Ties go to
// the tag seen first. ok is false when no tag scored above zero.
func (t *ScoreTally) Leader() (tag string, ok bool) {
	best := 0
	for _, candidate := range t.order {
		if score := t.scores[candidate]; score > best {
			tag, best, ok = candidate, score, true
		}
	}
	return tag, ok
}

// Tally walks the quiz questions in order and adds the weight of each chosen
// option. The chosen option is the first one whose value matches the recorded
// tag; unanswered questions contribute nothing.
func Tally(quiz domain.Quiz, answers domain.AnswerSet) *ScoreTally {
	tally := newScoreTally()
	for _, q := range quiz.Questions {
		value, ok := answers[q.ID]
		if !ok {
			continue
		}
		if opt, found := findOption(q, value); found {
			tally.add(opt.Value, opt.EffectiveWeight())
		}
	}
	return tally
}

// SelectResult returns the result matching the leading tag, falling back to
// the first result of the quiz when nothing scored or the tag has no result.
func SelectResult(quiz domain.Quiz, answers domain.AnswerSet) domain.Result {
	if tag, ok := Tally(quiz, answers).Leader(); ok {
		for _, r := range quiz.Results {
			if r.ID == tag {
				return r
			}
		}
	}
	if len(quiz.Results) > 0 {
		return quiz.Results[0]
	}
	return domain.Result{}
}

func findOption(q domain.Question, value string) (domain.Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return domain.Option{}, false
}
