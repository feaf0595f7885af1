// Package catalog holds the static quiz registry shipped with the service.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"soul-quiz-service/internal/domain"
)

//go:embed catalog.yaml
var embedded []byte

// Catalog is an immutable, ordered set of quiz definitions. It is safe for
// concurrent use because nothing mutates it after Parse returns.
type Catalog struct {
	quizzes []domain.Quiz
	byID    map[string]int
}

type document struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// MustDefault is Default for process start, where a broken embed is a build bug.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Quizzes)
}

// New builds a catalog from quizzes in lobby order. Quiz ids must be unique.
func New(quizzes []domain.Quiz) (*Catalog, error) {
	c := &Catalog{
		quizzes: make([]domain.Quiz, 0, len(quizzes)),
		byID:    make(map[string]int, len(quizzes)),
	}
	for _, q := range quizzes {
		if q.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", len(c.quizzes))
		}
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quiz id %q", q.ID)
		}
		c.byID[q.ID] = len(c.quizzes)
		c.quizzes = append(c.quizzes, q)
	}
	return c, nil
}

// List returns every quiz in lobby order.
func (c *Catalog) List() []domain.Quiz {
	return append([]domain.Quiz(nil), c.quizzes...)
}

// Get returns the quiz with the given id.
func (c *Catalog) Get(id string) (domain.Quiz, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Quiz{}, false
	}
	return c.quizzes[i], true
}

// LoadQuiz lets the catalog back the quiz repositories.
func (c *Catalog) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if q, ok := c.Get(quizID); ok {
		return q, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// ListQuizzes returns the lobby in order.
func (c *Catalog) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	return c.List(), nil
}

// Issue is a content problem found by Validate.
type Issue struct {
	QuizID string
	Detail string
}

func (i Issue) String() string {
	return i.QuizID + ": " + i.Detail
}

// Validate reports content that the result selector has to paper over:
// option tags without a result and repeated ids. None of these stop a quiz
// from running.
func Validate(quiz domain.Quiz) []Issue {
	var issues []Issue
	report := func(format string, args ...any) {
		issues = append(issues, Issue{QuizID: quiz.ID, Detail: fmt.Sprintf(format, args...)})
	}

	if quiz.Available() && len(quiz.Results) == 0 {
		report("has questions but no results")
	}

	results := make(map[string]bool, len(quiz.Results))
	for _, r := range quiz.Results {
		if results[r.ID] {
			report("duplicate result id %q", r.ID)
		}
		results[r.ID] = true
	}

	questions := make(map[string]bool, len(quiz.Questions))
	missing := make(map[string]bool)
	for _, q := range quiz.Questions {
		if questions[q.ID] {
			report("duplicate question id %q", q.ID)
		}
		questions[q.ID] = true
		if len(q.Options) == 0 {
			report("question %q has no options", q.ID)
		}
		for _, opt := range q.Options {
			if opt.Weight < 0 {
				report("question %q option %q has negative weight", q.ID, opt.Label)
			}
			if !results[opt.Value] && !missing[opt.Value] {
				missing[opt.Value] = true
				report("tag %q has no matching result", opt.Value)
			}
		}
	}
	return issues
}

// Validate runs Validate over every quiz in the catalog.
func (c *Catalog) Validate() []Issue {
	var issues []Issue
	for _, q := range c.quizzes {
		issues = append(issues, Validate(q)...)
	}
	return issues
}
