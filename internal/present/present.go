// Package present turns a quiz result into the view model shown on the
// result screen and the poster card the browser rasterizes.
package present

import "soul-quiz-service/internal/domain"

// Section is one labelled block of result text.
type Section struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Note is a highlighted one-liner, like the signature scent.
type Note struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Palette holds the style classes of a result card.
type Palette struct {
	Card       string `json:"card,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
}

// Poster is the off-screen card the client turns into an image.
type Poster struct {
	Theme    string    `json:"theme"`
	Badge    string    `json:"badge"`
	Brand    string    `json:"brand"`
	Headline string    `json:"headline"`
	Quote    string    `json:"quote,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	Note     *Note     `json:"note,omitempty"`
	Body     string    `json:"body,omitempty"`
	Lines    []Section `json:"lines,omitempty"`
	Footer   string    `json:"footer"`
}

// View is everything the result screen renders.
type View struct {
	Layout      domain.QuizKind `json:"layout"`
	Label       string          `json:"label"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Description string          `json:"description"`
	Quote       string          `json:"quote,omitempty"`
	Traits      []string        `json:"traits,omitempty"`
	Note        *Note           `json:"note,omitempty"`
	Detail      string          `json:"detail,omitempty"`
	Sections    []Section       `json:"sections,omitempty"`
	FitFor      []string        `json:"fitFor,omitempty"`
	Palette     Palette         `json:"palette"`
	Disclaimer  string          `json:"disclaimer,omitempty"`
	Poster      *Poster         `json:"poster,omitempty"`
}

// Presenter renders results of one quiz kind.
type Presenter interface {
	Present(quiz domain.Quiz, result domain.Result) View
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(quiz domain.Quiz, result domain.Result) View

func (f PresenterFunc) Present(quiz domain.Quiz, result domain.Result) View {
	return f(quiz, result)
}

// Registry picks the presenter for a quiz by its kind. Kinds without a
// registered presenter use the generic title and description layout.
type Registry struct {
	byKind   map[domain.QuizKind]Presenter
	fallback Presenter
}

// NewRegistry returns a registry with the scent, weather and city layouts.
func NewRegistry() *Registry {
	return &Registry{
		byKind: map[domain.QuizKind]Presenter{
			domain.KindScent:   PresenterFunc(presentScent),
			domain.KindWeather: PresenterFunc(presentWeather),
			domain.KindCity:    PresenterFunc(presentCity),
		},
		fallback: PresenterFunc(presentGeneric),
	}
}

// Register replaces the presenter for a kind.
func (r *Registry) Register(kind domain.QuizKind, p Presenter) {
	if kind == domain.KindGeneric {
		r.fallback = p
		return
	}
	r.byKind[kind] = p
}

// For returns the presenter for kind.
func (r *Registry) For(kind domain.QuizKind) Presenter {
	if p, ok := r.byKind[kind]; ok {
		return p
	}
	return r.fallback
}

// Render presents result using the quiz's presenter.
func (r *Registry) Render(quiz domain.Quiz, result domain.Result) View {
	return r.For(quiz.Kind()).Present(quiz, result)
}

func presentGeneric(_ domain.Quiz, result domain.Result) View {
	return View{
		Layout:      domain.KindGeneric,
		Label:       "Analysis Complete",
		Title:       result.Title,
		Description: result.Description,
	}
}

// pick returns palette[key], or palette[fallback] for unknown keys.
func pick(palette map[string]string, key, fallback string) string {
	if v, ok := palette[key]; ok {
		return v
	}
	return palette[fallback]
}
