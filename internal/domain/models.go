package domain

import "time"

// QuizKind identifies which presentation strategy and result payload a quiz uses.
type QuizKind string

const (
	KindScent   QuizKind = "scent-personality"
	KindWeather QuizKind = "weather-mood"
	KindCity    QuizKind = "city-match"
	// KindGeneric covers every quiz id without a dedicated layout.
	KindGeneric QuizKind = "generic"
)

// KindOf maps a quiz id onto the closed set of kinds.
func KindOf(quizID string) QuizKind {
	switch k := QuizKind(quizID); k {
	case KindScent, KindWeather, KindCity:
		return k
	default:
		return KindGeneric
	}
}

// Option is one selectable answer. Value is the category tag it scores for.
type Option struct {
	Label  string `json:"label" yaml:"label"`
	Value  string `json:"value" yaml:"value"`
	Weight int    `json:"weight,omitempty" yaml:"weight,omitempty"` // defaults to 1 if zero
}

// EffectiveWeight returns the weight used when tallying.
func (o Option) EffectiveWeight() int {
	if o.Weight == 0 {
		return 1
	}
	return o.Weight
}

// Question is a prompt with an ordered list of options.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// Result is one possible outcome of a quiz. Its ID matches a category tag.
type Result struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Payload     ResultPayload `json:"payload,omitempty"`
}

// Theme carries the display strings and palette of a quiz.
type Theme struct {
	Primary         string `json:"primary" yaml:"primary"`
	Secondary       string `json:"secondary" yaml:"secondary"`
	Text            string `json:"text" yaml:"text"`
	Button          string `json:"button" yaml:"button"`
	Background      string `json:"background" yaml:"background"`
	Font            string `json:"font,omitempty" yaml:"font,omitempty"`
	StartLabel      string `json:"startLabel" yaml:"start_label"`
	GateTitle       string `json:"gateTitle" yaml:"gate_title"`
	GateDescription string `json:"gateDescription" yaml:"gate_description"`
	GateButton      string `json:"gateButton" yaml:"gate_button"`
	UnlockButton    string `json:"unlockButton" yaml:"unlock_button"`
}

// DefaultTheme is used by quizzes that do not define their own.
func DefaultTheme() Theme {
	return Theme{
		Primary:         "bg-black dark:bg-white",
		Secondary:       "bg-zinc-100 dark:bg-zinc-800",
		Text:            "text-zinc-900 dark:text-zinc-100",
		Button:          "rounded-lg font-bold bg-black text-white dark:bg-white dark:text-black hover:opacity-90",
		Background:      "bg-white dark:bg-black",
		StartLabel:      "开始答题 →",
		GateTitle:       "分析已完成",
		GateDescription: "请输入激活码以揭示结果",
		GateButton:      "获取激活码",
		UnlockButton:    "解锁报告",
	}
}

// Quiz is the static definition of one lobby entry. Read-only once loaded.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Tags        []string   `json:"tags,omitempty"`
	Stats       string     `json:"stats,omitempty"`
	Hot         bool       `json:"hot,omitempty"`
	CustomURL   string     `json:"customUrl,omitempty"`
	ProductURL  string     `json:"productUrl,omitempty"`
	AccessCode  string     `json:"accessCode,omitempty"`
	Theme       *Theme     `json:"theme,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
	Results     []Result   `json:"results,omitempty"`
}

// Kind reports the presentation kind of the quiz.
func (q Quiz) Kind() QuizKind {
	return KindOf(q.ID)
}

// Available reports whether the quiz has anything to administer.
func (q Quiz) Available() bool {
	return len(q.Questions) > 0
}

// ThemeOrDefault returns the quiz theme, falling back to DefaultTheme.
func (q Quiz) ThemeOrDefault() Theme {
	if q.Theme != nil {
		return *q.Theme
	}
	return DefaultTheme()
}

// Listing is the lobby view of a quiz.
type Listing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Tags        []string `json:"tags,omitempty"`
	Stats       string   `json:"stats,omitempty"`
	Hot         bool     `json:"hot,omitempty"`
	URL         string   `json:"url"`
	Available   bool     `json:"available"`
}

// Listing builds the lobby card for the quiz.
func (q Quiz) Listing() Listing {
	url := q.CustomURL
	if url == "" {
		url = "/test/" + q.ID
	}
	return Listing{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Icon:        q.Icon,
		Tags:        q.Tags,
		Stats:       q.Stats,
		Hot:         q.Hot,
		URL:         url,
		Available:   q.Available() || q.CustomURL != "",
	}
}

// AnswerSet maps a question id to the category tag of the chosen option.
type AnswerSet map[string]string

// Phase is the position of a session in the quiz flow.
type Phase string

const (
	PhaseIntro       Phase = "intro"
	PhaseQuestioning Phase = "questioning"
	PhaseGated       Phase = "gated"
	PhaseRevealed    Phase = "revealed"
)

// HistoryKind discriminates history entries.
type HistoryKind string

const (
	HistoryReframe    HistoryKind = "flip"
	HistoryQuizResult HistoryKind = "test"
)

// HistoryData is the payload of a history entry. Reframe entries fill Input and
// Result; quiz entries fill the quiz and result fields.
type HistoryData struct {
	Input       string `json:"input,omitempty"`
	Result      string `json:"result,omitempty"`
	QuizID      string `json:"testId,omitempty"`
	ResultID    string `json:"resultId,omitempty"`
	ResultTitle string `json:"resultTitle,omitempty"`
}

// HistoryEntry is one completed reframe or quiz session.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Kind      HistoryKind `json:"type"`
	Title     string      `json:"title"`
	CreatedAt time.Time   `json:"timestamp"`
	Data      HistoryData `json:"data"`
}
