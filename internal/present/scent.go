package present

import "soul-quiz-service/internal/domain"

var scentCards = map[string]string{
	"E": "bg-orange-50/80 dark:bg-orange-950/20 border-orange-200 dark:border-orange-800 text-orange-900 dark:text-orange-100",
	"O": "bg-cyan-50/80 dark:bg-cyan-950/20 border-cyan-200 dark:border-cyan-800 text-cyan-900 dark:text-cyan-100",
	"A": "bg-emerald-50/80 dark:bg-emerald-950/20 border-emerald-200 dark:border-emerald-800 text-emerald-900 dark:text-emerald-100",
	"S": "bg-zinc-100/80 dark:bg-zinc-900/50 border-zinc-300 dark:border-zinc-700 text-zinc-900 dark:text-zinc-100",
}

var scentAccents = map[string]string{
	"E": "bg-orange-500",
	"O": "bg-cyan-500",
	"A": "bg-emerald-500",
	"S": "bg-zinc-800 dark:bg-zinc-200",
}

// Posters are always light so exported images look the same in dark mode.
var scentPosters = map[string]string{
	"E": "bg-orange-50 text-orange-950",
	"O": "bg-cyan-50 text-cyan-950",
	"A": "bg-emerald-50 text-emerald-950",
	"S": "bg-zinc-50 text-zinc-900",
}

func presentScent(quiz domain.Quiz, result domain.Result) View {
	p, ok := result.Payload.(*domain.ScentPayload)
	if !ok {
		return presentGeneric(quiz, result)
	}

	sections := []Section{
		{Key: "career", Label: "CAREER / 适合职业", Text: p.Dimensions.Career},
		{Key: "relationship", Label: "LOVE / 恋爱模式", Text: p.Dimensions.Relationship},
		{Key: "social", Label: "SOCIAL / 社交风格", Text: p.Dimensions.Social},
		{Key: "strength", Label: "STRENGTH / 核心优势", Text: p.Dimensions.Strength},
		{Key: "advice", Label: "ADVICE / 建议", Text: p.Dimensions.Advice},
	}
	note := &Note{Label: "Signature Scent", Text: p.ScentNote}

	return View{
		Layout:      domain.KindScent,
		Label:       "Scent Personality",
		Title:       result.Title,
		Description: result.Description,
		Traits:      p.Traits,
		Note:        note,
		Detail:      p.Detail,
		Sections:    sections,
		Palette: Palette{
			Card:   pick(scentCards, result.ID, "A"),
			Accent: pick(scentAccents, result.ID, "A"),
		},
		Poster: &Poster{
			Theme:    pick(scentPosters, result.ID, "A"),
			Badge:    "LITE",
			Brand:    "Cognitive Lab",
			Headline: result.Title,
			Quote:    result.Description,
			Tags:     p.Traits,
			Note:     note,
			Body:     p.Detail,
			Lines:    sections,
			Footer:   quiz.Title,
		},
	}
}
