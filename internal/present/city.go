package present

import (
	"strings"

	"soul-quiz-service/internal/domain"
)

const cityDisclaimer = "* 本测试为生活方式探索工具，不构成现实迁移建议。请结合实际情况决策。"

// City results have no poster; the page shares its link instead.
func presentCity(quiz domain.Quiz, result domain.Result) View {
	p, ok := result.Payload.(*domain.CityPayload)
	if !ok {
		return presentGeneric(quiz, result)
	}

	// Titles read "城市｜tagline".
	title, subtitle, _ := strings.Cut(result.Title, "｜")

	d := p.Dimensions
	return View{
		Layout:      domain.KindCity,
		Label:       "City Match Analysis",
		Title:       title,
		Subtitle:    subtitle,
		Description: result.Description,
		Sections: []Section{
			{Key: "temperament", Label: "城市气质", Text: d.Temperament},
			{Key: "lifePace", Label: "生活节奏", Text: d.LifePace},
			{Key: "workStyle", Label: "工作属性", Text: d.WorkStyle},
			{Key: "socialStyle", Label: "社交关系", Text: d.SocialStyle},
			{Key: "emotional", Label: "情绪体验", Text: d.Emotional},
		},
		FitFor:     p.FitFor,
		Palette:    Palette{Accent: "bg-indigo-600"},
		Disclaimer: cityDisclaimer,
	}
}
