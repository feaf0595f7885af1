package present

import "soul-quiz-service/internal/domain"

var weatherCards = map[string]string{
	"Sunny":     "bg-orange-500 text-white border-orange-400/30",
	"Cloudy":    "bg-slate-500 text-white border-slate-400/30",
	"LightRain": "bg-blue-500 text-white border-blue-400/30",
	"Rainy":     "bg-blue-600 text-white border-blue-500/30",
	"Stormy":    "bg-gray-700 text-white border-gray-600/30",
	"Foggy":     "bg-stone-500 text-white border-stone-400/30",
	"Snowy":     "bg-indigo-400 text-white border-indigo-300/30",
}

var weatherBackgrounds = map[string]string{
	"Sunny":     "bg-gradient-to-br from-orange-400 to-amber-600",
	"Cloudy":    "bg-gradient-to-br from-slate-400 to-slate-600",
	"LightRain": "bg-gradient-to-br from-blue-400 to-cyan-600",
	"Rainy":     "bg-gradient-to-br from-blue-500 to-blue-700",
	"Stormy":    "bg-gradient-to-br from-gray-600 to-gray-800",
	"Foggy":     "bg-gradient-to-br from-stone-400 to-stone-600",
	"Snowy":     "bg-gradient-to-br from-indigo-300 to-blue-500",
}

func presentWeather(quiz domain.Quiz, result domain.Result) View {
	p, ok := result.Payload.(*domain.WeatherPayload)
	if !ok {
		return presentGeneric(quiz, result)
	}

	d := p.Dimensions
	background := pick(weatherBackgrounds, result.ID, "Sunny")
	return View{
		Layout:      domain.KindWeather,
		Label:       "Weather Report",
		Title:       result.Title,
		Description: p.WeatherNote,
		Quote:       p.Quote,
		Traits:      p.Traits,
		Detail:      p.Detail,
		Sections: []Section{
			{Key: "state", Label: "整体状态", Text: d.State},
			{Key: "emotion", Label: "情绪运行", Text: d.Emotion},
			{Key: "relationship", Label: "关系 / 恋爱", Text: d.Relationship},
			{Key: "work", Label: "工作 / 生活", Text: d.Work},
			{Key: "need", Label: "你现在最需要的", Text: d.Need},
		},
		Palette: Palette{
			Card:       pick(weatherCards, result.ID, "Sunny"),
			Background: background,
		},
		Poster: &Poster{
			Theme:    background,
			Badge:    "LITE",
			Brand:    "Weather Report",
			Headline: result.Title,
			Quote:    p.Quote,
			Tags:     p.Traits,
			Body:     p.Detail,
			Lines: []Section{
				{Key: "state", Label: "STATE", Text: d.State},
				{Key: "emotion", Label: "EMOTION", Text: d.Emotion},
				{Key: "relationship", Label: "RELATIONSHIP", Text: d.Relationship},
				{Key: "work", Label: "WORK", Text: d.Work},
				{Key: "need", Label: "NEED", Text: d.Need},
			},
			Footer: quiz.Title,
		},
	}
}
