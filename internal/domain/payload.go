package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ResultPayload is the quiz-specific part of a Result. The concrete type is
// determined by the owning quiz's kind.
type ResultPayload interface {
	Kind() QuizKind
}

// ScentDimensions breaks a scent result down by life area.
type ScentDimensions struct {
	Career       string `json:"career" yaml:"career"`
	Relationship string `json:"relationship" yaml:"relationship"`
	Social       string `json:"social" yaml:"social"`
	Strength     string `json:"strength" yaml:"strength"`
	Advice       string `json:"advice" yaml:"advice"`
}

// ScentPayload belongs to results of the scent-personality quiz.
type ScentPayload struct {
	Traits     []string        `json:"traits" yaml:"traits"`
	ScentNote  string          `json:"scentNote" yaml:"scent_note"`
	Detail     string          `json:"detail" yaml:"detail"`
	Dimensions ScentDimensions `json:"dimensions" yaml:"dimensions"`
}

func (*ScentPayload) Kind() QuizKind { return KindScent }

// WeatherDimensions describes the inner-weather state.
type WeatherDimensions struct {
	State        string `json:"state" yaml:"state"`
	Emotion      string `json:"emotion" yaml:"emotion"`
	Relationship string `json:"relationship" yaml:"relationship"`
	Work         string `json:"work" yaml:"work"`
	Need         string `json:"need" yaml:"need"`
}

// WeatherPayload belongs to results of the weather-mood quiz.
type WeatherPayload struct {
	WeatherNote string            `json:"weatherNote" yaml:"weather_note"`
	Quote       string            `json:"quote" yaml:"quote"`
	Detail      string            `json:"detail" yaml:"detail"`
	Traits      []string          `json:"traits" yaml:"traits"`
	Dimensions  WeatherDimensions `json:"dimensions" yaml:"dimensions"`
}

func (*WeatherPayload) Kind() QuizKind { return KindWeather }

// CityDimensions describes how a city feels to live in.
type CityDimensions struct {
	Temperament string `json:"temperament" yaml:"temperament"`
	LifePace    string `json:"lifePace" yaml:"life_pace"`
	WorkStyle   string `json:"workStyle" yaml:"work_style"`
	SocialStyle string `json:"socialStyle" yaml:"social_style"`
	Emotional   string `json:"emotional" yaml:"emotional"`
}

// CityPayload belongs to results of the city-match quiz.
type CityPayload struct {
	Dimensions CityDimensions `json:"dimensions" yaml:"dimensions"`
	FitFor     []string       `json:"fitFor" yaml:"fit_for"`
}

func (*CityPayload) Kind() QuizKind { return KindCity }

// newPayload returns an empty payload for the kind, or nil for plain results.
func newPayload(kind QuizKind) ResultPayload {
	switch kind {
	case KindScent:
		return &ScentPayload{}
	case KindWeather:
		return &WeatherPayload{}
	case KindCity:
		return &CityPayload{}
	default:
		return nil
	}
}

// quizWire mirrors Quiz with an undecoded payload per result so the payload
// can be resolved once the quiz id is known.
type quizWire[P any] struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Icon        string          `json:"icon" yaml:"icon"`
	Tags        []string        `json:"tags" yaml:"tags"`
	Stats       string          `json:"stats" yaml:"stats"`
	Hot         bool            `json:"hot" yaml:"hot"`
	CustomURL   string          `json:"customUrl" yaml:"custom_url"`
	ProductURL  string          `json:"productUrl" yaml:"product_url"`
	AccessCode  string          `json:"accessCode" yaml:"access_code"`
	Theme       *Theme          `json:"theme" yaml:"theme"`
	Questions   []Question      `json:"questions" yaml:"questions"`
	Results     []resultWire[P] `json:"results" yaml:"results"`
}

type resultWire[P any] struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Payload     P      `json:"payload" yaml:"payload"`
}

func (w quizWire[P]) quiz(decode func(raw P, target ResultPayload) (bool, error)) (Quiz, error) {
	quiz := Quiz{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Icon:        w.Icon,
		Tags:        w.Tags,
		Stats:       w.Stats,
		Hot:         w.Hot,
		CustomURL:   w.CustomURL,
		ProductURL:  w.ProductURL,
		AccessCode:  w.AccessCode,
		Theme:       w.Theme,
		Questions:   w.Questions,
	}
	kind := KindOf(w.ID)
	for _, r := range w.Results {
		result := Result{ID: r.ID, Title: r.Title, Description: r.Description}
		if payload := newPayload(kind); payload != nil {
			ok, err := decode(r.Payload, payload)
			if err != nil {
				return Quiz{}, fmt.Errorf("quiz %s result %s payload: %w", w.ID, r.ID, err)
			}
			if ok {
				result.Payload = payload
			}
		}
		quiz.Results = append(quiz.Results, result)
	}
	return quiz, nil
}

// UnmarshalJSON decodes a quiz, resolving result payloads by quiz kind.
func (q *Quiz) UnmarshalJSON(data []byte) error {
	var wire quizWire[json.RawMessage]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	quiz, err := wire.quiz(func(raw json.RawMessage, target ResultPayload) (bool, error) {
		if len(raw) == 0 || string(raw) == "null" {
			return false, nil
		}
		return true, json.Unmarshal(raw, target)
	})
	if err != nil {
		return err
	}
	*q = quiz
	return nil
}

// UnmarshalYAML decodes a quiz from catalog YAML.
func (q *Quiz) UnmarshalYAML(value *yaml.Node) error {
	var wire quizWire[yaml.Node]
	if err := value.Decode(&wire); err != nil {
		return err
	}
	quiz, err := wire.quiz(func(raw yaml.Node, target ResultPayload) (bool, error) {
		if raw.Kind == 0 {
			return false, nil
		}
		return true, raw.Decode(target)
	})
	if err != nil {
		return err
	}
	*q = quiz
	return nil
}
