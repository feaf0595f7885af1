package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"soul-quiz-service/internal/catalog"
	"soul-quiz-service/internal/domain"
)

func TestDefaultCatalogLobbyOrder(t *testing.T) {
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	want := []string{"mind-flip", "scent-personality", "weather-mood", "city-match", "mbti-pro", "cat-personality"}
	var got []string
	for _, q := range c.List() {
		got = append(got, q.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lobby order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultCatalogAvailability(t *testing.T) {
	c := catalog.MustDefault()

	flip, _ := c.Get("mind-flip")
	if flip.Available() {
		t.Fatalf("tool entry should have no questions")
	}
	if listing := flip.Listing(); listing.URL != "/flip" || !listing.Available {
		t.Fatalf("expected tool listing routed to /flip, got %+v", listing)
	}

	cat, _ := c.Get("cat-personality")
	if cat.Listing().Available {
		t.Fatalf("expected cat-personality to be listed as not yet available")
	}

	scent, ok := c.Get("scent-personality")
	if !ok || !scent.Available() {
		t.Fatalf("expected scent quiz to be available")
	}
	if scent.Listing().URL != "/test/scent-personality" {
		t.Fatalf("unexpected quiz url %q", scent.Listing().URL)
	}
}

func TestDefaultCatalogPayloadsFollowQuizKind(t *testing.T) {
	c := catalog.MustDefault()

	scent, _ := c.Get("scent-personality")
	p, ok := scent.Results[0].Payload.(*domain.ScentPayload)
	if !ok {
		t.Fatalf("expected scent payload, got %T", scent.Results[0].Payload)
	}
	if p.ScentNote == "" || len(p.Traits) == 0 || p.Dimensions.Advice == "" {
		t.Fatalf("scent payload not decoded: %+v", p)
	}

	weather, _ := c.Get("weather-mood")
	if _, ok := weather.Results[0].Payload.(*domain.WeatherPayload); !ok {
		t.Fatalf("expected weather payload, got %T", weather.Results[0].Payload)
	}

	city, _ := c.Get("city-match")
	cp, ok := city.Results[0].Payload.(*domain.CityPayload)
	if !ok {
		t.Fatalf("expected city payload, got %T", city.Results[0].Payload)
	}
	if len(cp.FitFor) == 0 || cp.Dimensions.Temperament == "" {
		t.Fatalf("city payload not decoded: %+v", cp)
	}

	mbti, _ := c.Get("mbti-pro")
	for _, r := range mbti.Results {
		if r.Payload != nil {
			t.Fatalf("generic result %s should carry no payload", r.ID)
		}
	}
}

func TestLoaderInterface(t *testing.T) {
	c := catalog.MustDefault()
	ctx := context.Background()

	if _, err := c.LoadQuiz(ctx, "weather-mood"); err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if _, err := c.LoadQuiz(ctx, "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	list, err := c.ListQuizzes(ctx)
	if err != nil || len(list) != 6 {
		t.Fatalf("list quizzes: %d %v", len(list), err)
	}
}

func TestValidateReportsUnmatchedTags(t *testing.T) {
	c := catalog.MustDefault()

	var mbti []catalog.Issue
	for _, issue := range c.Validate() {
		if issue.QuizID != "mbti-pro" {
			t.Fatalf("unexpected issue outside mbti-pro: %s", issue)
		}
		mbti = append(mbti, issue)
	}
	if len(mbti) != 8 {
		t.Fatalf("expected one issue per unmatched mbti tag, got %d: %v", len(mbti), mbti)
	}
}

func TestValidateDuplicates(t *testing.T) {
	quiz := domain.Quiz{
		ID: "dup",
		Questions: []domain.Question{
			{ID: "q1", Options: []domain.Option{{Label: "a", Value: "A"}}},
			{ID: "q1", Options: []domain.Option{{Label: "b", Value: "A"}}},
		},
		Results: []domain.Result{{ID: "A"}, {ID: "A"}},
	}
	issues := catalog.Validate(quiz)
	if len(issues) != 2 {
		t.Fatalf("expected duplicate question and result, got %v", issues)
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := catalog.New([]domain.Quiz{{ID: "a"}, {ID: "a"}})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestParseCustomCatalog(t *testing.T) {
	doc := []byte(`
quizzes:
  - id: mini
    title: Mini
    access_code: "1234"
    questions:
      - id: q1
        text: Pick
        options:
          - {label: A, value: A, weight: 2}
          - {label: B, value: B}
    results:
      - {id: A, title: Alpha, description: first}
      - {id: B, title: Beta, description: second}
`)
	c, err := catalog.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q, ok := c.Get("mini")
	if !ok {
		t.Fatalf("expected mini quiz")
	}
	if q.AccessCode != "1234" || q.Questions[0].Options[1].EffectiveWeight() != 1 {
		t.Fatalf("unexpected quiz: %+v", q)
	}
	if q.ThemeOrDefault().StartLabel == "" {
		t.Fatalf("expected default theme")
	}
}
