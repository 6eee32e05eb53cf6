package recipe

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"recipe-normalizer/internal/core/measure"
	"recipe-normalizer/internal/pkg/common"
)

// fakeGenerator 回傳固定內容並記錄提示
type fakeGenerator struct {
	content string
	err     error
	calls   int
	prompt  string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.prompt = prompt
	return g.content, g.err
}

const draftJSON = "```json\n" + `{
  "name": "Pancakes",
  "ingredients": ["1 1/2 cups milk", "2 tbsp butter", "1 egg"],
  "instructions": ["Heat the pan to 375°F.", "Pour 1/4 cup batter per pancake."]
}` + "\n```"

func TestDraft(t *testing.T) {
	gen := &fakeGenerator{content: draftJSON}
	svc := NewDraftService(gen, NewNormalizeService(ServiceOptions{}, newTestCache(t)))

	got, err := svc.Draft(context.Background(), "Pancakes", 2)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if !strings.Contains(gen.prompt, "Dish: Pancakes") || !strings.Contains(gen.prompt, "Servings: 2") {
		t.Errorf("prompt = %q", gen.prompt)
	}
	if got.Recipe.Name != "Pancakes" || got.Recipe.Servings != "2" {
		t.Errorf("Recipe = %+v", got.Recipe)
	}
	if want := []string{"355 ml milk", "30 ml butter", "1 egg"}; !reflect.DeepEqual(got.Recipe.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", got.Recipe.Ingredients, want)
	}
	if want := []string{"Heat the pan to 191°C.", "Pour 59 ml batter per pancake."}; !reflect.DeepEqual(got.Recipe.Instructions, want) {
		t.Errorf("Instructions = %q, want %q", got.Recipe.Instructions, want)
	}

	// 同樣的菜名與份量走緩存
	again, err := svc.Draft(context.Background(), "  pancakes ", 2)
	if err != nil || !again.Cached || gen.calls != 1 {
		t.Errorf("second Draft() cached = %v, calls = %d, err = %v", again != nil && again.Cached, gen.calls, err)
	}
}

func TestDraftCacheSeparatesEngineOptions(t *testing.T) {
	shared := newTestCache(t)
	gen := &fakeGenerator{content: `{"name":"Bread","ingredients":["2 cups flour"],"instructions":[]}`}

	plain := NewDraftService(gen, NewNormalizeService(ServiceOptions{}, shared))
	dense := NewDraftService(gen, NewNormalizeService(ServiceOptions{
		Engine: measure.Options{DensityConversion: true},
	}, shared))

	first, err := plain.Draft(context.Background(), "Bread", 4)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	second, err := dense.Draft(context.Background(), "Bread", 4)
	if err != nil {
		t.Fatalf("Draft() with density error = %v", err)
	}

	if gen.calls != 2 || second.Cached {
		t.Fatalf("density draft served from cache: calls = %d, cached = %v", gen.calls, second.Cached)
	}
	if first.Recipe.Ingredients[0] != "473 ml flour" || second.Recipe.Ingredients[0] != "251 g flour" {
		t.Errorf("ingredients = %q / %q", first.Recipe.Ingredients, second.Recipe.Ingredients)
	}
}

func TestDraftErrors(t *testing.T) {
	tests := []struct {
		name     string
		gen      Generator
		dish     string
		servings int
		check    func(error) bool
	}{
		{"disabled", nil, "Soup", 2, func(err error) bool { return errors.Is(err, common.ErrAIDisabled) }},
		{"empty dish", &fakeGenerator{content: draftJSON}, "  ", 2, common.IsValidationError},
		{"too many servings", &fakeGenerator{content: draftJSON}, "Soup", 500, common.IsValidationError},
		{"generator error", &fakeGenerator{err: errors.New("timeout")}, "Soup", 2, func(err error) bool { return errors.Is(err, common.ErrAIServiceError) }},
		{"no json", &fakeGenerator{content: "Sorry, I cannot help."}, "Soup", 2, func(err error) bool { return errors.Is(err, common.ErrAIInvalidContent) }},
		{"no ingredients", &fakeGenerator{content: `{"name":"Soup","ingredients":[],"instructions":["Boil."]}`}, "Soup", 2, func(err error) bool { return errors.Is(err, common.ErrAIInvalidContent) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDraftService(tt.gen, NewNormalizeService(ServiceOptions{}, nil))
			_, err := svc.Draft(context.Background(), tt.dish, tt.servings)
			if err == nil || !tt.check(err) {
				t.Fatalf("Draft() error = %v", err)
			}
		})
	}
}

func TestParseDraftUnquotedKeys(t *testing.T) {
	draft, err := parseDraft(`{name: "Tea", ingredients: ["1 cup water"], instructions: ["Boil the water."]}`)
	if err != nil {
		t.Fatalf("parseDraft() error = %v", err)
	}
	if draft.Name != "Tea" || len(draft.Ingredients) != 1 {
		t.Errorf("parseDraft() = %+v", draft)
	}
}

func TestDraftDefaultServings(t *testing.T) {
	gen := &fakeGenerator{content: draftJSON}
	svc := NewDraftService(gen, NewNormalizeService(ServiceOptions{}, nil))
	got, err := svc.Draft(context.Background(), "Pancakes", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Recipe.Servings != "4" || !strings.Contains(gen.prompt, "Servings: 4") {
		t.Errorf("Servings = %q, prompt = %q", got.Recipe.Servings, gen.prompt)
	}
}
