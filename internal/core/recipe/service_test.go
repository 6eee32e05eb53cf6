package recipe

import (
	"context"
	"reflect"
	"testing"
	"time"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/measure"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

func newTestCache(t *testing.T) *cache.Manager {
	t.Helper()
	m, err := cache.NewManager(&config.Config{
		Cache: config.CacheConfig{Enabled: true, MaxSize: 100, TTL: time.Minute},
	})
	if err != nil {
		t.Fatalf("cache.NewManager() error = %v", err)
	}
	return m
}

func TestNormalizeIngredients(t *testing.T) {
	svc := NewNormalizeService(ServiceOptions{Workers: 2}, nil)

	got, err := svc.NormalizeIngredients(context.Background(), []string{
		"For the dough:",
		"2 cups flour",
		"",
		"1 tsp salt",
		"Salt to taste",
	})
	if err != nil {
		t.Fatalf("NormalizeIngredients() error = %v", err)
	}

	want := []string{"473 ml flour", "5 ml salt", "Salt to taste"}
	if !reflect.DeepEqual(got.Lines, want) {
		t.Errorf("Lines = %q, want %q", got.Lines, want)
	}
	wantStats := Stats{Ingredients: 3, IngredientsConverted: 2, Dropped: 2}
	if got.Stats != wantStats {
		t.Errorf("Stats = %+v, want %+v", got.Stats, wantStats)
	}
	if got.Stats.Passthrough() != 1 {
		t.Errorf("Passthrough() = %d, want 1", got.Stats.Passthrough())
	}
}

func TestNormalizeIngredientsMatchesEngine(t *testing.T) {
	svc := NewNormalizeService(ServiceOptions{Engine: measure.Options{DensityConversion: true}}, nil)
	lines := []string{"1 cup flour", "¾ cup butter (softened)", "10 ml / 6 g yeast", "3 eggs", "1-2 cups water"}

	got, err := svc.NormalizeIngredients(context.Background(), lines)
	if err != nil {
		t.Fatal(err)
	}
	want := svc.Engine().ConvertRecipeIngredients(lines)
	if !reflect.DeepEqual(got.Lines, want) {
		t.Errorf("service = %q, engine = %q", got.Lines, want)
	}
}

func TestNormalizeInstructions(t *testing.T) {
	svc := NewNormalizeService(ServiceOptions{}, nil)
	lines := []string{" Preheat oven to 350°F ", "", "Add ½ cup milk", "Stir well."}

	converted, err := svc.NormalizeInstructions(context.Background(), lines, true)
	if err != nil {
		t.Fatal(err)
	}
	wantConverted := []string{"Preheat oven to 177°C", "Add 118 ml milk", "Stir well."}
	if !reflect.DeepEqual(converted.Lines, wantConverted) {
		t.Errorf("Lines = %q, want %q", converted.Lines, wantConverted)
	}
	if converted.Stats.InstructionsConverted != 2 || converted.Stats.Instructions != 3 || converted.Stats.Dropped != 1 {
		t.Errorf("Stats = %+v", converted.Stats)
	}

	cleaned, err := svc.NormalizeInstructions(context.Background(), lines, false)
	if err != nil {
		t.Fatal(err)
	}
	wantCleaned := []string{"Preheat oven to 350°F", "Add 1/2 cup milk", "Stir well."}
	if !reflect.DeepEqual(cleaned.Lines, wantCleaned) {
		t.Errorf("Lines = %q, want %q", cleaned.Lines, wantCleaned)
	}
	if cleaned.Stats.InstructionsConverted != 0 {
		t.Errorf("InstructionsConverted = %d, want 0", cleaned.Stats.InstructionsConverted)
	}
}

func TestNormalizeRecipe(t *testing.T) {
	svc := NewNormalizeService(ServiceOptions{}, nil)
	in := common.Recipe{
		Name:         "Pancakes",
		SourceURL:    "https://example.com/pancakes",
		Ingredients:  []string{"1 1/2 cups milk", "2 tbsp. butter"},
		Instructions: []string{"Whisk in 1/2 cup milk", "Cook 2 minutes per side"},
	}

	got, err := svc.NormalizeRecipe(context.Background(), in, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Recipe.Name != in.Name || got.Recipe.SourceURL != in.SourceURL {
		t.Errorf("metadata changed: %+v", got.Recipe)
	}
	if want := []string{"355 ml milk", "30 ml butter"}; !reflect.DeepEqual(got.Recipe.Ingredients, want) {
		t.Errorf("Ingredients = %q, want %q", got.Recipe.Ingredients, want)
	}
	if want := []string{"Whisk in 118 ml milk", "Cook 2 minutes per side"}; !reflect.DeepEqual(got.Recipe.Instructions, want) {
		t.Errorf("Instructions = %q, want %q", got.Recipe.Instructions, want)
	}
	if in.Ingredients[0] != "1 1/2 cups milk" {
		t.Error("input recipe was modified")
	}
}

func TestNormalizeRecipeUsesCache(t *testing.T) {
	m := newTestCache(t)
	svc := NewNormalizeService(ServiceOptions{}, m)
	in := common.Recipe{Name: "Soup", Ingredients: []string{"4 cups water"}}
	ctx := context.Background()

	first, err := svc.NormalizeRecipe(ctx, in, true)
	if err != nil || first.Cached {
		t.Fatalf("first call = %+v, %v", first, err)
	}
	second, err := svc.NormalizeRecipe(ctx, in, true)
	if err != nil || !second.Cached {
		t.Fatalf("second call = %+v, %v", second, err)
	}
	if !reflect.DeepEqual(first.Recipe, second.Recipe) {
		t.Errorf("cached recipe = %+v, want %+v", second.Recipe, first.Recipe)
	}

	// 選項不同不可共用緩存
	other, _ := svc.NormalizeRecipe(ctx, in, false)
	if other.Cached {
		t.Error("different convert flag hit the cache")
	}
	density := NewNormalizeService(ServiceOptions{Engine: measure.Options{DensityConversion: true}}, m)
	if r, _ := density.NormalizeRecipe(ctx, in, true); r.Cached {
		t.Error("different engine options hit the cache")
	}
}

func TestNormalizeCanceledContext(t *testing.T) {
	svc := NewNormalizeService(ServiceOptions{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.NormalizeIngredients(ctx, []string{"1 cup milk"}); err == nil {
		t.Error("NormalizeIngredients() with canceled context should fail")
	}
	if _, err := svc.NormalizeRecipe(ctx, common.Recipe{}, true); err == nil {
		t.Error("NormalizeRecipe() with canceled context should fail")
	}
}

func TestParseIngredient(t *testing.T) {
	svc := NewNormalizeService(ServiceOptions{}, nil)
	p := svc.ParseIngredient("Optional Toppings: ½ cup walnuts, chopped")
	if p.Unit == nil || p.Unit.Name != "cup" || p.Quantity.Value != 0.5 {
		t.Fatalf("ParseIngredient = %+v", p)
	}
	if p.IngredientName != "walnuts, chopped" || p.Converted != "118 ml walnuts, chopped" {
		t.Errorf("ParseIngredient = %+v", p)
	}
}
