package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	recipeService "recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

type fakeImporter struct {
	result *recipeService.Result
	err    error
	gotURL string
}

func (f *fakeImporter) Import(ctx context.Context, rawURL string, convertToMetric bool) (*recipeService.Result, error) {
	f.gotURL = rawURL
	return f.result, f.err
}

type fakeGenerator struct {
	content string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.content, nil
}

func newTestRouter(importer RecipeImporter, generator recipeService.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	normalizer := recipeService.NewNormalizeService(recipeService.ServiceOptions{Workers: 2, MaxBatchSize: 3}, nil)
	drafts := recipeService.NewDraftService(generator, normalizer)
	h := NewHandler(normalizer, importer, drafts, Options{ConvertInstructions: true})

	router := gin.New()
	router.Use(requestid.New())
	router.POST("/normalize/ingredients", h.HandleNormalizeIngredients)
	router.POST("/normalize/instructions", h.HandleNormalizeInstructions)
	router.POST("/normalize/recipe", h.HandleNormalizeRecipe)
	router.POST("/normalize/batch", h.HandleNormalizeBatch)
	router.POST("/normalize/parse", h.HandleParseIngredient)
	router.POST("/import", h.HandleImport)
	router.POST("/draft", h.HandleDraft)
	return router
}

func doPost(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleNormalizeIngredients(t *testing.T) {
	router := newTestRouter(&fakeImporter{}, nil)

	w := doPost(t, router, "/normalize/ingredients", gin.H{
		"lines": []string{"¾ cup butter (softened)", "1 lb chicken", "For the sauce:", "Salt to taste"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp recipeService.LinesResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []string{"177 ml butter", "454 g chicken", "Salt to taste"}
	if !reflect.DeepEqual(resp.Lines, want) {
		t.Errorf("lines = %q, want %q", resp.Lines, want)
	}
	if resp.Stats.IngredientsConverted != 2 || resp.Stats.Dropped != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHandleNormalizeInstructions(t *testing.T) {
	router := newTestRouter(&fakeImporter{}, nil)

	tests := []struct {
		name string
		body gin.H
		want []string
	}{
		{
			name: "default converts",
			body: gin.H{"lines": []string{"Preheat oven to 350°F."}},
			want: []string{"Preheat oven to 177°C."},
		},
		{
			name: "explicitly disabled",
			body: gin.H{"lines": []string{"Preheat oven to 350°F."}, "convert_to_metric": false},
			want: []string{"Preheat oven to 350°F."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doPost(t, router, "/normalize/instructions", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			var resp recipeService.LinesResult
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(resp.Lines, tt.want) {
				t.Errorf("lines = %q, want %q", resp.Lines, tt.want)
			}
		})
	}
}

func TestHandleNormalizeRecipe(t *testing.T) {
	router := newTestRouter(&fakeImporter{}, nil)

	w := doPost(t, router, "/normalize/recipe", gin.H{
		"name":         "Pancakes",
		"ingredients":  []string{"1 1/2 cups milk"},
		"instructions": []string{"Pour 1/4 cup batter per pancake."},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp recipeService.Result
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Recipe.Name != "Pancakes" {
		t.Errorf("name = %q", resp.Recipe.Name)
	}
	if !reflect.DeepEqual(resp.Recipe.Ingredients, []string{"355 ml milk"}) {
		t.Errorf("ingredients = %q", resp.Recipe.Ingredients)
	}
	if !reflect.DeepEqual(resp.Recipe.Instructions, []string{"Pour 59 ml batter per pancake."}) {
		t.Errorf("instructions = %q", resp.Recipe.Instructions)
	}

	w = doPost(t, router, "/normalize/recipe", gin.H{"name": "Empty"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty recipe status = %d, want 400", w.Code)
	}
}

func TestHandleNormalizeBatch(t *testing.T) {
	router := newTestRouter(&fakeImporter{}, nil)

	w := doPost(t, router, "/normalize/batch", gin.H{
		"recipes": []common.Recipe{
			{Name: "a", Ingredients: []string{"1 cup sugar"}},
			{Name: "b", Ingredients: []string{"2 tbsp oil"}},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp recipeService.BatchResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Result.Recipe.Name != "a" || resp.Items[1].Result.Recipe.Name != "b" {
		t.Fatalf("items = %+v", resp.Items)
	}
	if resp.ID == "" {
		t.Error("missing batch id")
	}

	tooMany := make([]common.Recipe, 4)
	w = doPost(t, router, "/normalize/batch", gin.H{"recipes": tooMany})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized batch status = %d, want 400", w.Code)
	}
	var errResp common.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Code != common.ErrBatchTooLarge.Code {
		t.Errorf("code = %q, want %q", errResp.Code, common.ErrBatchTooLarge.Code)
	}
}

func TestHandleParseIngredient(t *testing.T) {
	router := newTestRouter(&fakeImporter{}, nil)

	w := doPost(t, router, "/normalize/parse", gin.H{"line": "1 1/2 cups milk"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Quantity struct {
			Value float64 `json:"value"`
			Valid bool    `json:"valid"`
		} `json:"quantity"`
		IngredientName string `json:"ingredient_name"`
		Converted      string `json:"converted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Quantity.Valid || resp.Quantity.Value != 1.5 {
		t.Errorf("quantity = %+v", resp.Quantity)
	}
	if resp.IngredientName != "milk" || resp.Converted != "355 ml milk" {
		t.Errorf("name/converted = %q/%q", resp.IngredientName, resp.Converted)
	}
}

func TestHandleBadRequests(t *testing.T) {
	router := newTestRouter(&fakeImporter{}, nil)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{"malformed json", "/normalize/ingredients", "{not json"},
		{"missing lines", "/normalize/ingredients", gin.H{}},
		{"missing line", "/normalize/parse", gin.H{}},
		{"missing url", "/import", gin.H{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doPost(t, router, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var resp common.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != common.ErrCodeInvalidRequest {
				t.Errorf("code = %q", resp.Code)
			}
			if resp.Details != "" {
				t.Errorf("details leaked: %q", resp.Details)
			}
		})
	}
}

func TestHandleImport(t *testing.T) {
	imp := &fakeImporter{result: &recipeService.Result{
		Recipe: common.Recipe{Name: "Soup", Ingredients: []string{"946 ml water"}},
	}}
	router := newTestRouter(imp, nil)

	w := doPost(t, router, "/import", gin.H{"url": "https://example.com/soup"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if imp.gotURL != "https://example.com/soup" {
		t.Errorf("importer url = %q", imp.gotURL)
	}

	tests := []struct {
		err  error
		want int
	}{
		{common.ErrInvalidURL, http.StatusBadRequest},
		{common.ErrRecipeNotFound, http.StatusUnprocessableEntity},
		{common.ErrFetchFailed, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		imp.err = tt.err
		w := doPost(t, router, "/import", gin.H{"url": "https://example.com/" + tt.err.Error()})
		if w.Code != tt.want {
			t.Errorf("Import error %v status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

func TestHandleDraft(t *testing.T) {
	disabled := newTestRouter(&fakeImporter{}, nil)
	w := doPost(t, disabled, "/draft", gin.H{"dish_name": "pancakes"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("disabled status = %d, want 503", w.Code)
	}

	gen := &fakeGenerator{content: `{"name":"Pancakes","ingredients":["1 cup flour"],"instructions":["Bake at 400°F."]}`}
	enabled := newTestRouter(&fakeImporter{}, gen)

	w = doPost(t, enabled, "/draft", gin.H{"dish_name": "pancakes", "servings": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp recipeService.Result
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(resp.Recipe.Ingredients, []string{"237 ml flour"}) {
		t.Errorf("ingredients = %q", resp.Recipe.Ingredients)
	}
	if !reflect.DeepEqual(resp.Recipe.Instructions, []string{"Bake at 204°C."}) {
		t.Errorf("instructions = %q", resp.Recipe.Instructions)
	}

	w = doPost(t, enabled, "/draft", gin.H{"dish_name": "pancakes", "servings": 500})
	if w.Code != http.StatusBadRequest {
		t.Errorf("too many servings status = %d, want 400", w.Code)
	}
}
