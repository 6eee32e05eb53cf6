package measure

import (
	"math"
	"testing"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line      string
		wantValid bool
		wantValue float64
		wantUnit  string
		wantName  string
	}{
		{"2 cups flour, divided", true, 2, "cup", "flour"},
		{"1 1/2 cups milk", true, 1.5, "cup", "milk"},
		{"1 cup of milk", true, 1, "cup", "milk"},
		{"2 tbsp. butter", true, 2, "tbsp", "butter"},
		{"1 Tbsp. Sugar", true, 1, "tbsp", "Sugar"},
		{"1 lb. Ground beef", true, 1, "lb", "Ground beef"},
		{"1 tsp.", true, 1, "tsp", ""},
		{"1 1/2-2 cups flour", true, 1.75, "cup", "flour"},
		{"2 1/2 - 3 cups milk", true, 2.75, "cup", "milk"},
		{"8 fl oz cream", true, 8, "fl oz", "cream"},
		{"1 tsp salt, plus more for seasoning", true, 1, "tsp", "salt"},
		{"1 cup nuts, chopped, optional", true, 1, "cup", "nuts, chopped"},
		{"3 large eggs", true, 3, "", "large eggs"},
		{"1 smidge of salt", true, 1, "", "smidge of salt"},
		{"Salt to taste", false, 0, "", "Salt to taste"},
		{"1/0 cup milk", false, 0, "", "1/0 cup milk"},
	}

	for _, tt := range tests {
		p := ParseIngredientLine(tt.line)
		if p.Original != tt.line {
			t.Errorf("ParseIngredientLine(%q).Original = %q", tt.line, p.Original)
		}
		if p.Quantity.Valid != tt.wantValid || math.Abs(p.Quantity.Value-tt.wantValue) > 1e-9 {
			t.Errorf("ParseIngredientLine(%q).Quantity = %+v, want {%v %v}", tt.line, p.Quantity, tt.wantValue, tt.wantValid)
		}
		gotUnit := ""
		if p.Unit != nil {
			gotUnit = p.Unit.Name
		}
		if gotUnit != tt.wantUnit {
			t.Errorf("ParseIngredientLine(%q).Unit = %q, want %q", tt.line, gotUnit, tt.wantUnit)
		}
		if p.IngredientName != tt.wantName {
			t.Errorf("ParseIngredientLine(%q).IngredientName = %q, want %q", tt.line, p.IngredientName, tt.wantName)
		}
	}
}

func TestConvertIngredient(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// 體積
		{"1/2 cup sugar", "118 ml sugar"},
		// 1.5 × 236.588 = 354.882，四捨五入為 355
		{"1 1/2 cups milk", "355 ml milk"},
		{"1 tbsp olive oil", "15 ml olive oil"},
		{"2 tbsp. butter", "30 ml butter"},
		{"1 Tbsp. Sugar", "15 ml Sugar"},
		{"1 c. Flour", "237 ml Flour"},
		{"1 tsp.", "5 ml"},
		{"1 1/2-2 cups flour", "414 ml flour"},
		{"8 fl oz cream", "237 ml cream"},
		{"1 cup of milk", "237 ml milk"},
		{"2 cups flour, divided", "473 ml flour"},
		{"1 tsp salt, plus more for seasoning", "5 ml salt"},
		{"1/8 tsp cayenne", "1 ml cayenne"},
		{"4 cups water", "946 ml water"},
		{"5 cups stock", "1.18 L stock"},
		{"1 gallon water", "3.79 L water"},
		{"3/4 cup butter", "177 ml butter"},

		// 重量
		{"2 lbs chicken", "907 g chicken"},
		{"3 lbs potatoes", "1.36 kg potatoes"},
		{"1 stick butter", "113 g butter"},
		{"4 oz cheese", "113 g cheese"},
		{"1 lb. Ground beef", "454 g Ground beef"},

		// 原樣返回
		{"3 large eggs", "3 large eggs"},
		{"1 smidge of salt", "1 smidge of salt"},
		{"Salt to taste", "Salt to taste"},
		{"1/0 cup milk", "1/0 cup milk"},
		{"350°F", "350°F"},
	}

	for _, tt := range tests {
		if got := ConvertIngredient(tt.input); got != tt.want {
			t.Errorf("ConvertIngredient(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertIngredientThresholds(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1000 ml water", "1 L water"},
		{"999 ml water", "999 ml water"},
		{"1500 ml water", "1.5 L water"},
		{"1000 g flour", "1 kg flour"},
		{"999 g flour", "999 g flour"},
		{"2.5 kg flour", "2.5 kg flour"},
		{"0.4 g saffron", "0.4 g saffron"},
	}
	for _, tt := range tests {
		if got := ConvertIngredient(tt.input); got != tt.want {
			t.Errorf("ConvertIngredient(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConvertIngredientFractionEquivalence(t *testing.T) {
	groups := [][]string{
		{"1 1/2 cups milk", "1-1/2 cups milk", "1.5 cups milk"},
		{"3/4 cup butter", "0.75 cup butter", ".75 cup butter"},
	}
	for _, group := range groups {
		want := ConvertIngredient(group[0])
		for _, in := range group[1:] {
			if got := ConvertIngredient(in); got != want {
				t.Errorf("ConvertIngredient(%q) = %q, want %q (same as %q)", in, got, want, group[0])
			}
		}
	}
}

func TestConvertRoundTripMagnitude(t *testing.T) {
	// 換算後的公制量除以單位係數，應回到原本的數量（誤差在四捨五入範圍內）
	tests := []struct {
		line   string
		amount float64
		factor float64
	}{
		{"1/2 cup sugar", 118, mlPerCup},
		{"2 lbs chicken", 907, gramsPerPound},
		{"3 tbsp honey", 44, mlPerTablespoon},
	}
	for _, tt := range tests {
		p := defaultEngine.ParseIngredient(tt.line)
		if p.Converted == "" {
			t.Fatalf("ParseIngredient(%q) not converted", tt.line)
		}
		back := tt.amount / tt.factor
		if math.Abs(back-p.Quantity.Value) > 0.5/tt.factor {
			t.Errorf("%q: %v / %v = %v, want about %v", tt.line, tt.amount, tt.factor, back, p.Quantity.Value)
		}
	}
}

func TestDensityConversion(t *testing.T) {
	e := New(Options{DensityConversion: true})
	tests := []struct {
		input string
		want  string
	}{
		{"1 cup flour", "125 g flour"},
		{"1 cup all-purpose flour", "125 g all-purpose flour"},
		{"1 cup brown sugar", "220 g brown sugar"},
		{"2 cups water", "473 g water"},
		{"1 cup chopped walnuts", "237 ml chopped walnuts"},
		{"2 lbs chicken", "907 g chicken"},
	}
	for _, tt := range tests {
		if got := e.ConvertIngredient(tt.input); got != tt.want {
			t.Errorf("ConvertIngredient(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := ConvertIngredient("1 cup flour"); got != "237 ml flour" {
		t.Errorf("default engine ConvertIngredient(%q) = %q, want %q", "1 cup flour", got, "237 ml flour")
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     string
	}{
		{1.5, 2, "1.5"},
		{1.18294, 2, "1.18"},
		{3.78541, 2, "3.79"},
		{2, 2, "2"},
		{0.75, 3, "0.75"},
		{1.0 / 3.0, 3, "0.333"},
		{-0.0001, 2, "0"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.value, tt.decimals); got != tt.want {
			t.Errorf("FormatAmount(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
		}
	}
}
