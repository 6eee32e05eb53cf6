package common

// Recipe 食譜內容：食材行與步驟句皆為原始文字
type Recipe struct {
	Name         string   `json:"name"`
	SourceURL    string   `json:"source_url,omitempty"`
	Servings     string   `json:"servings,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// LineCount 食材與步驟總行數
func (r Recipe) LineCount() int {
	return len(r.Ingredients) + len(r.Instructions)
}
