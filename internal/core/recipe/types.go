package recipe

import (
	"recipe-normalizer/internal/pkg/common"
)

// Stats 正規化統計
type Stats struct {
	Ingredients           int `json:"ingredients"`            // 輸出的食材行數
	IngredientsConverted  int `json:"ingredients_converted"`  // 換算成公制的食材行數
	Instructions          int `json:"instructions"`           // 輸出的步驟數
	InstructionsConverted int `json:"instructions_converted"` // 內容有換算的步驟數
	Dropped               int `json:"dropped"`                // 清理後為空而移除的行數
}

// Passthrough 未換算、原樣輸出的行數
func (s Stats) Passthrough() int {
	return s.Ingredients - s.IngredientsConverted + s.Instructions - s.InstructionsConverted
}

// add 累加統計
func (s *Stats) add(o Stats) {
	s.Ingredients += o.Ingredients
	s.IngredientsConverted += o.IngredientsConverted
	s.Instructions += o.Instructions
	s.InstructionsConverted += o.InstructionsConverted
	s.Dropped += o.Dropped
}

// LinesResult 單一清單（食材或步驟）的正規化結果
type LinesResult struct {
	Lines  []string `json:"lines"`
	Stats  Stats    `json:"stats"`
	Cached bool     `json:"cached"`
}

// Result 整份食譜的正規化結果
type Result struct {
	Recipe common.Recipe `json:"recipe"`
	Stats  Stats         `json:"stats"`
	Cached bool          `json:"cached"`
}

// BatchItem 批次中單一食譜的結果
type BatchItem struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// BatchResult 批次結果，Items 與輸入順序一致
type BatchResult struct {
	ID    string      `json:"id"`
	Items []BatchItem `json:"items"`
	Stats Stats       `json:"stats"`
}
