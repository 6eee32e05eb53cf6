// Package measure 食譜文字的量測正規化：把食材行與步驟句中的英制/混合寫法換算成公制，
// 其餘文字原樣保留。所有函式皆為純函式，沒有共享可變狀態，可安全並行呼叫。
// 無法解析的片段一律原樣返回，不會回傳錯誤。
package measure

// Options 引擎選項
type Options struct {
	// DensityConversion 啟用後，密度表中有的食材體積會換算成重量（例如 1 cup flour → 125 g flour）
	DensityConversion bool `json:"density_conversion" mapstructure:"density_conversion"`
}

// Engine 正規化引擎，建立後不可變
type Engine struct {
	opts Options
}

// New 創建新的正規化引擎
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Options 取得引擎選項
func (e *Engine) Options() Options {
	return e.opts
}

var defaultEngine = New(Options{})

// ParseIngredient 解析並換算一行已清理的食材
func (e *Engine) ParseIngredient(cleaned string) ParsedIngredientLine {
	return e.Convert(ParseIngredientLine(cleaned))
}

// ConvertIngredient 換算一行已清理的食材；沒有可辨識的數量或單位時原樣返回
func (e *Engine) ConvertIngredient(cleaned string) string {
	p := e.ParseIngredient(cleaned)
	if p.Converted == "" {
		return cleaned
	}
	return p.Converted
}

// ConvertRecipeIngredients 逐行清理並換算食材，清理後為空的行會被移除
func (e *Engine) ConvertRecipeIngredients(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := CleanIngredient(line)
		if cleaned == "" {
			continue
		}
		out = append(out, e.ConvertIngredient(cleaned))
	}
	return out
}

// CleanRecipeInstructions 逐句清理步驟，convertToMetric 為 true 時一併換算量測，空句會被移除
func (e *Engine) CleanRecipeInstructions(lines []string, convertToMetric bool) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := CleanInstruction(line)
		if convertToMetric && cleaned != "" {
			cleaned = e.ConvertInstructionMeasurements(cleaned)
		}
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

// ConvertIngredient 使用預設引擎換算一行已清理的食材
func ConvertIngredient(cleaned string) string {
	return defaultEngine.ConvertIngredient(cleaned)
}

// ConvertRecipeIngredients 使用預設引擎清理並換算整份食材清單
func ConvertRecipeIngredients(lines []string) []string {
	return defaultEngine.ConvertRecipeIngredients(lines)
}

// ConvertInstructionMeasurements 使用預設引擎換算步驟句中的量測
func ConvertInstructionMeasurements(cleaned string) string {
	return defaultEngine.ConvertInstructionMeasurements(cleaned)
}

// CleanRecipeInstructions 使用預設引擎清理整份步驟
func CleanRecipeInstructions(lines []string, convertToMetric bool) []string {
	return defaultEngine.CleanRecipeInstructions(lines, convertToMetric)
}
