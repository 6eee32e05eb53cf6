package measure

import (
	"math"
	"strconv"
	"strings"
)

// placeholderName 步驟句換算時借用食材行換算流程的佔位名稱
const placeholderName = "x"

// metricUnitWords 補空白規則認得的公制單位
var metricUnitWords = map[string]bool{
	"ml": true,
	"l":  true,
	"g":  true,
	"kg": true,
	"°c": true,
}

// ConvertInstructionMeasurements 換算步驟句中所有可辨識的量測與溫度，其餘文字不變。
// 數量前的修飾詞（about、scant）不在替換範圍內，會原樣保留。
func (e *Engine) ConvertInstructionMeasurements(sentence string) string {
	s := ResolveDualInstruction(sentence)
	toks := tokenize(s)

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for i := 0; i < len(toks); {
		if toks[i].kind != tokNumber {
			i++
			continue
		}

		value, next, ok := scanQuantity(toks, i)
		if !ok {
			// 數字解析失敗，原文保留
			i = next
			continue
		}
		unit, after, ok := matchUnit(toks, skipSpace(toks, next))
		if !ok {
			i = next
			continue
		}
		after = consumeInlinePeriod(toks, after)

		start := toks[i].start
		if unit.IsFahrenheit() && isNegativeSign(toks, i) {
			value = -value
			start = toks[i-1].start
		}

		replacement, ok := e.convertSpan(value, unit)
		if !ok {
			i = after
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(replacement)
		last = toks[after-1].end
		i = after
	}
	b.WriteString(s[last:])

	return repairSpacing(b.String())
}

// convertSpan 換算單一量測片段，回傳 "<數量> <單位>" 或 "<C>°C"
func (e *Engine) convertSpan(value float64, unit Unit) (string, bool) {
	switch unit.Family {
	case FamilyTemperature:
		if !unit.IsFahrenheit() {
			return "", false
		}
		return strconv.Itoa(FahrenheitToCelsius(value)) + "°C", true
	case FamilyVolume, FamilyWeight:
		u := unit
		parsed := e.Convert(ParsedIngredientLine{
			Quantity:       Quantity{Value: value, Valid: true},
			Unit:           &u,
			IngredientName: placeholderName,
		})
		if parsed.Converted == "" {
			return "", false
		}
		return strings.TrimSuffix(parsed.Converted, " "+placeholderName), true
	default:
		return "", false
	}
}

// FahrenheitToCelsius round((F − 32) × 5/9)
func FahrenheitToCelsius(f float64) int {
	return int(math.Round((f - 32) * 5 / 9))
}

// isNegativeSign 數字前的 "-" 前面不是數字時視為負號
func isNegativeSign(toks []token, i int) bool {
	if i == 0 || toks[i-1].kind != tokDash || toks[i-1].text != "-" {
		return false
	}
	return i == 1 || toks[i-2].kind == tokSpace || toks[i-2].kind == tokPunct
}

// repairSpacing 在字母與後接公制單位的數字之間補空白（"In118 ml" → "In 118 ml"），再合併空白
func repairSpacing(s string) string {
	toks := tokenize(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, t := range toks {
		if t.kind == tokNumber && i > 0 && toks[i-1].kind == tokWord && followedByMetricUnit(toks, i) {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return collapseSpaces(b.String())
}

func followedByMetricUnit(toks []token, i int) bool {
	j := skipSpace(toks, i+1)
	return j < len(toks) && toks[j].kind == tokWord && metricUnitWords[strings.ToLower(toks[j].text)]
}
