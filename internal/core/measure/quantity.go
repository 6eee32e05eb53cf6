package measure

import (
	"strconv"
	"strings"
)

// Quantity 解析後的數量，Valid 為 false 表示沒有可辨識的數字
type Quantity struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// ParseQuantity 將數字字串（"1 1/2"、"1-1/2"、"3/4"、"1.5"、"1-2"、"¾"）轉成單一數值。
// 帶分數取整數加分數，範圍取平均，無法解析時回傳 Valid=false。
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(NormalizeFractions(s))
	if s == "" {
		return Quantity{}
	}
	toks := tokenize(s)
	value, next, ok := scanQuantity(toks, 0)
	if !ok || next != len(toks) {
		return Quantity{}
	}
	return Quantity{Value: value, Valid: true}
}

// scanQuantity 從 toks[i] 開始讀取一個數量表達式，回傳數值與下一個 token 位置。
// 範圍的兩端各自可以是帶分數（"1 1/2-2"、"2 1/2 - 3"），範圍取平均。
func scanQuantity(toks []token, i int) (float64, int, bool) {
	lower, upper, next, ok := scanRange(toks, i)
	if !ok {
		return 0, next, false
	}
	return (lower + upper) / 2, next, true
}

// scanRange 讀取 "數量 [- 數量]"，沒有範圍時 lower 與 upper 相同
func scanRange(toks []token, i int) (float64, float64, int, bool) {
	lower, next, ok := scanSingleQuantity(toks, i)
	if !ok {
		return 0, 0, next, false
	}

	dash := skipSpace(toks, next)
	if dash < len(toks) && toks[dash].kind == tokDash {
		if upper, end, ok := scanSingleQuantity(toks, skipSpace(toks, dash+1)); ok {
			return lower, upper, end, true
		}
	}
	return lower, lower, next, true
}

// scanSingleQuantity 讀取單一數字或帶分數（"1 1/2"、"1-1/2"）
func scanSingleQuantity(toks []token, i int) (float64, int, bool) {
	if i >= len(toks) || toks[i].kind != tokNumber {
		return 0, i, false
	}
	first, ok := parseNumber(toks[i].text)
	if !ok {
		return 0, i + 1, false
	}

	if i+2 < len(toks) && toks[i+2].kind == tokNumber && isInteger(toks[i].text) && isFraction(toks[i+2].text) {
		if sep := toks[i+1].kind; sep == tokSpace || sep == tokDash {
			frac, ok := parseNumber(toks[i+2].text)
			if !ok {
				return 0, i + 3, false
			}
			return first + frac, i + 3, true
		}
	}
	return first, i + 1, true
}

// parseNumber 解析整數、小數或 a/b 分數，分母為零視為失敗
func parseNumber(text string) (float64, bool) {
	if num, den, found := strings.Cut(text, "/"); found {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
