package measure

import (
	"strings"
	"unicode"
)

// maxCleanPasses 清理重複執行的上限
const maxCleanPasses = 8

// CleanIngredient 清理食材行：分數字元、容差註記、括號、範圍、標籤、雙單位、空白。
// 每一輪只收合第一個範圍與第一組雙單位，重複執行到結果不再改變，
// 因此對已清理過的字串再執行一次結果不變。
func CleanIngredient(raw string) string {
	s := cleanIngredientOnce(raw)
	for pass := 1; pass < maxCleanPasses; pass++ {
		next := cleanIngredientOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func cleanIngredientOnce(raw string) string {
	s := NormalizeFractions(raw)
	s = stripTolerance(s)
	s = stripParentheticals(s)
	s = strings.ReplaceAll(collapseSpaces(s), " ,", ",")
	s = collapseRange(s)
	s = stripLabel(s)
	s = ResolveDualIngredient(s)
	return collapseSpaces(s)
}

// CleanInstruction 清理步驟句：只處理分數字元與空白，不做單位換算
func CleanInstruction(raw string) string {
	return collapseSpaces(NormalizeFractions(raw))
}

// stripTolerance 刪除 "± 數量 單位 ..." 直到下一個右括號或字串結尾
func stripTolerance(s string) string {
	for {
		idx := strings.IndexRune(s, '±')
		if idx < 0 {
			return s
		}
		end := strings.IndexByte(s[idx:], ')')
		if end < 0 {
			s = s[:idx]
			continue
		}
		s = s[:idx] + s[idx+end:]
	}
}

// stripParentheticals 刪除成對的括號內容（含巢狀），沒有配對的括號保留
func stripParentheticals(s string) string {
	if !strings.ContainsRune(s, '(') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '(' {
			b.WriteByte(s[i])
			continue
		}
		if end := matchingParen(s, i); end >= 0 {
			i = end
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// matchingParen 回傳與 s[open] 配對的右括號位置，找不到回傳 -1
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// collapseRange 將第一個 "n1-n2 單位 ..." 範圍換成平均值，例如 "1-2 cups" → "1.5 cups"、
// "1 1/2-2 cups" → "1.75 cups"。整數後接分數（"1-1/2"）是帶分數，不是範圍。
func collapseRange(s string) string {
	toks := tokenize(s)
	for i := 0; i < len(toks); {
		if toks[i].kind != tokNumber {
			i++
			continue
		}
		_, single, _ := scanSingleQuantity(toks, i)
		lower, upper, end, ok := scanRange(toks, i)
		if !ok {
			i = end
			continue
		}
		// 有範圍，且後面接著 "空白 + 單位字詞"
		if end > single && end+1 < len(toks) && toks[end].kind == tokSpace && toks[end+1].kind == tokWord {
			mean := FormatAmount((lower+upper)/2, 3)
			return s[:toks[i].start] + mean + s[toks[end-1].end:]
		}
		i = end
	}
	return s
}

// stripLabel 移除開頭的 "Optional Toppings:" 這類標籤（只含字母與空白，以冒號結尾）
func stripLabel(s string) string {
	for {
		s = strings.TrimSpace(s)
		idx := strings.IndexByte(s, ':')
		if idx <= 0 || !isLabel(s[:idx]) {
			return s
		}
		s = s[idx+1:]
	}
}

func isLabel(prefix string) bool {
	hasLetter := false
	for _, r := range prefix {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ' || r == '\'' || r == '&':
		default:
			return false
		}
	}
	return hasLetter
}

// collapseSpaces 合併連續空白並去除頭尾空白
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
