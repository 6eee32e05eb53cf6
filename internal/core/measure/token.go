package measure

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind token 類別
type tokenKind int

const (
	tokNumber tokenKind = iota // 1、1.5、.5、1/2
	tokWord                    // 字母序列，或以 ° 開頭的序列
	tokSpace                   // 連續空白
	tokSlash                   // 獨立的 /
	tokDash                    // - – —
	tokPunct                   // 其他單一字元
)

// token 掃描結果，start/end 為原字串中的位元組位置
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

// tokenize 將字串切成 token，所有 token 依序串接後等於原字串
func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		start := i
		var kind tokenKind

		switch {
		case isASCIIDigit(r) || (r == '.' && i+1 < len(s) && isASCIIDigit(rune(s[i+1]))):
			kind = tokNumber
			i = scanNumber(s, i)
		case unicode.IsLetter(r) || r == '°':
			kind = tokWord
			i += size
			for i < len(s) {
				next, n := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsLetter(next) {
					break
				}
				i += n
			}
		case unicode.IsSpace(r):
			kind = tokSpace
			i += size
			for i < len(s) {
				next, n := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(next) {
					break
				}
				i += n
			}
		case r == '/':
			kind = tokSlash
			i += size
		case r == '-' || r == '–' || r == '—':
			kind = tokDash
			i += size
		default:
			kind = tokPunct
			i += size
		}

		toks = append(toks, token{kind: kind, text: s[start:i], start: start, end: i})
	}
	return toks
}

// scanNumber 讀取數字：整數或小數，後面緊接 "/數字" 時視為分數
func scanNumber(s string, i int) int {
	i = scanDigits(s, i)
	if i+1 < len(s) && s[i] == '.' && isASCIIDigit(rune(s[i+1])) {
		i = scanDigits(s, i+1)
	}
	if i+1 < len(s) && s[i] == '/' && isASCIIDigit(rune(s[i+1])) {
		i = scanDigits(s, i+1)
	}
	return i
}

func scanDigits(s string, i int) int {
	for i < len(s) && isASCIIDigit(rune(s[i])) {
		i++
	}
	return i
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isFraction 數字 token 是否為分數
func isFraction(text string) bool {
	return strings.Contains(text, "/")
}

// isInteger 數字 token 是否為整數
func isInteger(text string) bool {
	return text != "" && !strings.ContainsAny(text, "./")
}

// skipSpace 跳過一個空白 token
func skipSpace(toks []token, i int) int {
	if i < len(toks) && toks[i].kind == tokSpace {
		return i + 1
	}
	return i
}

// matchUnit 從 toks[i] 開始比對單位，優先比對兩個字的單位（例如 fl oz）。
// 回傳單位及單位字詞之後的 token 位置，單位後的句點由呼叫端決定是否吃掉。
func matchUnit(toks []token, i int) (Unit, int, bool) {
	if i >= len(toks) || toks[i].kind != tokWord {
		return Unit{}, i, false
	}

	// 兩個字：word [.] space word
	j := i + 1
	if j < len(toks) && toks[j].text == "." {
		j++
	}
	if j+1 < len(toks) && toks[j].kind == tokSpace && toks[j+1].kind == tokWord {
		if u, ok := LookupUnit(toks[i].text + " " + toks[j+1].text); ok {
			return u, j + 2, true
		}
	}

	if u, ok := LookupUnit(toks[i].text); ok {
		return u, i + 1, true
	}
	return Unit{}, i, false
}

// consumeUnitPeriod 食材行中緊接在單位後的句點一律屬於縮寫（tbsp.、lb.）
func consumeUnitPeriod(toks []token, i int) int {
	if i < len(toks) && toks[i].text == "." {
		return i + 1
	}
	return i
}

// consumeInlinePeriod 步驟句中單位後的句點：後面接小寫字詞，或縮寫單位後接任何字詞時吃掉；
// 句尾句點與完整單位字（cups.）後接大寫字詞時保留為句點
func consumeInlinePeriod(toks []token, i int) int {
	if i == 0 || i+2 >= len(toks) || toks[i].text != "." || toks[i+1].kind != tokSpace || toks[i+2].kind != tokWord {
		return i
	}
	first, _ := utf8.DecodeRuneInString(toks[i+2].text)
	if unicode.IsLower(first) || isUnitAbbreviation(toks[i-1].text) {
		return i + 1
	}
	return i
}
