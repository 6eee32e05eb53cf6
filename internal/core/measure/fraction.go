package measure

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// vulgarFractions 常見分數字元對照
var vulgarFractions = map[rune]string{
	'¼': "1/4",
	'½': "1/2",
	'¾': "3/4",
	'⅓': "1/3",
	'⅔': "2/3",
	'⅛': "1/8",
	'⅜': "3/8",
	'⅝': "5/8",
	'⅞': "7/8",
}

// fractionSlash U+2044，NFKC 分解分數字元時使用
const fractionSlash = '⁄'

// NormalizeFractions 將分數字元（½、¾ 等）轉成 ASCII 分數。
// 數字後緊接分數字元時補一個空白，"1½" 會變成 "1 1/2"。
func NormalizeFractions(s string) string {
	if isASCII(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	prevDigit := false
	for _, r := range s {
		ascii, ok := asciiFraction(r)
		if ok {
			if prevDigit {
				b.WriteByte(' ')
			}
			b.WriteString(ascii)
			prevDigit = true
			continue
		}
		if r == fractionSlash {
			b.WriteByte('/')
			prevDigit = false
			continue
		}
		b.WriteRune(r)
		prevDigit = isASCIIDigit(r)
	}
	return b.String()
}

// asciiFraction 查表，查不到時用 NFKC 分解 Unicode 數字形式區段的分數字元（⅕、⅙ 等）
func asciiFraction(r rune) (string, bool) {
	if ascii, ok := vulgarFractions[r]; ok {
		return ascii, true
	}
	if r < 0x2150 || r > 0x215E || !unicode.Is(unicode.No, r) {
		return "", false
	}
	decomposed := norm.NFKC.String(string(r))
	if !strings.ContainsRune(decomposed, fractionSlash) {
		return "", false
	}
	return strings.ReplaceAll(decomposed, string(fractionSlash), "/"), true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
