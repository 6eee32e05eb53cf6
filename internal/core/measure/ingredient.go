package measure

import (
	"strings"
	"unicode"
)

// ParsedIngredientLine 食材行解析結果
type ParsedIngredientLine struct {
	Original       string   `json:"original"`
	Quantity       Quantity `json:"quantity"`
	Unit           *Unit    `json:"unit,omitempty"`
	IngredientName string   `json:"ingredient_name"`
	Converted      string   `json:"converted,omitempty"` // 空字串表示未換算
}

// leadingPrepositions 食材名稱開頭要移除的介系詞
var leadingPrepositions = []string{"of ", "for "}

// trailingQualifiers 以逗號開頭、要從食材名稱移除的附註
var trailingQualifiers = []string{"optional", "divided", "plus more"}

// ParseIngredientLine 將清理過的食材行切成數量、單位、食材名稱。
// 開頭沒有數字時整行視為食材名稱；單位查不到時保留在名稱中。
func ParseIngredientLine(line string) ParsedIngredientLine {
	p := ParsedIngredientLine{Original: line}
	toks := tokenize(line)

	i := skipSpace(toks, 0)
	value, next, ok := scanQuantity(toks, i)
	if !ok {
		p.IngredientName = strings.TrimSpace(line)
		return p
	}
	p.Quantity = Quantity{Value: value, Valid: true}

	k := skipSpace(toks, next)
	rest := ""
	if unit, after, ok := matchUnit(toks, k); ok && unit.Family != FamilyTemperature {
		p.Unit = &unit
		after = consumeUnitPeriod(toks, after)
		if after < len(toks) {
			rest = line[toks[after].start:]
		}
	} else if k < len(toks) {
		rest = line[toks[k].start:]
	}

	p.IngredientName = cleanIngredientName(rest)
	return p
}

// cleanIngredientName 去除開頭介系詞與結尾的 ", optional"、", divided"、", plus more for ..."
func cleanIngredientName(name string) string {
	name = strings.TrimSpace(name)
	for {
		lower := strings.ToLower(name)
		stripped := false
		for _, prep := range leadingPrepositions {
			if strings.HasPrefix(lower, prep) {
				name = strings.TrimSpace(name[len(prep):])
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	for offset := 0; ; {
		idx := strings.IndexByte(name[offset:], ',')
		if idx < 0 {
			break
		}
		comma := offset + idx
		clause := strings.ToLower(strings.TrimSpace(name[comma+1:]))
		if hasQualifierPrefix(clause) {
			name = name[:comma]
			break
		}
		offset = comma + 1
	}

	name = strings.TrimRight(strings.TrimSpace(name), ",")
	// 只剩標點（"1 tsp ." 的句點）時視為沒有名稱
	if strings.IndexFunc(name, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
		return ""
	}
	return name
}

func hasQualifierPrefix(clause string) bool {
	for _, q := range trailingQualifiers {
		if strings.HasPrefix(clause, q) {
			return true
		}
	}
	return false
}
