package measure

import (
	"strings"
)

// measurement 一個「數量 + 單位」片段
type measurement struct {
	unit  Unit
	start int // 原字串位元組位置
	end   int
	next  int // 單位之後的 token 位置
}

// text 取出片段原文
func (m measurement) text(s string) string {
	return s[m.start:m.end]
}

// dualPolicy 回傳 true 表示保留左邊的量測
type dualPolicy func(left, right Unit) bool

// preferWeight 食材行使用：左邊是公制重量（g、kg）且右邊不是時保留左邊，其餘保留右邊
func preferWeight(left, right Unit) bool {
	return isMetricWeight(left) && !isMetricWeight(right)
}

// preferMetric 步驟句使用：左邊是公制（g、kg、ml、l、°C）且右邊不是時保留左邊，其餘保留右邊
func preferMetric(left, right Unit) bool {
	return left.Metric && !right.Metric
}

func isMetricWeight(u Unit) bool {
	return u.Family == FamilyWeight && u.Metric
}

// ResolveDualIngredient 將食材行中的 "A 單位 / B 單位" 收斂成單一量測，重量優先
func ResolveDualIngredient(s string) string {
	return resolveDual(s, preferWeight)
}

// ResolveDualInstruction 將步驟句中的 "A 單位 / B 單位" 收斂成單一量測，公制優先
func ResolveDualInstruction(s string) string {
	return resolveDual(s, preferMetric)
}

// resolveDual 只處理第一組雙單位
func resolveDual(s string, keepLeft dualPolicy) string {
	toks := tokenize(s)
	for i := 0; i < len(toks); i++ {
		left, ok := scanMeasurement(toks, i)
		if !ok {
			continue
		}

		j := skipSpace(toks, left.next)
		if j >= len(toks) || toks[j].kind != tokSlash {
			i = left.next - 1
			continue
		}
		right, ok := scanMeasurement(toks, skipSpace(toks, j+1))
		if !ok {
			i = left.next - 1
			continue
		}

		kept := right
		if keepLeft(left.unit, right.unit) {
			kept = left
		}
		var b strings.Builder
		b.WriteString(s[:left.start])
		b.WriteString(kept.text(s))
		b.WriteString(s[right.end:])
		return b.String()
	}
	return s
}

// scanMeasurement 讀取 "數量 [空白] 單位"，單位必須在對照表內
func scanMeasurement(toks []token, i int) (measurement, bool) {
	if i >= len(toks) || toks[i].kind != tokNumber {
		return measurement{}, false
	}
	_, next, ok := scanQuantity(toks, i)
	if !ok {
		return measurement{}, false
	}
	unit, after, ok := matchUnit(toks, skipSpace(toks, next))
	if !ok {
		return measurement{}, false
	}
	after = consumeInlinePeriod(toks, after)
	return measurement{
		unit:  unit,
		start: toks[i].start,
		end:   toks[after-1].end,
		next:  after,
	}, true
}
