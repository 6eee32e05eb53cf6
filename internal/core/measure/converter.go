package measure

import (
	"math"
	"strconv"
	"strings"
)

// metricThreshold ml→L、g→kg 的切換門檻
const metricThreshold = 1000

// Convert 將解析結果轉成公制字串，寫入 Converted。
// 缺少數量或單位、或單位不是體積/重量時原樣返回。
func (e *Engine) Convert(p ParsedIngredientLine) ParsedIngredientLine {
	if !p.Quantity.Valid || p.Unit == nil {
		return p
	}

	var amount string
	switch p.Unit.Family {
	case FamilyVolume:
		ml := p.Quantity.Value * p.Unit.Factor
		if density, ok := e.density(p.IngredientName); ok {
			amount = formatMetric(ml*density, "g", "kg")
		} else {
			amount = formatMetric(ml, "ml", "L")
		}
	case FamilyWeight:
		amount = formatMetric(p.Quantity.Value*p.Unit.Factor, "g", "kg")
	default:
		return p
	}

	p.Converted = strings.TrimSpace(amount + " " + p.IngredientName)
	return p
}

// density 只有啟用密度換算時才查表
func (e *Engine) density(name string) (float64, bool) {
	if !e.opts.DensityConversion || name == "" {
		return 0, false
	}
	return LookupDensity(name)
}

// formatMetric 依門檻選擇小單位（整數）或大單位（兩位小數）
func formatMetric(value float64, small, large string) string {
	rounded := math.Round(value)
	if rounded >= metricThreshold {
		return FormatAmount(value/metricThreshold, 2) + " " + large
	}
	// 不足 1 的量保留小數，避免輸出 0
	if rounded == 0 && value > 0 {
		return FormatAmount(value, 2) + " " + small
	}
	return strconv.FormatFloat(rounded, 'f', 0, 64) + " " + small
}

// FormatAmount 四捨五入到指定小數位並去除尾端的 0
func FormatAmount(value float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(value*scale) / scale
	s := strconv.FormatFloat(rounded, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
