package measure

import (
	"strings"
)

// Family 單位類別
type Family int

const (
	FamilyUnknown Family = iota
	FamilyVolume
	FamilyWeight
	FamilyTemperature
)

// String 實現 fmt.Stringer 介面
func (f Family) String() string {
	switch f {
	case FamilyVolume:
		return "volume"
	case FamilyWeight:
		return "weight"
	case FamilyTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

// Unit 解析後的單位
type Unit struct {
	Name   string  `json:"name"`   // 標準名稱，例如 cup、g
	Family Family  `json:"family"` // 單位類別
	Factor float64 `json:"factor"` // 換算成 ml（體積）或 g（重量）的係數
	Metric bool    `json:"metric"` // 是否為公制單位
}

// IsWeight 是否為重量單位
func (u Unit) IsWeight() bool { return u.Family == FamilyWeight }

// IsVolume 是否為體積單位
func (u Unit) IsVolume() bool { return u.Family == FamilyVolume }

// IsFahrenheit 是否為華氏溫度
func (u Unit) IsFahrenheit() bool { return u.Family == FamilyTemperature && !u.Metric }

const (
	mlPerTeaspoon     = 4.92892
	mlPerTablespoon   = 14.7868
	mlPerDessertSpoon = 10
	mlPerCup          = 236.588
	mlPerFluidOunce   = 29.5735
	mlPerPint         = 473.176
	mlPerQuart        = 946.353
	mlPerGallon       = 3785.41
	gramsPerOunce     = 28.3495
	gramsPerPound     = 453.592
	gramsPerStick     = 113.398
)

// volumeUnits 體積別名 → 單位（換算成毫升）
var volumeUnits = map[string]Unit{
	"ml":          {Name: "ml", Family: FamilyVolume, Factor: 1, Metric: true},
	"milliliter":  {Name: "ml", Family: FamilyVolume, Factor: 1, Metric: true},
	"milliliters": {Name: "ml", Family: FamilyVolume, Factor: 1, Metric: true},
	"millilitre":  {Name: "ml", Family: FamilyVolume, Factor: 1, Metric: true},
	"millilitres": {Name: "ml", Family: FamilyVolume, Factor: 1, Metric: true},
	"cl":          {Name: "cl", Family: FamilyVolume, Factor: 10, Metric: true},
	"dl":          {Name: "dl", Family: FamilyVolume, Factor: 100, Metric: true},
	"l":           {Name: "l", Family: FamilyVolume, Factor: 1000, Metric: true},
	"liter":       {Name: "l", Family: FamilyVolume, Factor: 1000, Metric: true},
	"liters":      {Name: "l", Family: FamilyVolume, Factor: 1000, Metric: true},
	"litre":       {Name: "l", Family: FamilyVolume, Factor: 1000, Metric: true},
	"litres":      {Name: "l", Family: FamilyVolume, Factor: 1000, Metric: true},

	// "t" 固定視為茶匙，大小寫不區分，因此 "T" 也會被當成茶匙
	"t":           {Name: "tsp", Family: FamilyVolume, Factor: mlPerTeaspoon},
	"tsp":         {Name: "tsp", Family: FamilyVolume, Factor: mlPerTeaspoon},
	"tsps":        {Name: "tsp", Family: FamilyVolume, Factor: mlPerTeaspoon},
	"teaspoon":    {Name: "tsp", Family: FamilyVolume, Factor: mlPerTeaspoon},
	"teaspoons":   {Name: "tsp", Family: FamilyVolume, Factor: mlPerTeaspoon},
	"tbsp":        {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},
	"tbsps":       {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},
	"tbs":         {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},
	"tbl":         {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},
	"tbls":        {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},
	"tablespoon":  {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},
	"tablespoons": {Name: "tbsp", Family: FamilyVolume, Factor: mlPerTablespoon},

	"dessertspoon":  {Name: "dessertspoon", Family: FamilyVolume, Factor: mlPerDessertSpoon},
	"dessertspoons": {Name: "dessertspoon", Family: FamilyVolume, Factor: mlPerDessertSpoon},
	"c":             {Name: "cup", Family: FamilyVolume, Factor: mlPerCup},
	"cup":           {Name: "cup", Family: FamilyVolume, Factor: mlPerCup},
	"cups":          {Name: "cup", Family: FamilyVolume, Factor: mlPerCup},
	"fl oz":         {Name: "fl oz", Family: FamilyVolume, Factor: mlPerFluidOunce},
	"floz":          {Name: "fl oz", Family: FamilyVolume, Factor: mlPerFluidOunce},
	"fluid ounce":   {Name: "fl oz", Family: FamilyVolume, Factor: mlPerFluidOunce},
	"fluid ounces":  {Name: "fl oz", Family: FamilyVolume, Factor: mlPerFluidOunce},
	"pt":            {Name: "pint", Family: FamilyVolume, Factor: mlPerPint},
	"pint":          {Name: "pint", Family: FamilyVolume, Factor: mlPerPint},
	"pints":         {Name: "pint", Family: FamilyVolume, Factor: mlPerPint},
	"qt":            {Name: "quart", Family: FamilyVolume, Factor: mlPerQuart},
	"quart":         {Name: "quart", Family: FamilyVolume, Factor: mlPerQuart},
	"quarts":        {Name: "quart", Family: FamilyVolume, Factor: mlPerQuart},
	"gal":           {Name: "gallon", Family: FamilyVolume, Factor: mlPerGallon},
	"gallon":        {Name: "gallon", Family: FamilyVolume, Factor: mlPerGallon},
	"gallons":       {Name: "gallon", Family: FamilyVolume, Factor: mlPerGallon},
}

// weightUnits 重量別名 → 單位（換算成公克）
var weightUnits = map[string]Unit{
	"mg":         {Name: "mg", Family: FamilyWeight, Factor: 0.001, Metric: true},
	"milligram":  {Name: "mg", Family: FamilyWeight, Factor: 0.001, Metric: true},
	"milligrams": {Name: "mg", Family: FamilyWeight, Factor: 0.001, Metric: true},
	"g":          {Name: "g", Family: FamilyWeight, Factor: 1, Metric: true},
	"gram":       {Name: "g", Family: FamilyWeight, Factor: 1, Metric: true},
	"grams":      {Name: "g", Family: FamilyWeight, Factor: 1, Metric: true},
	"gramme":     {Name: "g", Family: FamilyWeight, Factor: 1, Metric: true},
	"grammes":    {Name: "g", Family: FamilyWeight, Factor: 1, Metric: true},
	"kg":         {Name: "kg", Family: FamilyWeight, Factor: 1000, Metric: true},
	"kgs":        {Name: "kg", Family: FamilyWeight, Factor: 1000, Metric: true},
	"kilogram":   {Name: "kg", Family: FamilyWeight, Factor: 1000, Metric: true},
	"kilograms":  {Name: "kg", Family: FamilyWeight, Factor: 1000, Metric: true},
	"oz":         {Name: "oz", Family: FamilyWeight, Factor: gramsPerOunce},
	"ounce":      {Name: "oz", Family: FamilyWeight, Factor: gramsPerOunce},
	"ounces":     {Name: "oz", Family: FamilyWeight, Factor: gramsPerOunce},
	"lb":         {Name: "lb", Family: FamilyWeight, Factor: gramsPerPound},
	"lbs":        {Name: "lb", Family: FamilyWeight, Factor: gramsPerPound},
	"pound":      {Name: "lb", Family: FamilyWeight, Factor: gramsPerPound},
	"pounds":     {Name: "lb", Family: FamilyWeight, Factor: gramsPerPound},
	"stick":      {Name: "stick", Family: FamilyWeight, Factor: gramsPerStick},
	"sticks":     {Name: "stick", Family: FamilyWeight, Factor: gramsPerStick},
}

// temperatureUnits 溫度別名，Factor 不使用
var temperatureUnits = map[string]Unit{
	"°f":                 {Name: "°F", Family: FamilyTemperature},
	"° f":                {Name: "°F", Family: FamilyTemperature},
	"fahrenheit":         {Name: "°F", Family: FamilyTemperature},
	"degrees f":          {Name: "°F", Family: FamilyTemperature},
	"degrees fahrenheit": {Name: "°F", Family: FamilyTemperature},
	"°c":                 {Name: "°C", Family: FamilyTemperature, Metric: true},
	"° c":                {Name: "°C", Family: FamilyTemperature, Metric: true},
	"celsius":            {Name: "°C", Family: FamilyTemperature, Metric: true},
	"degrees c":          {Name: "°C", Family: FamilyTemperature, Metric: true},
	"degrees celsius":    {Name: "°C", Family: FamilyTemperature, Metric: true},
}

// densities 食材密度（g/ml），只在啟用密度換算時使用
var densities = map[string]float64{
	"flour":          0.53,
	"bread flour":    0.55,
	"sugar":          0.85,
	"brown sugar":    0.93,
	"powdered sugar": 0.56,
	"icing sugar":    0.56,
	"butter":         0.911,
	"milk":           1.03,
	"water":          1.0,
	"cream":          1.01,
	"heavy cream":    1.01,
	"yogurt":         1.03,
	"honey":          1.42,
	"maple syrup":    1.32,
	"oil":            0.92,
	"olive oil":      0.91,
	"salt":           1.2,
	"rice":           0.85,
	"oats":           0.41,
	"rolled oats":    0.41,
	"cocoa powder":   0.42,
}

// unitAbbreviations 慣例上會加句點的英制縮寫
var unitAbbreviations = map[string]bool{
	"t": true, "tsp": true, "tsps": true,
	"tbsp": true, "tbsps": true, "tbs": true, "tbl": true, "tbls": true,
	"c": true, "oz": true, "pt": true, "qt": true, "gal": true,
	"lb": true, "lbs": true,
}

// isUnitAbbreviation 單位字詞是否為英制縮寫
func isUnitAbbreviation(word string) bool {
	return unitAbbreviations[strings.ToLower(word)]
}

// normalizeAlias 統一別名格式：小寫、去除句點、合併空白
func normalizeAlias(alias string) string {
	alias = strings.ToLower(alias)
	alias = strings.ReplaceAll(alias, ".", "")
	return strings.Join(strings.Fields(alias), " ")
}

// LookupUnit 查詢單位別名，依序比對體積、重量、溫度表
func LookupUnit(alias string) (Unit, bool) {
	key := normalizeAlias(alias)
	if key == "" {
		return Unit{}, false
	}
	if u, ok := volumeUnits[key]; ok {
		return u, true
	}
	if u, ok := weightUnits[key]; ok {
		return u, true
	}
	if u, ok := temperatureUnits[key]; ok {
		return u, true
	}
	return Unit{}, false
}

// LookupDensity 依食材名稱查詢密度，取最長的符合詞
func LookupDensity(name string) (float64, bool) {
	padded := " " + strings.Join(strings.FieldsFunc(strings.ToLower(name), isNameSeparator), " ") + " "
	best := ""
	for key := range densities {
		if len(key) > len(best) && strings.Contains(padded, " "+key+" ") {
			best = key
		}
	}
	if best == "" {
		return 0, false
	}
	return densities[best], true
}

func isNameSeparator(r rune) bool {
	return r == ' ' || r == ',' || r == '-' || r == '\t'
}
