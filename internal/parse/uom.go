package parse

import "strings"

// uomAliases maps the unit spellings seen across supplier storefronts
// to a canonical short form.
var uomAliases = map[string]string{
	"g":          "g",
	"gr":         "g",
	"gram":       "g",
	"grams":      "g",
	"gramme":     "g",
	"grammes":    "g",
	"kg":         "kg",
	"kilo":       "kg",
	"kilos":      "kg",
	"kilogram":   "kg",
	"kilograms":  "kg",
	"mg":         "mg",
	"milligram":  "mg",
	"milligrams": "mg",
	"lb":         "lb",
	"lbs":        "lb",
	"pound":      "lb",
	"pounds":     "lb",
	"oz":         "oz",
	"ounce":      "oz",
	"ounces":     "oz",
	"ml":         "mL",
	"milliliter": "mL",
	"millilitre": "mL",
	"l":          "L",
	"liter":      "L",
	"liters":     "L",
	"litre":      "L",
	"litres":     "L",
	"gal":        "gal",
	"gallon":     "gal",
	"gallons":    "gal",
	"ea":         "ea",
	"each":       "ea",
	"pc":         "ea",
	"pcs":        "ea",
	"piece":      "ea",
	"pieces":     "ea",
	"unit":       "ea",
	"units":      "ea",
	"mol":        "mol",
	"mmol":       "mmol",
}

// NormalizeUOM resolves a raw unit-of-measure string to its canonical
// form. The second return is false when the unit is not recognized.
func NormalizeUOM(s string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, ".")
	canon, ok := uomAliases[key]
	return canon, ok
}
