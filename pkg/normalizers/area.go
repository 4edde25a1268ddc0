package normalizers

// areaAliases maps alternative spellings (after transliteration) to one canonical area code
var areaAliases = map[string]string{
	"athina":      "athens",
	"athinai":     "athens",
	"peiraias":    "piraeus",
	"pireas":      "piraeus",
	"peiraeus":    "piraeus",
	"kifissia":    "kifisia",
	"kifisia":     "kifisia",
	"glifada":     "glyfada",
	"maroussi":    "marousi",
	"amarousio":   "marousi",
	"halandri":    "chalandri",
	"salonica":    "thessaloniki",
	"thesaloniki": "thessaloniki",
	"nea-smirni":  "nea-smyrni",
	"irakleio":    "heraklion",
	"iraklio":     "heraklion",
	"chania":      "chania",
	"hania":       "chania",
}

// AreaCode returns the canonical code of an area name written in Greek or Latin script.
// "Κηφισιά", "Kifissia" and "kifisia" all map to "kifisia".
func AreaCode(s string) string {
	code := Slug(Transliterate(s))
	if alias, ok := areaAliases[code]; ok {
		return alias
	}
	return code
}

var propertyTypeAliases = map[string]string{
	"apartment":    "apartment",
	"flat":         "apartment",
	"diamerisma":   "apartment",
	"studio":       "studio",
	"garsoniera":   "studio",
	"gkarsoniera":  "studio",
	"house":        "house",
	"detached":     "house",
	"monokatoikia": "house",
	"maisonette":   "maisonette",
	"mezoneta":     "maisonette",
	"villa":        "villa",
	"vila":         "villa",
	"land":         "land",
	"plot":         "land",
	"oikopedo":     "land",
	"office":       "commercial",
	"store":        "commercial",
	"shop":         "commercial",
	"commercial":   "commercial",
	"grafeio":      "commercial",
	"katastima":    "commercial",
}

// PropertyType returns the canonical property type. Unknown types fall back to their slug.
func PropertyType(s string) string {
	code := Slug(Transliterate(s))
	if alias, ok := propertyTypeAliases[code]; ok {
		return alias
	}
	return code
}
