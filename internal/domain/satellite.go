package domain

// Satellite imagery source keys.
const (
	SourceCONUS  = "conus"
	SourceMexico = "mexico"
	SourceCanada = "canada"
	SourceChina  = "china"
	SourceEurope = "europe"
)

// europeanCountries is the fixed set of ISO 3166-1 alpha-2 codes mapped to
// the European imagery source.
var europeanCountries = map[string]bool{
	"AL": true, "AT": true, "BA": true, "BE": true, "BG": true, "CH": true,
	"CY": true, "CZ": true, "DE": true, "DK": true, "EE": true, "ES": true,
	"FI": true, "FR": true, "GB": true, "GR": true, "HR": true, "HU": true,
	"IE": true, "IS": true, "IT": true, "LT": true, "LU": true, "LV": true,
	"MD": true, "ME": true, "MK": true, "MT": true, "NL": true, "NO": true,
	"PL": true, "PT": true, "RO": true, "RS": true, "SE": true, "SI": true,
	"SK": true, "UA": true,
}

var countryToSource = map[string]string{
	"US": SourceCONUS,
	"MX": SourceMexico,
	"CA": SourceCanada,
	"CN": SourceChina,
}

// SelectSource maps a country code to a satellite imagery source key. With
// autoMode off the manual preference always wins; unmapped or empty country
// codes fall back to it as well.
func SelectSource(countryCode, manualPreference string, autoMode bool) string {
	if !autoMode {
		return manualPreference
	}
	if src, ok := countryToSource[countryCode]; ok {
		return src
	}
	if europeanCountries[countryCode] {
		return SourceEurope
	}
	return manualPreference
}
