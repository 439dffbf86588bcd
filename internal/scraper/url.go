package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Decompose accented characters and drop the combining marks
	removeDiacriticos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	naoAlfanumericos = regexp.MustCompile(`[^a-z0-9]+`)
)

// slugify normalizes free-form make/model text into a URL path segment:
// lowercase, diacritics stripped, every run of other characters collapsed to
// a single hyphen. "Volkswagen Gol" → "volkswagen-gol", "1.0" → "1-0".
func slugify(texto string) string {
	texto = strings.ToLower(strings.TrimSpace(texto))
	if sem, _, err := transform.String(removeDiacriticos, texto); err == nil {
		texto = sem
	}
	texto = naoAlfanumericos.ReplaceAllString(texto, "-")
	return strings.Trim(texto, "-")
}

// anoToken extracts the leading year token from a model-year field, so values
// like "2015 Flex" or "2020-Gasolina" resolve to "2015"/"2020".
func anoToken(anoModelo string) string {
	campos := strings.FieldsFunc(anoModelo, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-'
	})
	if len(campos) == 0 {
		return ""
	}
	return campos[0]
}

// BuildSearchURL composes the marketplace search URL for a vehicle. All three
// attributes are required; ok is false when any of them is missing, in which
// case no network call should be made.
func BuildSearchURL(base, marca, modelo, anoModelo string) (string, bool) {
	marcaSlug := slugify(marca)
	modeloSlug := slugify(modelo)
	ano := anoToken(anoModelo)
	if marcaSlug == "" || modeloSlug == "" || ano == "" {
		return "", false
	}
	return strings.TrimRight(base, "/") + "/" + marcaSlug + "/" + modeloSlug + "/" + ano, true
}
