package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	precoRuido    = regexp.MustCompile(`[^0-9.,-]`)
	precoAgrupado = regexp.MustCompile(`^\d{1,3}(\.\d{3})*(,\d{2})?$`)
	naoDigito     = regexp.MustCompile(`[^0-9]`)
)

// ExtractPrice parses a free-form text fragment into a numeric price. It
// first tries the Brazilian grouped format (50.000,00); failing that, any run
// of at least four digits is taken as an unformatted amount. Returns false
// when no plausible price is present. Never errors on garbage input.
func ExtractPrice(texto string) (float64, bool) {
	limpo := precoRuido.ReplaceAllString(texto, "")

	// The grouped match requires a separator so that short digit runs like
	// "R$ 123" fall through to the length check below.
	if strings.ContainsAny(limpo, ".,") && precoAgrupado.MatchString(limpo) {
		normalizado := strings.ReplaceAll(limpo, ".", "")
		normalizado = strings.ReplaceAll(normalizado, ",", ".")
		if valor, err := strconv.ParseFloat(normalizado, 64); err == nil {
			return valor, true
		}
	}

	digitos := naoDigito.ReplaceAllString(texto, "")
	if len(digitos) >= 4 {
		if valor, err := strconv.ParseFloat(digitos, 64); err == nil {
			return valor, true
		}
	}

	return 0, false
}

// FormatBRL renders a value as Brazilian currency, e.g. "R$ 50.000,00".
func FormatBRL(valor float64) string {
	centavos := fmt.Sprintf("%.2f", valor)
	partes := strings.SplitN(centavos, ".", 2)

	inteiro := partes[0]
	negativo := strings.HasPrefix(inteiro, "-")
	inteiro = strings.TrimPrefix(inteiro, "-")

	var agrupado strings.Builder
	for i, d := range inteiro {
		resto := len(inteiro) - i
		if i > 0 && resto%3 == 0 {
			agrupado.WriteByte('.')
		}
		agrupado.WriteRune(d)
	}

	sinal := ""
	if negativo {
		sinal = "-"
	}
	return fmt.Sprintf("R$ %s%s,%s", sinal, agrupado.String(), partes[1])
}
