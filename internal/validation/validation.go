package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Pre-Mercosul format: ABC1234
	plateLegacy = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	// Mercosul format: ABC1D23 (the fourth-position character may also be a
	// digit, which keeps legacy plates valid under the new rule)
	plateMercosul = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)
)

// NormalizePlate uppercases a plate and strips all whitespace. Validation and
// storage always operate on the normalized value.
func NormalizePlate(placa string) string {
	placa = strings.ToUpper(placa)
	return strings.Join(strings.Fields(placa), "")
}

// ValidatePlate checks a normalized plate against the legacy and Mercosul
// formats.
func ValidatePlate(placa string) error {
	if placa == "" {
		return fmt.Errorf("placa não informada")
	}
	if !plateLegacy.MatchString(placa) && !plateMercosul.MatchString(placa) {
		return fmt.Errorf("placa %q inválida: use o formato ABC1234 ou ABC1D23", placa)
	}
	return nil
}
