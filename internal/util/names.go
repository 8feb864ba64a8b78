package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidarNombreUsuario applies the username rules shared by every surface:
// 3 to 20 characters, letters, digits and underscore only.
func ValidarNombreUsuario(nombre string) bool {
	nombre = strings.TrimSpace(nombre)

	largo := utf8.RuneCountInString(nombre)
	if largo < 3 || largo > 20 {
		return false
	}

	for _, r := range nombre {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
