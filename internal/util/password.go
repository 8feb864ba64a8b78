package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	caracteresPassword = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	simbolosPassword   = "!@#$%&*+-="
)

// GenerarPassword returns a random password of the given length drawn from
// letters and digits, optionally extended with a safe symbol set. Randomness
// comes from crypto/rand since these end up as real credentials.
func GenerarPassword(longitud int, incluirSimbolos bool) (string, error) {
	if longitud < 1 {
		return "", fmt.Errorf("la longitud debe ser mayor a 0, recibido %d", longitud)
	}

	alfabeto := caracteresPassword
	if incluirSimbolos {
		alfabeto += simbolosPassword
	}

	out := make([]byte, longitud)
	limite := big.NewInt(int64(len(alfabeto)))
	for i := range out {
		n, err := rand.Int(rand.Reader, limite)
		if err != nil {
			return "", fmt.Errorf("generar password: %w", err)
		}
		out[i] = alfabeto[n.Int64()]
	}

	return string(out), nil
}
