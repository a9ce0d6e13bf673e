package auth

import (
	"crypto/rand"
	"math/big"
)

const initialPasswordLength = 16

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInitialPassword produces the one-time password issued when an
// employee account is created. It is returned to the admin exactly once
// and must be changed on first login.
func GenerateInitialPassword() (string, error) {
	out := make([]byte, initialPasswordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
