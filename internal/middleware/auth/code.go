package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of characters in a confirmation code
const CodeLength = 8

// unambiguous alphabet: no 0/O or 1/I
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a random confirmation code drawn from crypto/rand.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// HashCode creates a bcrypt hash from the given confirmation code.
func HashCode(code string) (string, error) {
	// default cost is 10; codes are short-lived so there is no need to go higher
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided code matches the stored bcrypt hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}
