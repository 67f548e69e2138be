package utils

import (
	"crypto/rand"
	"math/big"
)

const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()-_+=<>?"

const generatedPasswordLength = 12

// GenerateRandomPassword returns a fresh password for the forgot-password
// flow. Falls back to a uuid-derived token if the system randomness source
// is unavailable.
func GenerateRandomPassword() string {
	password := make([]byte, generatedPasswordLength)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return CreateToken()[:generatedPasswordLength]
		}
		password[i] = passwordCharset[n.Int64()]
	}
	return string(password)
}
