package util

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// HexAlphabet is the character space of password reset PINs.
const HexAlphabet = "0123456789ABCDEF"

// GenerateOTP returns a code of the given length whose characters are drawn
// uniformly from alphabet.
func GenerateOTP(length int, alphabet string) (string, error) {
	if length <= 0 {
		length = 6
	}
	if alphabet == "" {
		alphabet = HexAlphabet
	}
	if len(alphabet) < 2 {
		return "", errors.New("otp alphabet needs at least two characters")
	}
	max := big.NewInt(int64(len(alphabet)))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}
