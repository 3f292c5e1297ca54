// pkg/utils/crypto.go

package utils

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

// GenerateNumericCode returns a fixed-width numeric passcode drawn from
// crypto/rand. Leading zeros are legal, so every width-length string is
// equally likely.
func GenerateNumericCode(length int) (string, error) {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(digits)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			return "", err
		}
		result[i] = digits[n.Int64()]
	}

	return string(result), nil
}
