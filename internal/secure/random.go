package secure

import (
	"crypto/rand"
	"math/big"
)

// Alfabet tanpa karakter ambigu (0/O, 1/l/I) supaya aman dibacakan
// lewat telepon atau dicetak di struk.
const tokenAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz"

// TokenLength panjang default secret token pulsa.
const TokenLength = 32

// RandomString menghasilkan string acak dari crypto/rand.
// Dipakai untuk secret token pulsa dan secret API key.
func RandomString(length int) (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
