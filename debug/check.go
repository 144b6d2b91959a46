package debug

import (
	"crypto/sha256"
	"encoding/hex"
)

// CheckSum is the hex SHA-256 of data.
func CheckSum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
