package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// GenerateInvoiceNumber returns a reference like INV-20240601-0482. The
// four-digit suffix is random and uniqueness is not guaranteed; the invoice
// number is a human-readable reference, not a key.
func GenerateInvoiceNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), suffix)
}

// GenerateResetToken returns the token handed to the user and the sha256 hex
// digest stored in their record.
func GenerateResetToken() (token string, tokenHash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(raw)
	return token, HashToken(token), nil
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
