package helpers

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvoiceNumberFormat(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^INV-20240601-\d{4}$`)

	for i := 0; i < 50; i++ {
		invoice := GenerateInvoiceNumber(now)
		assert.Regexp(t, pattern, invoice)
	}
}

func TestGenerateInvoiceNumberUsesGivenDate(t *testing.T) {
	invoice := GenerateInvoiceNumber(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC))
	assert.Regexp(t, `^INV-20231231-\d{4}$`, invoice)
}

func TestGenerateResetToken(t *testing.T) {
	token, tokenHash, err := GenerateResetToken()
	assert.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, HashToken(token), tokenHash)
	assert.NotEqual(t, token, tokenHash)

	other, _, err := GenerateResetToken()
	assert.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}
