package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

func TestText_PlainText(t *testing.T) {
	out, err := Text([]byte("  Требования к проекту: интеграция с CRM.  \n"))

	assert.NoError(t, err)
	assert.Equal(t, "Требования к проекту: интеграция с CRM.", out)
}

func TestText_Empty(t *testing.T) {
	_, err := Text(nil)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestText_KnownBinaryRejected(t *testing.T) {
	// Магические байты PNG.
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00}

	_, err := Text(png)

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestText_InvalidUTF8Rejected(t *testing.T) {
	_, err := Text([]byte{0xff, 0xfe, 0xfd})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestText_Truncates(t *testing.T) {
	long := strings.Repeat("a", maxTextRunes+100)

	out, err := Text([]byte(long))

	assert.NoError(t, err)
	assert.Len(t, out, maxTextRunes)
}

func TestText_BrokenPDF(t *testing.T) {
	// Валидная PDF-сигнатура, но дальше мусор.
	_, err := Text([]byte("%PDF-1.4 garbage"))

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}
