package extract

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/ledongthuc/pdf"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// maxTextRunes ограничивает извлечённый текст: дальше он попадает в промпт,
// и мегабайтные вставки там не нужны.
const maxTextRunes = 50000

// Text извлекает текст из загруженного документа.
// Тип определяется по магическим байтам: PDF разбирается, всё остальное
// принимается как plain text, если это валидный UTF-8.
func Text(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperror.New(apperror.ErrCodeValidation, "файл пуст")
	}

	kind, _ := filetype.Match(data)
	if kind.Extension == "pdf" {
		return pdfText(data)
	}

	// Магические байты не распознали ни один известный бинарный формат —
	// дальше допускаем только текст.
	if kind != filetype.Unknown {
		return "", apperror.New(apperror.ErrCodeValidation, "поддерживаются только PDF и TXT файлы")
	}

	if !utf8.Valid(data) {
		return "", apperror.New(apperror.ErrCodeValidation, "файл не является текстом в UTF-8")
	}

	return truncate(string(data)), nil
}

// pdfText извлекает текст из PDF.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось прочитать PDF")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось извлечь текст из PDF")
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось извлечь текст из PDF")
	}

	return truncate(b.String()), nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxTextRunes {
		return string(runes[:maxTextRunes])
	}
	return s
}
