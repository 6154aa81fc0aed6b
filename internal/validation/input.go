package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// Константы валидации
const (
	MaxClientNameLength         = 200
	MaxProjectDescriptionLength = 5000
	MaxBudgetRangeLength        = 100
	MaxTimelineLength           = 200
	MaxClauseTitleLength        = 200
	MaxClauseContentLength      = 10000
	MaxCustomMessageLength      = 2000
	MaxSubjectLength            = 300
)

func invalid(format string, args ...any) error {
	return apperror.New(apperror.ErrCodeValidation, fmt.Sprintf(format, args...))
}

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return invalid("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return invalid("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return invalid("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return invalid("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return invalid("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return invalid("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return invalid("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateDealValue проверяет сумму сделки.
func ValidateDealValue(value *float64) error {
	if value == nil {
		return nil
	}
	if *value < 0 {
		return invalid("сумма сделки не может быть отрицательной")
	}
	return nil
}
