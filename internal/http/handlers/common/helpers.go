package common

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

// ErrInvalidUUID возвращается при неверном формате идентификатора.
var ErrInvalidUUID = errors.New("неверный формат UUID")

// ParseUUIDParam извлекает и разбирает UUID из параметра пути.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return parsed, nil
}

// BindAndValidate разбирает JSON тела запроса в единообразную ошибку валидации.
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "некорректное тело запроса")
	}
	return nil
}

// RespondError отправляет стандартизированный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
