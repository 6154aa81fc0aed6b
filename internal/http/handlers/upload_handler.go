package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-ai-backend/internal/extract"
	"github.com/ignatzorin/proposal-ai-backend/internal/pkg/apperror"
)

type UploadHandler struct {
	maxSizeBytes int64
}

func NewUploadHandler(maxSizeMB int64) *UploadHandler {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &UploadHandler{maxSizeBytes: maxSizeMB << 20}
}

// Upload POST /upload
// Принимает PDF или TXT и возвращает извлечённый текст для поля
// «дополнительные требования» генерации.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeBadRequest, "файл не передан"))
		return
	}
	if fileHeader.Size > h.maxSizeBytes {
		_ = c.Error(apperror.New(apperror.ErrCodeValidation, "файл слишком большой"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось открыть файл"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxSizeBytes+1))
	if err != nil {
		_ = c.Error(apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать файл"))
		return
	}

	text, err := extract.Text(data)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": fileHeader.Filename,
		"content":  text,
	})
}
