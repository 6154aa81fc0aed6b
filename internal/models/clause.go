package models

import (
	"time"

	"github.com/google/uuid"
)

// ClauseCategory описывает категорию юридического блока.
type ClauseCategory string

const (
	CategoryLegal             ClauseCategory = "Legal"
	CategoryFinancial         ClauseCategory = "Financial"
	CategoryService           ClauseCategory = "Service"
	CategoryProjectManagement ClauseCategory = "Project Management"
	CategoryOther             ClauseCategory = "Other"
)

// Valid проверяет, что категория входит в закрытый список.
func (c ClauseCategory) Valid() bool {
	switch c {
	case CategoryLegal, CategoryFinancial, CategoryService, CategoryProjectManagement, CategoryOther:
		return true
	}
	return false
}

// DisplayColor возвращает цвет категории для отображения.
func (c ClauseCategory) DisplayColor() string {
	switch c {
	case CategoryLegal:
		return "purple"
	case CategoryFinancial:
		return "emerald"
	case CategoryService:
		return "blue"
	case CategoryProjectManagement:
		return "orange"
	case CategoryOther:
		return "slate"
	default:
		return "slate"
	}
}

// Clause описывает переиспользуемый блок текста предложения.
// Встроенные блоки создаются сидером и не удаляются; пользовательские
// помечаются is_custom и могут быть удалены.
type Clause struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Title     string         `db:"title" json:"title"`
	Content   string         `db:"content" json:"content"`
	Category  ClauseCategory `db:"category" json:"category"`
	IsCustom  bool           `db:"is_custom" json:"is_custom"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Template описывает промпт-шаблон, задающий отраслевой стиль генерации.
// Справочные данные, приложение их не изменяет.
type Template struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Industry    string    `db:"industry" json:"industry"`
	Description string    `db:"description" json:"description"`
	PromptText  string    `db:"prompt_text" json:"prompt_text"`
}
