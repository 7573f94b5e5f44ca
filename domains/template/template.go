package template

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrDuplicateTemplate = errors.New("template with this name already exists")
)

// Template mirrors a pre-approved provider message template.
type Template struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateTemplateRequest struct {
	Name     string `json:"name"`
	Body     string `json:"body"`
	Language string `json:"language"`
}

type ITemplateUsecase interface {
	Create(ctx context.Context, req CreateTemplateRequest) (Template, error)
	GetByName(ctx context.Context, name string) (Template, error)
	List(ctx context.Context) ([]Template, error)
	Delete(ctx context.Context, id uint) error
}
