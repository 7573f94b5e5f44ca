package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	domainTemplate "github.com/wadesk/wadesk/domains/template"
	"gorm.io/gorm"
)

type templateModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null"`
	Body      string `gorm:"type:text;not null"`
	Language  string `gorm:"size:10;not null;default:'en_US'"`
	CreatedAt time.Time
}

func (templateModel) TableName() string {
	return "templates"
}

func (m templateModel) toDomain() domainTemplate.Template {
	return domainTemplate.Template{
		ID:        m.ID,
		Name:      m.Name,
		Body:      m.Body,
		Language:  m.Language,
		CreatedAt: m.CreatedAt,
	}
}

type templateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) domainTemplate.ITemplateUsecase {
	s := &templateService{db: db}
	if err := db.AutoMigrate(&templateModel{}); err != nil {
		logrus.WithError(err).Error("[TEMPLATE] failed to init schema")
	}
	return s
}

func (s *templateService) Create(ctx context.Context, req domainTemplate.CreateTemplateRequest) (domainTemplate.Template, error) {
	m := templateModel{
		Name:     req.Name,
		Body:     req.Body,
		Language: req.Language,
	}
	if m.Language == "" {
		m.Language = "en_US"
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateErr(err) {
			return domainTemplate.Template{}, domainTemplate.ErrDuplicateTemplate
		}
		return domainTemplate.Template{}, err
	}
	return m.toDomain(), nil
}

func (s *templateService) GetByName(ctx context.Context, name string) (domainTemplate.Template, error) {
	var m templateModel
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainTemplate.Template{}, domainTemplate.ErrTemplateNotFound
		}
		return domainTemplate.Template{}, err
	}
	return m.toDomain(), nil
}

func (s *templateService) List(ctx context.Context) ([]domainTemplate.Template, error) {
	var models []templateModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	templates := make([]domainTemplate.Template, 0, len(models))
	for _, m := range models {
		templates = append(templates, m.toDomain())
	}
	return templates, nil
}

func (s *templateService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&templateModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainTemplate.ErrTemplateNotFound
	}
	return nil
}
