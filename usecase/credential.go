package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wadesk/wadesk/core/config"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	pkgError "github.com/wadesk/wadesk/pkg/error"
	"gorm.io/gorm"
)

type credentialModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:100;not null"`
	AccessToken string `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (credentialModel) TableName() string {
	return "credentials"
}

func (m credentialModel) toDomain() domainCredential.Credential {
	return domainCredential.Credential{
		ID:          m.ID,
		Name:        m.Name,
		AccessToken: m.AccessToken,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type credentialService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewCredentialService(db *gorm.DB, cfg *config.Config) domainCredential.ICredentialUsecase {
	s := &credentialService{db: db, cfg: cfg}
	if err := db.AutoMigrate(&credentialModel{}); err != nil {
		logrus.WithError(err).Error("[CREDENTIAL] failed to init schema")
	}
	return s
}

func (s *credentialService) Create(ctx context.Context, req domainCredential.CreateCredentialRequest) (domainCredential.Credential, error) {
	m := credentialModel{
		ID:          uuid.NewString(),
		Name:        req.Name,
		AccessToken: req.AccessToken,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainCredential.Credential{}, err
	}
	logrus.Infof("[CREDENTIAL] stored credential %s (%s)", m.ID, m.Name)
	cred := m.toDomain()
	cred.AccessToken = ""
	return cred, nil
}

func (s *credentialService) List(ctx context.Context) ([]domainCredential.Credential, error) {
	var models []credentialModel
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	creds := make([]domainCredential.Credential, 0, len(models))
	for _, m := range models {
		cred := m.toDomain()
		cred.AccessToken = ""
		creds = append(creds, cred)
	}
	return creds, nil
}

func (s *credentialService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&credentialModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgError.NotFoundError("credential not found")
	}
	return nil
}

func (s *credentialService) CurrentToken(ctx context.Context) string {
	var m credentialModel
	err := s.db.WithContext(ctx).Order("updated_at DESC").First(&m).Error
	if err == nil {
		return m.AccessToken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Warn("[CREDENTIAL] token lookup failed, falling back to env")
	}
	return s.cfg.Whatsapp.AccessToken
}
