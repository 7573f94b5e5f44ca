package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	"github.com/wadesk/wadesk/pkg/phone"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type customerModel struct {
	ID            uint      `gorm:"primaryKey"`
	PhoneNumber   string    `gorm:"uniqueIndex;size:20;not null"`
	DisplayName   string    `gorm:"size:255"`
	AssignedAgent string    `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (customerModel) TableName() string {
	return "customers"
}

func (m customerModel) toDomain() domainCustomer.Customer {
	return domainCustomer.Customer{
		ID:            m.ID,
		PhoneNumber:   m.PhoneNumber,
		DisplayName:   m.DisplayName,
		AssignedAgent: m.AssignedAgent,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// --- Service ---

type customerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) domainCustomer.ICustomerUsecase {
	s := &customerService{db: db}
	if err := db.AutoMigrate(&customerModel{}); err != nil {
		logrus.WithError(err).Error("[CUSTOMER] failed to init schema")
	}
	return s
}

// Resolve finds or creates the customer row for a normalized phone number.
// The unique index on phone_number is the concurrency guard: when two
// webhook deliveries race, the loser's insert fails and degrades to a
// lookup.
func (s *customerService) Resolve(ctx context.Context, normalizedPhone, profileName string) (domainCustomer.Customer, error) {
	var m customerModel
	err := s.db.WithContext(ctx).Where("phone_number = ?", normalizedPhone).First(&m).Error
	switch {
	case err == nil:
		return s.maybeAdoptProfileName(ctx, m, profileName)
	case err == gorm.ErrRecordNotFound:
		// fall through to create
	default:
		return domainCustomer.Customer{}, err
	}

	m = customerModel{PhoneNumber: normalizedPhone, DisplayName: profileName}
	if createErr := s.db.WithContext(ctx).Create(&m).Error; createErr != nil {
		if !isDuplicateErr(createErr) {
			return domainCustomer.Customer{}, createErr
		}
		// Lost the race; the winner's row is what we want.
		if err := s.db.WithContext(ctx).Where("phone_number = ?", normalizedPhone).First(&m).Error; err != nil {
			return domainCustomer.Customer{}, err
		}
		return s.maybeAdoptProfileName(ctx, m, profileName)
	}

	logrus.Infof("[CUSTOMER] created %s", normalizedPhone)
	return m.toDomain(), nil
}

// maybeAdoptProfileName overwrites the stored display name with the profile
// name only when the stored one carries no information: empty, equal to the
// phone number, or itself phone-shaped. A name an agent typed in stays.
func (s *customerService) maybeAdoptProfileName(ctx context.Context, m customerModel, profileName string) (domainCustomer.Customer, error) {
	profileName = strings.TrimSpace(profileName)
	if profileName == "" || m.DisplayName == profileName {
		return m.toDomain(), nil
	}
	if m.DisplayName != "" && m.DisplayName != m.PhoneNumber && !phone.Shaped(m.DisplayName) {
		return m.toDomain(), nil
	}
	if err := s.db.WithContext(ctx).Model(&customerModel{}).
		Where("id = ?", m.ID).
		Update("display_name", profileName).Error; err != nil {
		return domainCustomer.Customer{}, err
	}
	m.DisplayName = profileName
	return m.toDomain(), nil
}

func (s *customerService) GetByID(ctx context.Context, id uint) (domainCustomer.Customer, error) {
	var m customerModel
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainCustomer.Customer{}, domainCustomer.ErrCustomerNotFound
		}
		return domainCustomer.Customer{}, err
	}
	return m.toDomain(), nil
}

// List returns every customer with the chat-list preview the dashboard
// polls for: unread count, last message snippet, last activity time.
func (s *customerService) List(ctx context.Context) ([]domainCustomer.Overview, error) {
	var models []customerModel
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	overviews := make([]domainCustomer.Overview, 0, len(models))
	for _, m := range models {
		ov := domainCustomer.Overview{Customer: m.toDomain()}

		s.db.WithContext(ctx).Model(&messageModel{}).
			Where("customer_id = ? AND direction = ? AND is_read = ?", m.ID, "received", false).
			Count(&ov.UnreadCount)

		var last messageModel
		err := s.db.WithContext(ctx).
			Where("customer_id = ?", m.ID).
			Order("created_at DESC, id DESC").
			First(&last).Error
		if err == nil {
			ov.LastMessage = previewText(last)
			t := last.CreatedAt
			ov.LastMessageTime = &t
		}
		overviews = append(overviews, ov)
	}

	sort.SliceStable(overviews, func(i, j int) bool {
		ti, tj := overviews[i].LastMessageTime, overviews[j].LastMessageTime
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})
	return overviews, nil
}

func previewText(m messageModel) string {
	if m.Content == "" && m.MediaReference != "" {
		if strings.HasPrefix(m.MediaContentType, "image") {
			return "[photo]"
		}
		return "[file]"
	}
	const max = 30
	if runes := []rune(m.Content); len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return m.Content
}

func (s *customerService) AssignAgent(ctx context.Context, id uint, agent string) (domainCustomer.Customer, error) {
	res := s.db.WithContext(ctx).Model(&customerModel{}).
		Where("id = ?", id).
		Update("assigned_agent", agent)
	if res.Error != nil {
		return domainCustomer.Customer{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domainCustomer.Customer{}, domainCustomer.ErrCustomerNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a customer and, per the cascade rule, every message that
// belongs to it. Administrative action; the webhook pipeline never deletes.
func (s *customerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&messageModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&customerModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainCustomer.ErrCustomerNotFound
		}
		return nil
	})
}

// isDuplicateErr detects unique-constraint violations across the sqlite and
// postgres drivers.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
