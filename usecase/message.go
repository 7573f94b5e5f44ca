package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	domainMessage "github.com/wadesk/wadesk/domains/message"
	"gorm.io/gorm"
)

// --- Persistence Model ---

// ProviderMessageID is a pointer so rows without one store NULL: the unique
// index then only bites for real provider ids, on both sqlite and postgres.
type messageModel struct {
	ID                uint    `gorm:"primaryKey"`
	CustomerID        uint    `gorm:"index;not null"`
	Content           string  `gorm:"type:text"`
	MediaReference    string  `gorm:"size:512"`
	MediaContentType  string  `gorm:"size:100"`
	Direction         string  `gorm:"size:10;not null"`
	Status            string  `gorm:"size:10;not null;default:'pending'"`
	ProviderMessageID *string `gorm:"uniqueIndex;size:100"`
	IsRead            bool    `gorm:"not null;default:false"`
	CreatedAt         time.Time
}

func (messageModel) TableName() string {
	return "messages"
}

func (m messageModel) toDomain() domainMessage.Message {
	providerID := ""
	if m.ProviderMessageID != nil {
		providerID = *m.ProviderMessageID
	}
	return domainMessage.Message{
		ID:                m.ID,
		CustomerID:        m.CustomerID,
		Content:           m.Content,
		MediaReference:    m.MediaReference,
		MediaContentType:  m.MediaContentType,
		Direction:         domainMessage.Direction(m.Direction),
		Status:            domainMessage.Status(m.Status),
		ProviderMessageID: providerID,
		IsRead:            m.IsRead,
		CreatedAt:         m.CreatedAt,
	}
}

func providerIDColumn(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// --- Service ---

type messageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) domainMessage.IMessageUsecase {
	s := &messageService{db: db}
	if err := db.AutoMigrate(&messageModel{}); err != nil {
		logrus.WithError(err).Error("[MESSAGE] failed to init schema")
	}
	return s
}

// RecordInbound creates the row for a received message, idempotently. The
// provider delivers at-least-once, sometimes concurrently; the unique index
// on provider_message_id makes the second writer lose cleanly, and losing
// is success.
func (s *messageService) RecordInbound(ctx context.Context, in domainMessage.InboundMessage) (bool, error) {
	if in.ProviderMessageID != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&messageModel{}).
			Where("provider_message_id = ?", in.ProviderMessageID).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return false, nil
		}
	}

	m := messageModel{
		CustomerID:        in.CustomerID,
		Content:           in.Content,
		MediaReference:    in.MediaReference,
		MediaContentType:  in.MediaContentType,
		Direction:         string(domainMessage.DirectionReceived),
		Status:            string(domainMessage.StatusDelivered),
		ProviderMessageID: providerIDColumn(in.ProviderMessageID),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateErr(err) {
			// Concurrent re-delivery beat us to the insert.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *messageService) RecordOutbound(ctx context.Context, out domainMessage.OutboundMessage) (domainMessage.Message, error) {
	m := messageModel{
		CustomerID:        out.CustomerID,
		Content:           out.Content,
		MediaReference:    out.MediaReference,
		MediaContentType:  out.MediaContentType,
		Direction:         string(domainMessage.DirectionSent),
		Status:            string(domainMessage.StatusPending),
		ProviderMessageID: providerIDColumn(out.ProviderMessageID),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateErr(err) && out.ProviderMessageID != "" {
			var existing messageModel
			if lookupErr := s.db.WithContext(ctx).
				Where("provider_message_id = ?", out.ProviderMessageID).
				First(&existing).Error; lookupErr == nil {
				return existing.toDomain(), nil
			}
		}
		return domainMessage.Message{}, err
	}
	return m.toDomain(), nil
}

// ApplyStatus is a set-based update by provider id: the provider's status
// string is stored verbatim, last write wins, and matching zero rows (a
// status racing ahead of its message, or referencing a message we never
// stored) is a silent success.
func (s *messageService) ApplyStatus(ctx context.Context, providerMessageID string, status domainMessage.Status) (int64, error) {
	if providerMessageID == "" {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&messageModel{}).
		Where("provider_message_id = ?", providerMessageID).
		Update("status", string(status))
	return res.RowsAffected, res.Error
}

func (s *messageService) ListByCustomer(ctx context.Context, customerID uint) ([]domainMessage.Message, error) {
	var models []messageModel
	if err := s.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	messages := make([]domainMessage.Message, 0, len(models))
	for _, m := range models {
		messages = append(messages, m.toDomain())
	}
	return messages, nil
}

func (s *messageService) MarkReceivedRead(ctx context.Context, customerID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&messageModel{}).
		Where("customer_id = ? AND direction = ? AND is_read = ?",
			customerID, string(domainMessage.DirectionReceived), false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *messageService) Stats(ctx context.Context) (domainMessage.Stats, error) {
	var stats domainMessage.Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&customerModel{}).Count(&stats.TotalCustomers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&messageModel{}).Count(&stats.TotalMessages).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&messageModel{}).
		Where("direction = ?", string(domainMessage.DirectionSent)).
		Count(&stats.SentMessages).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&messageModel{}).
		Where("direction = ?", string(domainMessage.DirectionReceived)).
		Count(&stats.ReceivedMessages).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
