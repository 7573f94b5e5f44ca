package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	domainCustomer "github.com/wadesk/wadesk/domains/customer"
	domainMessage "github.com/wadesk/wadesk/domains/message"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

func TestResolveCreatesCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	cust, err := svc.Resolve(ctx, "+5215512345678", "Maria Lopez")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cust.ID == 0 {
		t.Fatal("expected a persisted id")
	}
	if cust.DisplayName != "Maria Lopez" {
		t.Errorf("unexpected display name: %q", cust.DisplayName)
	}

	again, err := svc.Resolve(ctx, "+5215512345678", "Maria Lopez")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != cust.ID {
		t.Errorf("resolve must be stable, got ids %d and %d", cust.ID, again.ID)
	}
}

func TestResolveNameOverwriteHeuristic(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	// Created without a profile name; the first named delivery fills it in.
	cust, err := svc.Resolve(ctx, "+5215512345678", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cust.DisplayName != "" {
		t.Fatalf("expected empty name, got %q", cust.DisplayName)
	}

	cust, err = svc.Resolve(ctx, "+5215512345678", "Maria")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cust.DisplayName != "Maria" {
		t.Errorf("empty name should adopt the profile name, got %q", cust.DisplayName)
	}

	// A human-looking stored name stays even when the profile name changes.
	cust, err = svc.Resolve(ctx, "+5215512345678", "Maria L.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cust.DisplayName != "Maria" {
		t.Errorf("human-set name must not be clobbered, got %q", cust.DisplayName)
	}
}

func TestResolvePhoneShapedNameIsReplaced(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	if err := db.Create(&customerModel{PhoneNumber: "+521555", DisplayName: "+52 155 5"}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	cust, err := svc.Resolve(ctx, "+521555", "Carlos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cust.DisplayName != "Carlos" {
		t.Errorf("phone-shaped name should be replaced, got %q", cust.DisplayName)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)

	_, err := svc.GetByID(context.Background(), 404)
	if !errors.Is(err, domainCustomer.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestAssignAgent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	cust, err := svc.Resolve(ctx, "+521555", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.AssignAgent(ctx, cust.ID, "agent.smith")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AssignedAgent != "agent.smith" {
		t.Errorf("unexpected agent: %q", updated.AssignedAgent)
	}

	if _, err := svc.AssignAgent(ctx, 9999, "nobody"); !errors.Is(err, domainCustomer.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestDeleteCascadesMessages(t *testing.T) {
	db := newTestDB(t)
	customers := NewCustomerService(db)
	messages := NewMessageService(db)
	ctx := context.Background()

	cust, err := customers.Resolve(ctx, "+521555", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := messages.RecordInbound(ctx, domainMessage.InboundMessage{
		CustomerID:        cust.ID,
		ProviderMessageID: "wamid.del1",
		Content:           "bye",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := customers.Delete(ctx, cust.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&messageModel{}).Where("customer_id = ?", cust.ID).Count(&count)
	if count != 0 {
		t.Errorf("expected messages deleted with customer, %d remain", count)
	}

	if err := customers.Delete(ctx, cust.ID); !errors.Is(err, domainCustomer.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestPreviewTextTruncatesOnRuneBoundary(t *testing.T) {
	content := strings.Repeat("ñ", 40)
	preview := previewText(messageModel{Content: content})
	if !utf8.ValidString(preview) {
		t.Fatalf("preview is not valid UTF-8: %q", preview)
	}
	if preview != strings.Repeat("ñ", 30)+"..." {
		t.Errorf("unexpected preview: %q", preview)
	}

	short := "hola"
	if got := previewText(messageModel{Content: short}); got != short {
		t.Errorf("short content must pass through, got %q", got)
	}
}

func TestListOverviews(t *testing.T) {
	db := newTestDB(t)
	customers := NewCustomerService(db)
	messages := NewMessageService(db)
	ctx := context.Background()

	alice, _ := customers.Resolve(ctx, "+521111", "Alice")
	bob, _ := customers.Resolve(ctx, "+522222", "Bob")

	if _, err := messages.RecordInbound(ctx, domainMessage.InboundMessage{
		CustomerID:        alice.ID,
		ProviderMessageID: "wamid.a1",
		Content:           "first message",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := messages.RecordInbound(ctx, domainMessage.InboundMessage{
		CustomerID:        bob.ID,
		ProviderMessageID: "wamid.b1",
		Content:           "a much longer message that will be truncated for the preview",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overviews, err := customers.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overviews) != 2 {
		t.Fatalf("expected 2 overviews, got %d", len(overviews))
	}
	for _, ov := range overviews {
		if ov.UnreadCount != 1 {
			t.Errorf("customer %d: expected 1 unread, got %d", ov.ID, ov.UnreadCount)
		}
		if ov.LastMessageTime == nil {
			t.Errorf("customer %d: expected a last message time", ov.ID)
		}
		if len(ov.LastMessage) > 33 {
			t.Errorf("preview should be truncated, got %q", ov.LastMessage)
		}
	}
}
