package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mdmahamud/portfolio-backend/models"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

// FindAllNewestFirst returns every contact message, most recent first.
func (r *MessageRepo) FindAllNewestFirst(ctx context.Context) ([]*models.ContactMessage, error) {
	var messages []*models.ContactMessage
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error
	return messages, err
}

// CountByEmail counts messages already stored for the given (lowercased) email.
func (r *MessageRepo) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("email = ?", email).
		Count(&count).Error
	return count, err
}

// Add inserts a new contact message into the database
func (r *MessageRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// Delete removes a contact message from the database by id
func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id).Error
}
