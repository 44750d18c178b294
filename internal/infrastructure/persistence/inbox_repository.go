package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/inbox"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInboxRepository implements inbox.Repository using GORM
type GormInboxRepository struct {
	db *gorm.DB
}

// NewGormInboxRepository creates a new GormInboxRepository
func NewGormInboxRepository(db *gorm.DB) *GormInboxRepository {
	return &GormInboxRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormInboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*inbox.Document, error) {
	var model models.InboxDocumentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("Inbox document")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists documents, optionally in one status, most recently received first
func (r *GormInboxRepository) FindAll(ctx context.Context, status inbox.Status) ([]inbox.Document, error) {
	query := conn(ctx, r.db)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []models.InboxDocumentModel
	if err := query.Order("received_at DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]inbox.Document, len(rows))
	for i := range rows {
		docs[i] = *rows[i].ToDomain()
	}
	return docs, nil
}

// Save creates or updates a document
func (r *GormInboxRepository) Save(ctx context.Context, doc *inbox.Document) error {
	return conn(ctx, r.db).Save(models.InboxDocumentModelFromDomain(doc)).Error
}

// Delete removes a document
func (r *GormInboxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.InboxDocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Inbox document")
	}
	return nil
}
