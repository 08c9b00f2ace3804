package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ChaymaBrk/conv-AI/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) CreatePages(pages []model.DocumentPage) error {
	if len(pages) == 0 {
		return nil
	}
	if err := r.db.Create(&pages).Error; err != nil {
		return fmt.Errorf("create document pages failed: %w", err)
	}
	return nil
}

// MarkProcessed flips the processed flag on a document and all its pages.
func (r *DocumentRepository) MarkProcessed(documentID uint) error {
	if err := r.db.Model(&model.Document{}).Where("id = ?", documentID).
		Update("is_processed", true).Error; err != nil {
		return fmt.Errorf("mark document processed failed: %w", err)
	}
	if err := r.db.Model(&model.DocumentPage{}).Where("document_id = ?", documentID).
		Update("is_processed", true).Error; err != nil {
		return fmt.Errorf("mark document pages processed failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(documentID uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) List() ([]model.Document, error) {
	var docs []model.Document
	if err := r.db.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}
