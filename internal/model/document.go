package model

import "time"

// Document records an uploaded PDF on disk. IsProcessed flips to true
// once its chunks have been embedded and indexed.
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	FilePath    string    `gorm:"size:512;not null" json:"file_path"`
	IsProcessed bool      `gorm:"not null" json:"is_processed"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentPage holds the extracted text of a single page of a Document.
type DocumentPage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	DocumentID  uint   `gorm:"not null;index" json:"document_id"`
	PageNumber  int    `gorm:"not null" json:"page_number"`
	Content     string `gorm:"type:text;not null" json:"content"`
	IsProcessed bool   `gorm:"not null" json:"is_processed"`
}
