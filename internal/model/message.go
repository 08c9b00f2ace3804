package model

import "time"

// Message is one conversational turn. Every handled chat request writes
// exactly two rows: the user turn (IsAI=false) and the assistant turn
// (IsAI=true). Rows are never mutated or deleted.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IsAI      bool      `gorm:"not null;index" json:"is_ai"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}
