package models

import "time"

// Content is a single editable block of the public site (a headline, a
// paragraph, a price list entry), addressed by section and key.
type Content struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Section   string    `gorm:"not null;index;column:section" json:"section"`
	Key       string    `gorm:"not null;column:key" json:"key"`
	Title     string    `gorm:"column:title" json:"title"`
	Content   string    `gorm:"type:text;column:content" json:"content"`
	Type      string    `gorm:"default:text;column:type" json:"type"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Content) TableName() string {
	return "content"
}
