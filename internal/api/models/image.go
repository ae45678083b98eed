package models

import "time"

// Image is an uploaded gallery image. The file lives on disk under the
// upload directory; the row records where.
type Image struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"uniqueIndex;not null;column:filename" json:"filename"`
	OriginalName string    `gorm:"column:original_name" json:"original_name"`
	URL          string    `gorm:"not null;column:url" json:"url"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Image) TableName() string {
	return "images"
}
