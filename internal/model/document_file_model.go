package model

import "time"

type DocumentFile struct {
	Id          string    `gorm:"type:text;primaryKey"`
	Filename    string    `gorm:"type:text;not null"`
	Size        int64     `gorm:"not null"`
	UploadedAt  time.Time `gorm:"autoCreateTime"`
	ChunksCount int       `gorm:"default:0"`
}

func (DocumentFile) TableName() string {
	return "document_files"
}
