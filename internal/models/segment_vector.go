package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// LogSegmentVector is a stored segment in the pgvector backed store.
// Rows are keyed per namespace, mirroring the namespace isolation of hosted indexes.
type LogSegmentVector struct {
	Namespace string          `json:"namespace" gorm:"primaryKey"`
	RecordID  string          `json:"recordId" gorm:"primaryKey"`
	Text      string          `json:"text" gorm:"type:text"`
	Embedding pgvector.Vector `json:"-" gorm:"type:vector(768)"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (LogSegmentVector) TableName() string {
	return "log_segment_vectors"
}
