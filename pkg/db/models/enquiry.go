package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/wmbgolfco/engraving-backend/pkg/db/types"
)

// Enquiry is a free-form customer request, usually for a custom quote.
type Enquiry struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string             `gorm:"type:text;not null" json:"name"`
	Email     string             `gorm:"type:text;not null" json:"email"`
	Service   *string            `gorm:"type:text" json:"service"`
	Message   *string            `gorm:"type:text" json:"message"`
	PageURL   *string            `gorm:"column:page_url;type:text" json:"page_url"`
	FileURLs  dbtypes.StringList `gorm:"column:file_urls;type:jsonb" json:"file_urls"`
	CreatedAt time.Time          `gorm:"type:timestamp;not null" json:"created_at"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}
