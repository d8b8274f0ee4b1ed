package models

import "time"

type Certificate struct {
	ID          uint      `gorm:"primaryKey"          json:"id"`
	StudentID   uint      `gorm:"not null;index"      json:"student_id"`
	Title       string    `gorm:"size:120;not null"   json:"title"`
	Issuer      string    `gorm:"size:120;not null"   json:"issuer"`
	IssuedOn    string    `gorm:"size:10"             json:"issued_on"` // YYYY-MM-DD
	DocumentRef string    `gorm:"size:255"            json:"document_ref"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
