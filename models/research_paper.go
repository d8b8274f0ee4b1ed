package models

import "time"

type ResearchPaper struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	StudentID   uint      `gorm:"not null;index"    json:"student_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Venue       string    `gorm:"size:120"          json:"venue"` // ชื่อวารสาร/งานประชุม
	PublishedOn string    `gorm:"size:10"           json:"published_on"`
	DOI         string    `gorm:"size:80"           json:"doi"`
	DocumentRef string    `gorm:"size:255"          json:"document_ref"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
