package models

import "time"

type Training struct {
	ID           uint      `gorm:"primaryKey"        json:"id"`
	StudentID    uint      `gorm:"not null;index"    json:"student_id"`
	Title        string    `gorm:"size:120;not null" json:"title"`
	Organization string    `gorm:"size:120;not null" json:"organization"`
	StartDate    string    `gorm:"size:10"           json:"start_date"`
	EndDate      string    `gorm:"size:10"           json:"end_date"`
	DocumentRef  string    `gorm:"size:255"          json:"document_ref"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
