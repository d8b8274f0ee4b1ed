package models

import "time"

type Project struct {
	ID          uint      `gorm:"primaryKey"        json:"id"`
	StudentID   uint      `gorm:"not null;index"    json:"student_id"`
	Title       string    `gorm:"size:120;not null" json:"title"`
	Description string    `gorm:"type:text"         json:"description"`
	TechStack   string    `gorm:"size:255"          json:"tech_stack"` // คั่นด้วย comma
	RepoURL     string    `gorm:"size:255"          json:"repo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
