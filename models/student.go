package models

import "time"

type Student struct {
	ID        uint      `gorm:"primaryKey"                   json:"id"`
	StudentID string    `gorm:"size:20;uniqueIndex;not null" json:"student_id"` // รหัสนักศึกษา (แสดงในตาราง)
	Prefix    string    `gorm:"size:20"                      json:"prefix"`
	FirstName string    `gorm:"size:50;not null"             json:"first_name"`
	LastName  string    `gorm:"size:50;not null"             json:"last_name"`
	Branch    string    `gorm:"size:20;not null;index"       json:"branch"` // สาขา เช่น CSE/ECE/MECH
	Year      int       `gorm:"not null"                     json:"year"`   // ชั้นปี 1–4
	Email     string    `gorm:"size:80"                      json:"email"`
	Phone     string    `gorm:"size:15"                      json:"phone"`
	Status    string    `gorm:"size:20;not null"             json:"status"` // active|left|suspended
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
