package models

import "time"

type Placement struct {
	ID        uint      `gorm:"primaryKey"        json:"id"`
	StudentID uint      `gorm:"not null;index"    json:"student_id"`
	Company   string    `gorm:"size:120;not null" json:"company"`
	RoleTitle string    `gorm:"size:120;not null" json:"role_title"`
	Package   string    `gorm:"size:40"           json:"package"` // เก็บเป็น string ตามที่กรอก เช่น "6.5 LPA"
	OfferDate string    `gorm:"size:10"           json:"offer_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
