package models

import "time"

// Branch สาขาวิชา — ใช้เป็นกลุ่มเดียวแบน ๆ สำหรับ scope การอนุมัติขั้นสอง
type Branch struct {
	ID        uint      `gorm:"primaryKey"                   json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex;not null" json:"code"` // เช่น CSE
	Name      string    `gorm:"size:80;not null"             json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
