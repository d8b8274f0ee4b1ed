package models

import "time"

// AdvisorAssignment ผูกนักศึกษาเข้ากับอาจารย์ที่ปรึกษาปัจจุบัน
// ใช้แถว active ล่าสุดเป็นคำตอบ — ประวัติการเปลี่ยนที่ปรึกษาเก็บเป็นแถวเก่า (active=false)
type AdvisorAssignment struct {
	ID         uint      `gorm:"primaryKey"             json:"id"`
	StudentID  uint      `gorm:"not null;index"         json:"student_id"` // FK -> students.id (เชื่อมแบบ logic)
	TeacherID  uint      `gorm:"not null;index"         json:"teacher_id"` // FK -> teachers.id
	Active     bool      `gorm:"not null;default:true"  json:"active"`
	AssignedAt time.Time `gorm:"not null"               json:"assigned_at"`
	Note       string    `gorm:"size:255"               json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// หมายเหตุ: คำขอลาที่เปิดอยู่จะไม่เปลี่ยน advisor_id ตามการย้ายที่ปรึกษา (ผูกไว้ตอนสร้างคำขอ)
