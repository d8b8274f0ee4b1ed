package models

import "time"

// ค่าการตัดสินรายขั้น (advisor / second level)
const (
	DecisionPending     = "Pending"
	DecisionApproved    = "Approved"
	DecisionRejected    = "Rejected"
	DecisionNotRequired = "NotRequired" // เฉพาะขั้นสอง — advisor ยังไม่อนุมัติ/ปฏิเสธไปแล้ว
)

// สถานะรวม (derived เท่านั้น — ห้าม set ตรง ๆ จาก caller)
const (
	OverallPending         = "Pending"
	OverallAdvisorApproved = "AdvisorApproved"
	OverallFullyApproved   = "FullyApproved"
	OverallRejected        = "Rejected"
)

type DutyLeaveRequest struct {
	ID            uint   `gorm:"primaryKey"             json:"id"`
	ReferenceCode string `gorm:"size:20;uniqueIndex"    json:"reference_code"` // รหัสอ้างอิงสำหรับแสดงผล เช่น DL-1A2B3C4D
	StudentID     uint   `gorm:"not null;index"         json:"student_id"`
	AdvisorID     uint   `gorm:"not null;index"         json:"advisor_id"` // ผูกไว้ตอนสร้าง — ไม่ตามการย้ายที่ปรึกษา

	EventName             string `gorm:"size:120;not null" json:"event_name"`
	EventVenue            string `gorm:"size:120;not null" json:"event_venue"`
	EventDate             string `gorm:"size:10;not null"  json:"event_date"` // YYYY-MM-DD
	Reason                string `gorm:"type:text;not null" json:"reason"`
	SupportingDocumentRef string `gorm:"size:255"          json:"supporting_document_ref"` // URL/identifier — engine ไม่ตีความ

	AdvisorDecision  string     `gorm:"size:20;not null" json:"advisor_decision"` // Pending|Approved|Rejected
	AdvisorRemarks   string     `gorm:"type:text"        json:"advisor_remarks"`
	AdvisorDecidedAt *time.Time `json:"advisor_decided_at"`

	SecondLevelDecision  string     `gorm:"size:20;not null" json:"second_level_decision"` // NotRequired|Pending|Approved|Rejected
	SecondLevelRemarks   string     `gorm:"type:text"        json:"second_level_remarks"`
	SecondLevelDecidedAt *time.Time `json:"second_level_decided_at"`

	OverallStatus string `gorm:"size:20;not null;index" json:"overall_status"` // Pending|AdvisorApproved|FullyApproved|Rejected

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveOverallStatus คำนวณสถานะรวมจากผลสองขั้น — ที่เดียวในระบบ
// ห้ามมี code path อื่นเขียน overall_status นอกเหนือจากค่าที่ฟังก์ชันนี้ให้
func DeriveOverallStatus(advisorDecision, secondLevelDecision string) string {
	switch advisorDecision {
	case DecisionRejected:
		return OverallRejected
	case DecisionApproved:
		switch secondLevelDecision {
		case DecisionApproved:
			return OverallFullyApproved
		case DecisionRejected:
			return OverallRejected
		default:
			return OverallAdvisorApproved
		}
	default:
		return OverallPending
	}
}
