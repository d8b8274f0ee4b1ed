package workflow

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/models"
)

// Directory อ่านข้อมูล roster (นักศึกษา/อาจารย์/ที่ปรึกษา) — engine ใช้แบบ read-only
type Directory interface {
	// AdvisorForStudent คืน teachers.id ของที่ปรึกษาปัจจุบัน — ErrNotFound ถ้ายังไม่เลือกที่ปรึกษา
	AdvisorForStudent(ctx context.Context, studentID uint) (uint, error)
	BranchForStudent(ctx context.Context, studentID uint) (string, error)
	BranchForTeacher(ctx context.Context, teacherID uint) (string, error)

	// IsSecondLevelApproverFor เช็ค capability อนุมัติขั้นสองไว้ที่เดียว:
	// ตอนนี้ = อาจารย์สาขาเดียวกับนักศึกษา (ไม่มี role แยกสำหรับผู้อนุมัติขั้นสอง)
	// ถ้าภายหลังจะ tighten กติกา แก้ที่ฟังก์ชันนี้จุดเดียวโดยไม่แตะ state machine
	IsSecondLevelApproverFor(ctx context.Context, teacherID, studentID uint) (bool, error)
}

type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory { return &GormDirectory{db: db} }

func (d *GormDirectory) AdvisorForStudent(ctx context.Context, studentID uint) (uint, error) {
	// ใช้แถว active ล่าสุด — ประวัติการย้ายที่ปรึกษาเป็นแถว active=false
	var a models.AdvisorAssignment
	err := d.db.WithContext(ctx).
		Where("student_id = ? AND active = ?", studentID, true).
		Order("assigned_at DESC, id DESC").
		First(&a).Error
	if err != nil {
		return 0, directoryErr(err)
	}
	return a.TeacherID, nil
}

func (d *GormDirectory) BranchForStudent(ctx context.Context, studentID uint) (string, error) {
	var s models.Student
	if err := d.db.WithContext(ctx).Select("branch").First(&s, "id = ?", studentID).Error; err != nil {
		return "", directoryErr(err)
	}
	return s.Branch, nil
}

func (d *GormDirectory) BranchForTeacher(ctx context.Context, teacherID uint) (string, error) {
	var t models.Teacher
	if err := d.db.WithContext(ctx).Select("branch").First(&t, "id = ?", teacherID).Error; err != nil {
		return "", directoryErr(err)
	}
	return t.Branch, nil
}

func (d *GormDirectory) IsSecondLevelApproverFor(ctx context.Context, teacherID, studentID uint) (bool, error) {
	tb, err := d.BranchForTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil // ไม่อยู่ใน roster → ไม่มีสิทธิ์
		}
		return false, err
	}
	sb, err := d.BranchForStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return tb != "" && tb == sb, nil
}

func directoryErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
