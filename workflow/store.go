package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/models"
)

// Stage ขั้นของการตัดสิน
type Stage string

const (
	StageAdvisor     Stage = "advisor"
	StageSecondLevel Stage = "second_level"
)

// Store ชั้น persistence ของคำขอลา
type Store interface {
	Create(ctx context.Context, rec *models.DutyLeaveRequest) error
	Get(ctx context.Context, id uint) (*models.DutyLeaveRequest, error)

	ListByStudent(ctx context.Context, studentID uint) ([]models.DutyLeaveRequest, error)
	ListPendingByAdvisor(ctx context.Context, advisorID uint) ([]models.DutyLeaveRequest, error)
	ListPendingSecondLevelByBranch(ctx context.Context, branch string) ([]models.DutyLeaveRequest, error)
	ListAll(ctx context.Context) ([]models.DutyLeaveRequest, error)

	// ApplyDecision เขียนผลตัดสินของ stage เป็น conditional update ครั้งเดียว:
	// UPDATE ... WHERE <stage>_decision = 'Pending'
	// ไม่ match แถว → ErrInvalidState (ตัดสินไปแล้ว/ยังไม่ถึงขั้นนี้) หรือ ErrNotFound ถ้าไม่มี record
	// decision + remarks + timestamp + ฟิลด์ derived ไปใน UPDATE เดียวกัน — ไม่มี partial write
	ApplyDecision(ctx context.Context, id uint, stage Stage, decision, remarks string, at time.Time) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) Create(ctx context.Context, rec *models.DutyLeaveRequest) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.DutyLeaveRequest, error) {
	var rec models.DutyLeaveRequest
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &rec, nil
}

func (s *GormStore) ListByStudent(ctx context.Context, studentID uint) ([]models.DutyLeaveRequest, error) {
	var rows []models.DutyLeaveRequest
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

func (s *GormStore) ListPendingByAdvisor(ctx context.Context, advisorID uint) ([]models.DutyLeaveRequest, error) {
	var rows []models.DutyLeaveRequest
	err := s.db.WithContext(ctx).
		Where("advisor_id = ? AND advisor_decision = ?", advisorID, models.DecisionPending).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

func (s *GormStore) ListPendingSecondLevelByBranch(ctx context.Context, branch string) ([]models.DutyLeaveRequest, error) {
	// เรียงเก่าก่อน (fairness) — รอขั้นสองนานสุดขึ้นหัวคิว
	var rows []models.DutyLeaveRequest
	err := s.db.WithContext(ctx).
		Joins("JOIN students ON students.id = duty_leave_requests.student_id").
		Where("students.branch = ?", branch).
		Where("advisor_decision = ? AND second_level_decision = ?", models.DecisionApproved, models.DecisionPending).
		Order("advisor_decided_at ASC, duty_leave_requests.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.DutyLeaveRequest, error) {
	var rows []models.DutyLeaveRequest
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, storeErr(err)
	}
	return rows, nil
}

func (s *GormStore) ApplyDecision(ctx context.Context, id uint, stage Stage, decision, remarks string, at time.Time) error {
	var guardCol string
	updates := map[string]any{}

	switch stage {
	case StageAdvisor:
		guardCol = "advisor_decision"
		updates["advisor_decision"] = decision
		updates["advisor_remarks"] = remarks
		updates["advisor_decided_at"] = &at
		// advisor อนุมัติ → เปิดขั้นสอง, ปฏิเสธ → จบเลย (ขั้นสองไม่ต้องทำ)
		second := models.DecisionNotRequired
		if decision == models.DecisionApproved {
			second = models.DecisionPending
		}
		updates["second_level_decision"] = second
		updates["overall_status"] = models.DeriveOverallStatus(decision, second)
	case StageSecondLevel:
		guardCol = "second_level_decision"
		updates["second_level_decision"] = decision
		updates["second_level_remarks"] = remarks
		updates["second_level_decided_at"] = &at
		updates["overall_status"] = models.DeriveOverallStatus(models.DecisionApproved, decision)
	default:
		return ErrInvalidArgument
	}

	res := s.db.WithContext(ctx).
		Model(&models.DutyLeaveRequest{}).
		Where("id = ? AND "+guardCol+" = ?", id, models.DecisionPending).
		Updates(updates)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		// แยกให้ออก: ไม่มี record vs ตัดสินไปแล้ว/ยังไม่ถึงขั้นนี้
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.DutyLeaveRequest{}).
			Where("id = ?", id).Count(&n).Error; err != nil {
			return storeErr(err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrInvalidState
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
