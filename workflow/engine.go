package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/studentdesk/SDPortal/models"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Identity ตัวตนที่ยืนยันแล้วจากชั้น auth (JWT middleware)
type Identity struct {
	ID   uint
	Role string
}

// CreateInput payload สำหรับยื่นคำขอลา — ฟิลด์ event เป็น opaque สำหรับ engine
type CreateInput struct {
	EventName             string `json:"event_name" validate:"required,max=120"`
	EventVenue            string `json:"event_venue" validate:"required,max=120"`
	EventDate             string `json:"event_date" validate:"required,datetime=2006-01-02"`
	Reason                string `json:"reason" validate:"required"`
	SupportingDocumentRef string `json:"supporting_document_ref" validate:"omitempty,max=255"`
}

// Engine ตัว state machine ของ workflow ลาไปราชการ/กิจกรรม (duty leave)
// stateless — สถานะทั้งหมดอยู่ใน Store, การกันเขียนชนกันอยู่ที่ conditional update ของ Store
type Engine struct {
	store    Store
	dir      Directory
	validate *validator.Validate
	now      func() time.Time
}

func NewEngine(store Store, dir Directory) *Engine {
	return &Engine{
		store:    store,
		dir:      dir,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Create ยื่นคำขอใหม่ (role student เท่านั้น)
// ผูก advisor_id จากที่ปรึกษาปัจจุบัน ณ ตอนสร้าง — ย้ายที่ปรึกษาภายหลังไม่กระทบคำขอที่เปิดอยู่
func (e *Engine) Create(ctx context.Context, actor Identity, in CreateInput) (*models.DutyLeaveRequest, error) {
	if actor.Role != RoleStudent {
		return nil, ErrForbidden
	}
	if err := e.validate.Struct(&in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	advisorID, err := e.dir.AdvisorForStudent(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// ต้องเลือกที่ปรึกษาก่อนถึงจะยื่นคำขอได้
			return nil, ErrPrerequisiteMissing
		}
		return nil, err
	}

	rec := &models.DutyLeaveRequest{
		ReferenceCode:         newReferenceCode(),
		StudentID:             actor.ID,
		AdvisorID:             advisorID,
		EventName:             strings.TrimSpace(in.EventName),
		EventVenue:            strings.TrimSpace(in.EventVenue),
		EventDate:             in.EventDate,
		Reason:                strings.TrimSpace(in.Reason),
		SupportingDocumentRef: strings.TrimSpace(in.SupportingDocumentRef),
		AdvisorDecision:       models.DecisionPending,
		SecondLevelDecision:   models.DecisionNotRequired,
		OverallStatus:         models.DeriveOverallStatus(models.DecisionPending, models.DecisionNotRequired),
	}
	if err := e.store.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecideAsAdvisor ขั้นแรก — เฉพาะอาจารย์ที่ถูกผูกไว้กับคำขอนั้น
func (e *Engine) DecideAsAdvisor(ctx context.Context, actor Identity, id uint, decision, remarks string) (*models.DutyLeaveRequest, error) {
	return e.decide(ctx, actor, id, StageAdvisor, decision, remarks)
}

// DecideAsSecondLevel ขั้นสอง — อาจารย์สาขาเดียวกับนักศึกษา, เปิดหลัง advisor อนุมัติเท่านั้น
func (e *Engine) DecideAsSecondLevel(ctx context.Context, actor Identity, id uint, decision, remarks string) (*models.DutyLeaveRequest, error) {
	return e.decide(ctx, actor, id, StageSecondLevel, decision, remarks)
}

// decide กติกา transition เดียวใช้ทั้งสองขั้น:
// load → eligibility → stage ต้อง Pending → ค่า decision ต้องถูก → conditional update → reload
func (e *Engine) decide(ctx context.Context, actor Identity, id uint, stage Stage, decision, remarks string) (*models.DutyLeaveRequest, error) {
	rec, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch stage {
	case StageAdvisor:
		// exact match กับ advisor ที่ frozen ไว้ — ไม่ recompute จาก assignment ปัจจุบัน
		if actor.Role != RoleTeacher || actor.ID != rec.AdvisorID {
			return nil, ErrForbidden
		}
		if rec.AdvisorDecision != models.DecisionPending {
			return nil, ErrInvalidState
		}
	case StageSecondLevel:
		if actor.Role != RoleTeacher {
			return nil, ErrForbidden
		}
		// สิทธิ์ขั้นสอง recompute สด ณ เวลาตัดสิน — ไม่ freeze เหมือนขั้น advisor
		ok, err := e.dir.IsSecondLevelApproverFor(ctx, actor.ID, rec.StudentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrForbidden
		}
		// ครอบทั้งตัดสินซ้ำ และยื่นขั้นสองก่อน advisor อนุมัติ (ตอนนั้นค่าเป็น NotRequired)
		if rec.SecondLevelDecision != models.DecisionPending {
			return nil, ErrInvalidState
		}
	default:
		return nil, ErrInvalidArgument
	}

	if decision != models.DecisionApproved && decision != models.DecisionRejected {
		return nil, ErrInvalidArgument
	}

	// conditional update เป็นด่านสุดท้าย — สอง request ชนกันบน stage เดียว จะสำเร็จแค่หนึ่ง
	if err := e.store.ApplyDecision(ctx, id, stage, decision, strings.TrimSpace(remarks), e.now()); err != nil {
		return nil, err
	}
	return e.store.Get(ctx, id)
}

// ListMine คำขอของนักศึกษาคนที่เรียก (ล่าสุดก่อน)
func (e *Engine) ListMine(ctx context.Context, actor Identity) ([]models.DutyLeaveRequest, error) {
	if actor.Role != RoleStudent {
		return nil, ErrForbidden
	}
	return e.store.ListByStudent(ctx, actor.ID)
}

// ListAssignedToMe คำขอที่รอการตัดสินขั้น advisor ของผู้เรียก
func (e *Engine) ListAssignedToMe(ctx context.Context, actor Identity) ([]models.DutyLeaveRequest, error) {
	if actor.Role != RoleTeacher {
		return nil, ErrForbidden
	}
	return e.store.ListPendingByAdvisor(ctx, actor.ID)
}

// ListPendingSecondLevel คิวขั้นสองของสาขาผู้เรียก (เก่าก่อน)
func (e *Engine) ListPendingSecondLevel(ctx context.Context, actor Identity) ([]models.DutyLeaveRequest, error) {
	if actor.Role != RoleTeacher {
		return nil, ErrForbidden
	}
	branch, err := e.dir.BranchForTeacher(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrForbidden // ไม่อยู่ใน roster
		}
		return nil, err
	}
	return e.store.ListPendingSecondLevelByBranch(ctx, branch)
}

// ListAll ทุกคำขอ — admin อ่านอย่างเดียว ไม่มี write path ฝั่ง admin
func (e *Engine) ListAll(ctx context.Context, actor Identity) ([]models.DutyLeaveRequest, error) {
	if actor.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return e.store.ListAll(ctx)
}

func newReferenceCode() string {
	return "DL-" + strings.ToUpper(uuid.NewString()[:8])
}
