package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// DSN แยกตามชื่อ test — กัน state รั่วข้าม test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite in-memory + หลาย goroutine ต้องบีบเหลือ connection เดียว
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db     *gorm.DB
	engine *Engine

	student models.Student // สาขา CSE
	advisor models.Teacher // ที่ปรึกษา (CSE)
	peer    models.Teacher // อาจารย์ CSE อีกคน — ผู้อนุมัติขั้นสอง
	outside models.Teacher // อาจารย์ ECE — ไม่มีสิทธิ์ขั้นสองของ CSE
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:     db,
		engine: NewEngine(NewGormStore(db), NewGormDirectory(db)),
		student: models.Student{
			StudentID: "65010001", FirstName: "สมชาย", LastName: "ใจดี",
			Branch: "CSE", Year: 3, Status: "active",
		},
		advisor: models.Teacher{
			TeacherCode: "T001", FirstName: "วิชัย", LastName: "อาจารย์ดี",
			Branch: "CSE", Email: "wichai@example.ac.th",
		},
		peer: models.Teacher{
			TeacherCode: "T002", FirstName: "สมศรี", LastName: "วงศ์ใหญ่",
			Branch: "CSE", Email: "somsri@example.ac.th",
		},
		outside: models.Teacher{
			TeacherCode: "T003", FirstName: "อนันต์", LastName: "ต่างสาขา",
			Branch: "ECE", Email: "anan@example.ac.th",
		},
	}
	require.NoError(t, db.Create(&f.student).Error)
	require.NoError(t, db.Create(&f.advisor).Error)
	require.NoError(t, db.Create(&f.peer).Error)
	require.NoError(t, db.Create(&f.outside).Error)
	require.NoError(t, db.Create(&models.AdvisorAssignment{
		StudentID: f.student.ID, TeacherID: f.advisor.ID,
		Active: true, AssignedAt: time.Now(),
	}).Error)
	return f
}

func (f *fixture) studentIdent() Identity { return Identity{ID: f.student.ID, Role: RoleStudent} }
func (f *fixture) advisorIdent() Identity { return Identity{ID: f.advisor.ID, Role: RoleTeacher} }
func (f *fixture) peerIdent() Identity    { return Identity{ID: f.peer.ID, Role: RoleTeacher} }
func (f *fixture) outsideIdent() Identity { return Identity{ID: f.outside.ID, Role: RoleTeacher} }

func validInput() CreateInput {
	return CreateInput{
		EventName:  "แข่งขันพัฒนาซอฟต์แวร์ระดับประเทศ",
		EventVenue: "ศูนย์ประชุมแห่งชาติ",
		EventDate:  "2026-09-15",
		Reason:     "เป็นตัวแทนสาขาเข้าร่วมแข่งขัน",
	}
}

func (f *fixture) mustCreate(t *testing.T) *models.DutyLeaveRequest {
	t.Helper()
	rec, err := f.engine.Create(context.Background(), f.studentIdent(), validInput())
	require.NoError(t, err)
	return rec
}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	assert.Equal(t, f.student.ID, rec.StudentID)
	assert.Equal(t, f.advisor.ID, rec.AdvisorID)
	assert.Equal(t, models.DecisionPending, rec.AdvisorDecision)
	assert.Equal(t, models.DecisionNotRequired, rec.SecondLevelDecision)
	assert.Equal(t, models.OverallPending, rec.OverallStatus)
	assert.True(t, strings.HasPrefix(rec.ReferenceCode, "DL-"))
	assert.Len(t, rec.ReferenceCode, 11)
	assert.Nil(t, rec.AdvisorDecidedAt)
	assert.Nil(t, rec.SecondLevelDecidedAt)
}

func TestCreateWithoutAdvisor(t *testing.T) {
	f := newFixture(t)
	orphan := models.Student{
		StudentID: "65010002", FirstName: "ไม่มี", LastName: "ที่ปรึกษา",
		Branch: "CSE", Year: 1, Status: "active",
	}
	require.NoError(t, f.db.Create(&orphan).Error)

	_, err := f.engine.Create(context.Background(), Identity{ID: orphan.ID, Role: RoleStudent}, validInput())
	assert.ErrorIs(t, err, ErrPrerequisiteMissing)
}

func TestCreateRoleAndValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Create(context.Background(), f.advisorIdent(), validInput())
	assert.ErrorIs(t, err, ErrForbidden)

	in := validInput()
	in.EventDate = "15/09/2026" // ต้องเป็น YYYY-MM-DD
	_, err = f.engine.Create(context.Background(), f.studentIdent(), in)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	in = validInput()
	in.Reason = ""
	_, err = f.engine.Create(context.Background(), f.studentIdent(), in)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAdvisorApproveOpensSecondLevel(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	got, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionApproved, "เห็นควรอนุมัติ")
	require.NoError(t, err)

	assert.Equal(t, models.DecisionApproved, got.AdvisorDecision)
	assert.Equal(t, models.DecisionPending, got.SecondLevelDecision)
	assert.Equal(t, models.OverallAdvisorApproved, got.OverallStatus)
	assert.Equal(t, "เห็นควรอนุมัติ", got.AdvisorRemarks)
	assert.NotNil(t, got.AdvisorDecidedAt)
}

func TestAdvisorRejectIsTerminal(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	got, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionRejected, "เอกสารไม่ครบ")
	require.NoError(t, err)
	assert.Equal(t, models.DecisionNotRequired, got.SecondLevelDecision)
	assert.Equal(t, models.OverallRejected, got.OverallStatus)

	// ตัดสินซ้ำไม่ได้
	_, err = f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	// ขั้นสองก็เข้าไม่ได้ — ค่าเป็น NotRequired ไม่ใช่ Pending
	_, err = f.engine.DecideAsSecondLevel(context.Background(), f.peerIdent(), rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSecondLevelApprove(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)
	_, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionApproved, "")
	require.NoError(t, err)

	got, err := f.engine.DecideAsSecondLevel(context.Background(), f.peerIdent(), rec.ID, models.DecisionApproved, "อนุมัติ")
	require.NoError(t, err)
	assert.Equal(t, models.OverallFullyApproved, got.OverallStatus)
	assert.NotNil(t, got.SecondLevelDecidedAt)

	// ตัดสินซ้ำ → conflict
	_, err = f.engine.DecideAsSecondLevel(context.Background(), f.peerIdent(), rec.ID, models.DecisionRejected, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSecondLevelReject(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)
	_, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionApproved, "")
	require.NoError(t, err)

	got, err := f.engine.DecideAsSecondLevel(context.Background(), f.peerIdent(), rec.ID, models.DecisionRejected, "ชนกับการสอบ")
	require.NoError(t, err)
	assert.Equal(t, models.OverallRejected, got.OverallStatus)
	// ผลขั้นแรกต้องไม่ถูกแตะ
	assert.Equal(t, models.DecisionApproved, got.AdvisorDecision)
}

func TestSecondLevelBeforeAdvisorApproval(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	// advisor ยังไม่ตัดสิน — ขั้นสองยังไม่เปิด
	_, err := f.engine.DecideAsSecondLevel(context.Background(), f.peerIdent(), rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestAdvisorEligibilityIsFrozen(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	// ย้ายที่ปรึกษาหลังยื่นคำขอ
	require.NoError(t, f.db.Model(&models.AdvisorAssignment{}).
		Where("student_id = ?", f.student.ID).Update("active", false).Error)
	require.NoError(t, f.db.Create(&models.AdvisorAssignment{
		StudentID: f.student.ID, TeacherID: f.peer.ID,
		Active: true, AssignedAt: time.Now(),
	}).Error)

	// ที่ปรึกษาคนใหม่ตัดสินคำขอเก่าไม่ได้
	_, err := f.engine.DecideAsAdvisor(context.Background(), f.peerIdent(), rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// คนเดิมที่ถูกผูกไว้ยังตัดสินได้
	_, err = f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionApproved, "")
	assert.NoError(t, err)

	// คำขอใหม่หลังย้าย ผูกกับที่ปรึกษาคนใหม่
	rec2 := f.mustCreate(t)
	assert.Equal(t, f.peer.ID, rec2.AdvisorID)
}

func TestSecondLevelEligibilityIsLive(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)
	_, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, models.DecisionApproved, "")
	require.NoError(t, err)

	// ต่างสาขา → ไม่มีสิทธิ์
	_, err = f.engine.DecideAsSecondLevel(context.Background(), f.outsideIdent(), rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// ย้ายอาจารย์เข้าสาขาเดียวกัน — สิทธิ์เปลี่ยนทันทีเพราะเช็คสด
	require.NoError(t, f.db.Model(&models.Teacher{}).
		Where("id = ?", f.outside.ID).Update("branch", "CSE").Error)
	_, err = f.engine.DecideAsSecondLevel(context.Background(), f.outsideIdent(), rec.ID, models.DecisionApproved, "")
	assert.NoError(t, err)
}

func TestDecideRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	_, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, "Maybe", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// role อื่นตัดสินแทนอาจารย์ไม่ได้
	_, err = f.engine.DecideAsAdvisor(context.Background(), f.studentIdent(), rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.engine.DecideAsAdvisor(context.Background(), Identity{ID: 1, Role: RoleAdmin}, rec.ID, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// record ไม่มีจริง
	_, err = f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), 99999, models.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMineAndAssigned(t *testing.T) {
	f := newFixture(t)
	first := f.mustCreate(t)
	second := f.mustCreate(t)

	mine, err := f.engine.ListMine(context.Background(), f.studentIdent())
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// ล่าสุดก่อน
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	_, err = f.engine.ListMine(context.Background(), f.advisorIdent())
	assert.ErrorIs(t, err, ErrForbidden)

	assigned, err := f.engine.ListAssignedToMe(context.Background(), f.advisorIdent())
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	// ตัดสินหนึ่งรายการ → หายจากคิว advisor
	_, err = f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), first.ID, models.DecisionApproved, "")
	require.NoError(t, err)
	assigned, err = f.engine.ListAssignedToMe(context.Background(), f.advisorIdent())
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, second.ID, assigned[0].ID)
}

func TestListPendingSecondLevelQueue(t *testing.T) {
	f := newFixture(t)
	first := f.mustCreate(t)
	second := f.mustCreate(t)

	// อนุมัติสลับลำดับ — คิวขั้นสองต้องเรียงตามเวลาที่ advisor ตัดสิน ไม่ใช่ลำดับยื่น
	_, err := f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), second.ID, models.DecisionApproved, "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), first.ID, models.DecisionApproved, "")
	require.NoError(t, err)

	queue, err := f.engine.ListPendingSecondLevel(context.Background(), f.peerIdent())
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, second.ID, queue[0].ID)
	assert.Equal(t, first.ID, queue[1].ID)

	// อาจารย์ต่างสาขาเห็นคิวว่าง
	queue, err = f.engine.ListPendingSecondLevel(context.Background(), f.outsideIdent())
	require.NoError(t, err)
	assert.Empty(t, queue)

	// teacher id ที่ไม่อยู่ใน roster → Forbidden
	_, err = f.engine.ListPendingSecondLevel(context.Background(), Identity{ID: 99999, Role: RoleTeacher})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListAllAdminOnly(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t)

	all, err := f.engine.ListAll(context.Background(), Identity{ID: 1, Role: RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = f.engine.ListAll(context.Background(), f.studentIdent())
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.engine.ListAll(context.Background(), f.advisorIdent())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestFullLifecycleEndsQueuesOnRejection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec := f.mustCreate(t)

	// โผล่ในคิว advisor ของที่ปรึกษา
	assigned, err := f.engine.ListAssignedToMe(ctx, f.advisorIdent())
	require.NoError(t, err)
	require.Len(t, assigned, 1)

	// advisor อนุมัติ → เข้าคิวขั้นสองของสาขา
	got, err := f.engine.DecideAsAdvisor(ctx, f.advisorIdent(), rec.ID, models.DecisionApproved, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.OverallAdvisorApproved, got.OverallStatus)
	assert.Equal(t, "ok", got.AdvisorRemarks)

	queue, err := f.engine.ListPendingSecondLevel(ctx, f.peerIdent())
	require.NoError(t, err)
	require.Len(t, queue, 1)

	// ขั้นสองปฏิเสธ → จบ และหายจากทุกคิว
	got, err = f.engine.DecideAsSecondLevel(ctx, f.peerIdent(), rec.ID, models.DecisionRejected, "ชนตารางสอบ")
	require.NoError(t, err)
	assert.Equal(t, models.OverallRejected, got.OverallStatus)

	queue, err = f.engine.ListPendingSecondLevel(ctx, f.peerIdent())
	require.NoError(t, err)
	assert.Empty(t, queue)
	assigned, err = f.engine.ListAssignedToMe(ctx, f.advisorIdent())
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestConcurrentAdvisorDecision(t *testing.T) {
	f := newFixture(t)
	rec := f.mustCreate(t)

	// สองคำตัดสินชนกันบนคำขอเดียว — conditional update ต้องให้ผ่านแค่หนึ่ง
	decisions := []string{models.DecisionApproved, models.DecisionRejected}
	errs := make([]error, len(decisions))
	var wg sync.WaitGroup
	for i, d := range decisions {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			_, errs[i] = f.engine.DecideAsAdvisor(context.Background(), f.advisorIdent(), rec.ID, d, "")
		}(i, d)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrInvalidState):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	// สถานะสุดท้ายต้อง derive ตรงกับผลที่ชนะ
	got, err := f.engine.store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeriveOverallStatus(got.AdvisorDecision, got.SecondLevelDecision), got.OverallStatus)
	assert.NotEqual(t, models.DecisionPending, got.AdvisorDecision)
}
