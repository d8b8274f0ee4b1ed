package handlers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
	"github.com/studentdesk/SDPortal/workflow"
)

// เซ็ต database.DB เป็น sqlite in-memory สำหรับ test แล้วคืนค่าเดิมตอนจบ
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

type rosterFixture struct {
	student models.Student
	advisor models.Teacher
	peer    models.Teacher
}

func seedRoster(t *testing.T, db *gorm.DB) rosterFixture {
	t.Helper()
	f := rosterFixture{
		student: models.Student{
			StudentID: "65010001", FirstName: "สมชาย", LastName: "ใจดี",
			Branch: "CSE", Year: 3, Status: "active",
		},
		advisor: models.Teacher{
			TeacherCode: "T001", Prefix: "ผศ.ดร.", FirstName: "วิชัย", LastName: "อาจารย์ดี",
			Branch: "CSE", Email: "wichai@example.ac.th",
		},
		peer: models.Teacher{
			TeacherCode: "T002", FirstName: "สมศรี", LastName: "วงศ์ใหญ่",
			Branch: "CSE", Email: "somsri@example.ac.th",
		},
	}
	require.NoError(t, db.Create(&f.student).Error)
	require.NoError(t, db.Create(&f.advisor).Error)
	require.NoError(t, db.Create(&f.peer).Error)
	require.NoError(t, db.Create(&models.AdvisorAssignment{
		StudentID: f.student.ID, TeacherID: f.advisor.ID,
		Active: true, AssignedAt: time.Now(),
	}).Error)
	return f
}

func newWorkflowEngine(db *gorm.DB) *workflow.Engine {
	return workflow.NewEngine(workflow.NewGormStore(db), workflow.NewGormDirectory(db))
}

// สร้าง echo context พร้อม identity ที่ middleware จะแนบไว้ใน flow จริง
func newAuthedContext(t *testing.T, method, path, body string, id uint, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", id)
	c.Set("role", role)
	c.Set("name", "test user")
	return c, rec
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
