package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

type AdvisorHandler struct{}

func NewAdvisorHandler() *AdvisorHandler { return &AdvisorHandler{} }

type assignAdvisorPayload struct {
	StudentID uint   `json:"student_id"`
	TeacherID uint   `json:"teacher_id"`
	Note      string `json:"note"`
}

// POST /admin/advisor-assignments — ตั้ง/เปลี่ยนที่ปรึกษาของนักศึกษา
// แถวเก่าถูกปิด (active=false) แล้วเพิ่มแถวใหม่ — คำขอลาที่เปิดอยู่ไม่ถูกแตะ (advisor ผูกไว้ตอนสร้างคำขอ)
func (h *AdvisorHandler) Assign(c echo.Context) error {
	var p assignAdvisorPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if p.StudentID == 0 || p.TeacherID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}

	// ทั้งสองฝั่งต้องมีอยู่จริง
	var stu models.Student
	if err := database.DB.First(&stu, "id = ?", p.StudentID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"student_id": "ไม่พบนักศึกษา"}})
	}
	var tch models.Teacher
	if err := database.DB.First(&tch, "id = ?", p.TeacherID).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"teacher_id": "ไม่พบอาจารย์"}})
	}

	var rec models.AdvisorAssignment
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AdvisorAssignment{}).
			Where("student_id = ? AND active = ?", p.StudentID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		rec = models.AdvisorAssignment{
			StudentID:  p.StudentID,
			TeacherID:  p.TeacherID,
			Active:     true,
			AssignedAt: time.Now(),
			Note:       strings.TrimSpace(p.Note),
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /admin/advisor-assignments?studentId=
func (h *AdvisorHandler) List(c echo.Context) error {
	studentID := strings.TrimSpace(c.QueryParam("studentId"))
	tx := database.DB.Model(&models.AdvisorAssignment{})
	if studentID != "" {
		tx = tx.Where("student_id = ?", studentID)
	}
	var rows []models.AdvisorAssignment
	if err := tx.Order("assigned_at DESC, id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /student/advisor — ที่ปรึกษาปัจจุบันของผู้เรียก
func (h *AdvisorHandler) MyAdvisor(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}

	var a models.AdvisorAssignment
	err := database.DB.
		Where("student_id = ? AND active = ?", ident.ID, true).
		Order("assigned_at DESC, id DESC").
		First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// ยังไม่เลือกที่ปรึกษา — ฝั่ง FE ใช้เคสนี้พาไปหน้าเลือกที่ปรึกษาก่อนยื่นคำขอลา
			return c.JSON(http.StatusNotFound, map[string]string{"error": "ADVISOR_NOT_ASSIGNED"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var t models.Teacher
	if err := database.DB.First(&t, "id = ?", a.TeacherID).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"assignment": a,
		"advisor": map[string]any{
			"id":     t.ID,
			"name":   strings.TrimSpace(t.Prefix + " " + t.FirstName + " " + t.LastName),
			"branch": t.Branch,
			"email":  t.Email,
		},
	})
}

// GET /teacher/advisees — นักศึกษาในความดูแลของผู้เรียก
func (h *AdvisorHandler) MyAdvisees(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}

	var rows []models.AdvisorAssignment
	if err := database.DB.
		Where("teacher_id = ? AND active = ?", ident.ID, true).
		Order("assigned_at DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusOK, []models.Student{})
	}

	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentID)
	}
	var students []models.Student
	if err := database.DB.Where("id IN ?", ids).Order("id ASC").Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, students)
}

// helper สำหรับ handler อื่น — id นักศึกษาจาก query param (teacher/admin ดูข้อมูลรายคน)
func studentIDParam(c echo.Context) (uint, bool) {
	s := strings.TrimSpace(c.QueryParam("studentId"))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}
