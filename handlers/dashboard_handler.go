package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

// สรุปตัวเลขหน้าแรกตาม role ของผู้เรียก
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

func countWhere(model any, query string, args ...any) (int64, error) {
	var n int64
	err := database.DB.Model(model).Where(query, args...).Count(&n).Error
	return n, err
}

func countAll(model any) (int64, error) {
	var n int64
	err := database.DB.Model(model).Count(&n).Error
	return n, err
}

// GET /dashboard — เนื้อหาต่างกันตาม role
func (h *DashboardHandler) Summary(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	switch ident.Role {
	case "student":
		return h.studentSummary(c, ident.ID)
	case "teacher":
		return h.teacherSummary(c, ident.ID)
	case "admin":
		return h.adminSummary(c)
	default:
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}
}

func (h *DashboardHandler) studentSummary(c echo.Context, studentID uint) error {
	statuses := map[string]int64{}
	for _, s := range []string{models.OverallPending, models.OverallAdvisorApproved, models.OverallFullyApproved, models.OverallRejected} {
		n, err := countWhere(&models.DutyLeaveRequest{}, "student_id = ? AND overall_status = ?", studentID, s)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
		}
		statuses[s] = n
	}
	certs, _ := countWhere(&models.Certificate{}, "student_id = ?", studentID)
	trainings, _ := countWhere(&models.Training{}, "student_id = ?", studentID)
	projects, _ := countWhere(&models.Project{}, "student_id = ?", studentID)
	return c.JSON(http.StatusOK, map[string]any{
		"duty_leaves":  statuses,
		"certificates": certs,
		"trainings":    trainings,
		"projects":     projects,
	})
}

func (h *DashboardHandler) teacherSummary(c echo.Context, teacherID uint) error {
	// คิวที่รอการตัดสินของอาจารย์คนนี้ในฐานะที่ปรึกษา
	advisorPending, err := countWhere(&models.DutyLeaveRequest{},
		"advisor_id = ? AND advisor_decision = ?", teacherID, models.DecisionPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	// คิวขั้นสองของสาขาที่อาจารย์สังกัด (นับตามสาขาของนักศึกษาเจ้าของคำขอ)
	var t models.Teacher
	if err := database.DB.First(&t, "id = ?", teacherID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var secondLevelQueue int64
	err = database.DB.Model(&models.DutyLeaveRequest{}).
		Joins("JOIN students ON students.id = duty_leave_requests.student_id").
		Where("duty_leave_requests.second_level_decision = ? AND students.branch = ?", models.DecisionPending, t.Branch).
		Count(&secondLevelQueue).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	advisees, _ := countWhere(&models.AdvisorAssignment{}, "teacher_id = ? AND active = ?", teacherID, true)
	return c.JSON(http.StatusOK, map[string]any{
		"advisor_pending":    advisorPending,
		"second_level_queue": secondLevelQueue,
		"advisees":           advisees,
	})
}

func (h *DashboardHandler) adminSummary(c echo.Context) error {
	students, err := countAll(&models.Student{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	teachers, _ := countAll(&models.Teacher{})
	branches, _ := countAll(&models.Branch{})
	requests, _ := countAll(&models.DutyLeaveRequest{})
	pending, _ := countWhere(&models.DutyLeaveRequest{}, "overall_status IN ?", []string{models.OverallPending, models.OverallAdvisorApproved})
	unassigned, _ := h.studentsWithoutAdvisor()
	return c.JSON(http.StatusOK, map[string]any{
		"students":                 students,
		"teachers":                 teachers,
		"branches":                 branches,
		"duty_leaves_total":        requests,
		"duty_leaves_in_flight":    pending,
		"students_without_advisor": unassigned,
	})
}

func (h *DashboardHandler) studentsWithoutAdvisor() (int64, error) {
	var n int64
	err := database.DB.Model(&models.Student{}).
		Where("id NOT IN (?)", database.DB.Model(&models.AdvisorAssignment{}).
			Select("student_id").Where("active = ?", true)).
		Count(&n).Error
	return n, err
}
