package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// ===== Validation rules =====
var (
	stuReStuID  = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)
	stuReName   = regexp.MustCompile(`^[ก-๙A-Za-z\s]{1,50}$`)
	stuReBranch = regexp.MustCompile(`^[A-Z]{2,10}$`)
	stuRePhone  = regexp.MustCompile(`^[0-9\- ]{0,15}$`)
)

type studentPayload struct {
	StudentID string `json:"student_id"`
	Prefix    string `json:"prefix"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Branch    string `json:"branch"`
	Year      int    `json:"year"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
}

func (p *studentPayload) normalize() {
	trim := func(s string) string { return strings.TrimSpace(s) }
	p.StudentID = trim(p.StudentID)
	p.Prefix = trim(p.Prefix)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Branch = strings.ToUpper(trim(p.Branch))
	p.Email = strings.ToLower(trim(p.Email))
	p.Phone = trim(p.Phone)
	p.Status = trim(p.Status)
}

func validateStudent(p *studentPayload) map[string]string {
	errs := map[string]string{}

	if p.StudentID == "" || !stuReStuID.MatchString(p.StudentID) {
		errs["student_id"] = "รหัสนักศึกษาไม่ถูกต้อง"
	}
	if p.FirstName == "" || !stuReName.MatchString(p.FirstName) {
		errs["first_name"] = "กรุณากรอกชื่อ"
	}
	if p.LastName == "" || !stuReName.MatchString(p.LastName) {
		errs["last_name"] = "กรุณากรอกนามสกุล"
	}
	if !stuReBranch.MatchString(p.Branch) {
		errs["branch"] = "สาขาต้องเป็นรหัสตัวพิมพ์ใหญ่ เช่น CSE"
	} else {
		// สาขาต้องมีอยู่จริงในตาราง branches
		var cnt int64
		database.DB.Model(&models.Branch{}).Where("code = ?", p.Branch).Count(&cnt)
		if cnt == 0 {
			errs["branch"] = "ไม่พบสาขานี้"
		}
	}
	if p.Year < 1 || p.Year > 4 {
		errs["year"] = "ชั้นปีต้องอยู่ระหว่าง 1–4"
	}
	if !stuRePhone.MatchString(p.Phone) {
		errs["phone"] = "รูปแบบเบอร์โทรไม่ถูกต้อง"
	}
	if strings.TrimSpace(p.Status) == "" {
		errs["status"] = "กรุณาเลือกสถานะ"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ===== Handlers =====

func (h *StudentHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	branch := strings.TrimSpace(c.QueryParam("branch"))
	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	size := 20
	if v, err := strconv.Atoi(c.QueryParam("size")); err == nil {
		if v < 1 {
			size = 1
		} else if v > 100 {
			size = 100
		} else {
			size = v
		}
	}

	var items []models.Student
	tx := database.DB.Model(&models.Student{})

	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("student_id ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
	}
	if branch != "" {
		tx = tx.Where("branch = ?", strings.ToUpper(branch))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_COUNT_FAILED"})
	}
	if err := tx.Order("id DESC").Limit(size).Offset((page - 1) * size).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data":  items,
		"page":  page,
		"size":  size,
		"total": total,
	})
}

func (h *StudentHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var s models.Student
	if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	s := models.Student{
		StudentID: p.StudentID, Prefix: p.Prefix,
		FirstName: p.FirstName, LastName: p.LastName,
		Branch: p.Branch, Year: p.Year,
		Email: p.Email, Phone: p.Phone, Status: p.Status,
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *StudentHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	existing.StudentID = p.StudentID
	existing.Prefix = p.Prefix
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Branch = p.Branch
	existing.Year = p.Year
	existing.Email = p.Email
	existing.Phone = p.Phone
	existing.Status = p.Status

	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

func (h *StudentHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := database.DB.Delete(&models.Student{}, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
