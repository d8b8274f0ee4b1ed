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

type TeacherHandler struct{}

func NewTeacherHandler() *TeacherHandler { return &TeacherHandler{} }

var (
	tchReCode  = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)
	tchReEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type teacherPayload struct {
	TeacherCode string `json:"teacher_code"`
	Prefix      string `json:"prefix"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Branch      string `json:"branch"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
}

func (p *teacherPayload) normalize() {
	trim := func(s string) string { return strings.TrimSpace(s) }
	p.TeacherCode = trim(p.TeacherCode)
	p.Prefix = trim(p.Prefix)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Branch = strings.ToUpper(trim(p.Branch))
	p.Email = strings.ToLower(trim(p.Email))
	p.Phone = trim(p.Phone)
	p.Position = trim(p.Position)
}

func validateTeacher(p *teacherPayload) map[string]string {
	errs := map[string]string{}
	if !tchReCode.MatchString(p.TeacherCode) {
		errs["teacher_code"] = "รหัสอาจารย์ไม่ถูกต้อง"
	}
	if p.FirstName == "" {
		errs["first_name"] = "กรุณากรอกชื่อ"
	}
	if p.LastName == "" {
		errs["last_name"] = "กรุณากรอกนามสกุล"
	}
	if !stuReBranch.MatchString(p.Branch) {
		errs["branch"] = "สาขาต้องเป็นรหัสตัวพิมพ์ใหญ่ เช่น CSE"
	} else {
		var cnt int64
		database.DB.Model(&models.Branch{}).Where("code = ?", p.Branch).Count(&cnt)
		if cnt == 0 {
			errs["branch"] = "ไม่พบสาขานี้"
		}
	}
	if !tchReEmail.MatchString(p.Email) {
		errs["email"] = "อีเมลไม่ถูกต้อง"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *TeacherHandler) List(c echo.Context) error {
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

	var items []models.Teacher
	tx := database.DB.Model(&models.Teacher{})
	if q != "" {
		like := "%" + q + "%"
		tx = tx.Where("teacher_code ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", like, like, like)
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
	return c.JSON(http.StatusOK, map[string]any{"data": items, "page": page, "size": size, "total": total})
}

func (h *TeacherHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var t models.Teacher
	if err := database.DB.First(&t, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TeacherHandler) Create(c echo.Context) error {
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateTeacher(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	t := models.Teacher{
		TeacherCode: p.TeacherCode, Prefix: p.Prefix,
		FirstName: p.FirstName, LastName: p.LastName,
		Branch: p.Branch, Email: p.Email, Phone: p.Phone, Position: p.Position,
	}
	if err := database.DB.Create(&t).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TeacherHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var existing models.Teacher
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateTeacher(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	existing.TeacherCode = p.TeacherCode
	existing.Prefix = p.Prefix
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Branch = p.Branch
	existing.Email = p.Email
	existing.Phone = p.Phone
	existing.Position = p.Position

	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

func (h *TeacherHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := database.DB.Delete(&models.Teacher{}, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
