package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

type TrainingHandler struct{}

func NewTrainingHandler() *TrainingHandler { return &TrainingHandler{} }

type trainingPayload struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DocumentRef  string `json:"document_ref"`
}

func (p *trainingPayload) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Organization = strings.TrimSpace(p.Organization)
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.DocumentRef = strings.TrimSpace(p.DocumentRef)
}

func validateTraining(p *trainingPayload) map[string]string {
	errs := map[string]string{}
	if p.Title == "" {
		errs["title"] = "กรุณากรอกชื่อการอบรม"
	}
	if p.Organization == "" {
		errs["organization"] = "กรุณากรอกหน่วยงานที่จัด"
	}
	var start, end time.Time
	var err error
	if p.StartDate != "" {
		if start, err = time.Parse("2006-01-02", p.StartDate); err != nil {
			errs["start_date"] = "วันที่ต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
		}
	}
	if p.EndDate != "" {
		if end, err = time.Parse("2006-01-02", p.EndDate); err != nil {
			errs["end_date"] = "วันที่ต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
		}
	}
	// ช่วงวันที่ต้องไม่กลับด้าน
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs["end_date"] = "วันจบต้องไม่ก่อนวันเริ่ม"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *TrainingHandler) List(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	owner := ident.ID
	if ident.Role != "student" {
		sid, ok := studentIDParam(c)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "MISSING_STUDENT_ID"})
		}
		owner = sid
	}
	var rows []models.Training
	if err := database.DB.Where("student_id = ?", owner).Order("id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *TrainingHandler) Create(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var p trainingPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateTraining(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec := models.Training{
		StudentID: ident.ID,
		Title:     p.Title, Organization: p.Organization,
		StartDate: p.StartDate, EndDate: p.EndDate, DocumentRef: p.DocumentRef,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *TrainingHandler) Update(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Training
	if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if rec.StudentID != ident.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	var p trainingPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateTraining(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec.Title = p.Title
	rec.Organization = p.Organization
	rec.StartDate = p.StartDate
	rec.EndDate = p.EndDate
	rec.DocumentRef = p.DocumentRef
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *TrainingHandler) Delete(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Training
	if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if rec.StudentID != ident.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}
	if err := database.DB.Delete(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
