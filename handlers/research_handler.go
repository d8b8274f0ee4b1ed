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

type ResearchHandler struct{}

func NewResearchHandler() *ResearchHandler { return &ResearchHandler{} }

type researchPayload struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	PublishedOn string `json:"published_on"`
	DOI         string `json:"doi"`
	DocumentRef string `json:"document_ref"`
}

func (p *researchPayload) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Venue = strings.TrimSpace(p.Venue)
	p.PublishedOn = strings.TrimSpace(p.PublishedOn)
	p.DOI = strings.TrimSpace(p.DOI)
	p.DocumentRef = strings.TrimSpace(p.DocumentRef)
}

func validateResearch(p *researchPayload) map[string]string {
	errs := map[string]string{}
	if p.Title == "" {
		errs["title"] = "กรุณากรอกชื่อบทความ"
	}
	if p.PublishedOn != "" {
		if _, err := time.Parse("2006-01-02", p.PublishedOn); err != nil {
			errs["published_on"] = "วันที่ต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *ResearchHandler) List(c echo.Context) error {
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
	var rows []models.ResearchPaper
	if err := database.DB.Where("student_id = ?", owner).Order("id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ResearchHandler) Create(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var p researchPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateResearch(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec := models.ResearchPaper{
		StudentID: ident.ID,
		Title:     p.Title, Venue: p.Venue,
		PublishedOn: p.PublishedOn, DOI: p.DOI, DocumentRef: p.DocumentRef,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *ResearchHandler) Update(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.ResearchPaper
	if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if rec.StudentID != ident.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	var p researchPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateResearch(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec.Title = p.Title
	rec.Venue = p.Venue
	rec.PublishedOn = p.PublishedOn
	rec.DOI = p.DOI
	rec.DocumentRef = p.DocumentRef
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ResearchHandler) Delete(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.ResearchPaper
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
