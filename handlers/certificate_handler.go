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

type CertificateHandler struct{}

func NewCertificateHandler() *CertificateHandler { return &CertificateHandler{} }

type certificatePayload struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	IssuedOn    string `json:"issued_on"` // YYYY-MM-DD หรือว่าง
	DocumentRef string `json:"document_ref"`
}

func (p *certificatePayload) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Issuer = strings.TrimSpace(p.Issuer)
	p.IssuedOn = strings.TrimSpace(p.IssuedOn)
	p.DocumentRef = strings.TrimSpace(p.DocumentRef)
}

func validateCertificate(p *certificatePayload) map[string]string {
	errs := map[string]string{}
	if p.Title == "" {
		errs["title"] = "กรุณากรอกชื่อใบรับรอง"
	}
	if p.Issuer == "" {
		errs["issuer"] = "กรุณากรอกหน่วยงานที่ออกให้"
	}
	if p.IssuedOn != "" {
		if _, err := time.Parse("2006-01-02", p.IssuedOn); err != nil {
			errs["issued_on"] = "วันที่ต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /student/certificates (ของตัวเอง) | GET /teacher/records/certificates?studentId= (ดูรายคน)
func (h *CertificateHandler) List(c echo.Context) error {
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

	var rows []models.Certificate
	if err := database.DB.Where("student_id = ?", owner).Order("id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /student/certificates
func (h *CertificateHandler) Create(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var p certificatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateCertificate(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec := models.Certificate{
		StudentID: ident.ID,
		Title:     p.Title, Issuer: p.Issuer,
		IssuedOn: p.IssuedOn, DocumentRef: p.DocumentRef,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /student/certificates/:id — เจ้าของเท่านั้น
func (h *CertificateHandler) Update(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Certificate
	if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if rec.StudentID != ident.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	var p certificatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateCertificate(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec.Title = p.Title
	rec.Issuer = p.Issuer
	rec.IssuedOn = p.IssuedOn
	rec.DocumentRef = p.DocumentRef
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /student/certificates/:id — เจ้าของเท่านั้น
func (h *CertificateHandler) Delete(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Certificate
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
