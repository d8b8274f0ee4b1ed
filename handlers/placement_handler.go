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

type PlacementHandler struct{}

func NewPlacementHandler() *PlacementHandler { return &PlacementHandler{} }

type placementPayload struct {
	Company   string `json:"company"`
	RoleTitle string `json:"role_title"`
	Package   string `json:"package"`
	OfferDate string `json:"offer_date"`
}

func (p *placementPayload) normalize() {
	p.Company = strings.TrimSpace(p.Company)
	p.RoleTitle = strings.TrimSpace(p.RoleTitle)
	p.Package = strings.TrimSpace(p.Package)
	p.OfferDate = strings.TrimSpace(p.OfferDate)
}

func validatePlacement(p *placementPayload) map[string]string {
	errs := map[string]string{}
	if p.Company == "" {
		errs["company"] = "กรุณากรอกชื่อบริษัท"
	}
	if p.RoleTitle == "" {
		errs["role_title"] = "กรุณากรอกตำแหน่งงาน"
	}
	if p.OfferDate != "" {
		if _, err := time.Parse("2006-01-02", p.OfferDate); err != nil {
			errs["offer_date"] = "วันที่ต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *PlacementHandler) List(c echo.Context) error {
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
	var rows []models.Placement
	if err := database.DB.Where("student_id = ?", owner).Order("id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *PlacementHandler) Create(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var p placementPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validatePlacement(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec := models.Placement{
		StudentID: ident.ID,
		Company:   p.Company, RoleTitle: p.RoleTitle,
		Package: p.Package, OfferDate: p.OfferDate,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *PlacementHandler) Update(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Placement
	if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if rec.StudentID != ident.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	var p placementPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validatePlacement(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	rec.Company = p.Company
	rec.RoleTitle = p.RoleTitle
	rec.Package = p.Package
	rec.OfferDate = p.OfferDate
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *PlacementHandler) Delete(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Placement
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
