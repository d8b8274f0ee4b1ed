package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

type ProjectHandler struct{}

func NewProjectHandler() *ProjectHandler { return &ProjectHandler{} }

type projectPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TechStack   string `json:"tech_stack"`
	RepoURL     string `json:"repo_url"`
}

func (p *projectPayload) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.TechStack = strings.TrimSpace(p.TechStack)
	p.RepoURL = strings.TrimSpace(p.RepoURL)
}

func (h *ProjectHandler) List(c echo.Context) error {
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
	var rows []models.Project
	if err := database.DB.Where("student_id = ?", owner).Order("id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ProjectHandler) Create(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var p projectPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if p.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"title": "กรุณากรอกชื่อโปรเจกต์"}})
	}

	rec := models.Project{
		StudentID:   ident.ID,
		Title:       p.Title,
		Description: p.Description,
		TechStack:   p.TechStack,
		RepoURL:     p.RepoURL,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *ProjectHandler) Update(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Project
	if err := database.DB.First(&rec, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if rec.StudentID != ident.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	}

	var p projectPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if p.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": map[string]string{"title": "กรุณากรอกชื่อโปรเจกต์"}})
	}

	rec.Title = p.Title
	rec.Description = p.Description
	rec.TechStack = p.TechStack
	rec.RepoURL = p.RepoURL
	if err := database.DB.Save(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *ProjectHandler) Delete(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := c.Param("id")
	var rec models.Project
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
