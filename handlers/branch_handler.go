package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

type BranchHandler struct{}

func NewBranchHandler() *BranchHandler { return &BranchHandler{} }

// GET /branches — ใช้ทั้งหน้า setup และ dropdown ใน FE
func (h *BranchHandler) List(c echo.Context) error {
	var rows []models.Branch
	if err := database.DB.Order("code ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

type branchPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// POST /admin/branches
func (h *BranchHandler) Create(c echo.Context) error {
	var p branchPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.TrimSpace(p.Name)
	if !stuReBranch.MatchString(p.Code) || p.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}

	var cnt int64
	database.DB.Model(&models.Branch{}).Where("code = ?", p.Code).Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "BRANCH_EXISTS"})
	}

	b := models.Branch{Code: p.Code, Name: p.Name}
	if err := database.DB.Create(&b).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, b)
}

// DELETE /admin/branches/:id
func (h *BranchHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	// กันลบสาขาที่ยังมีคนสังกัด
	var b models.Branch
	if err := database.DB.First(&b, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	var inUse int64
	database.DB.Model(&models.Student{}).Where("branch = ?", b.Code).Count(&inUse)
	if inUse == 0 {
		database.DB.Model(&models.Teacher{}).Where("branch = ?", b.Code).Count(&inUse)
	}
	if inUse > 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "BRANCH_IN_USE"})
	}

	if err := database.DB.Delete(&models.Branch{}, "id = ?", id).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
