package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentdesk/SDPortal/database"
)

// GET /healthz — ใช้กับ readiness probe
func Health(c echo.Context) error {
	sqlDB, err := database.DB.DB()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "down", "error": "DB_HANDLE"})
	}
	if err := sqlDB.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "down", "error": "DB_PING"})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ok"})
}
