package handlers

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

// -----------------------------
// Handler & ctor
// -----------------------------

type AccountHandler struct{}

func NewAccountHandler() *AccountHandler { return &AccountHandler{} }

// -----------------------------
// Request/Response payloads
// -----------------------------

type createAccountReq struct {
	Role     string `json:"role"` // "teacher" | "student"
	PersonID uint   `json:"person_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountDTO struct {
	ID       uint   `json:"id"`
	Role     string `json:"role"`
	PersonID uint   `json:"person_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// -----------------------------
// Helpers
// -----------------------------

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func randomPassword(n int) string {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz0123456789"
	if n < 8 {
		n = 8
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}

// ชื่อจาก roster ตาม role — ใช้เป็น display name ของบัญชี
func personName(role string, personID uint) (string, bool) {
	switch role {
	case "teacher":
		var t models.Teacher
		if err := database.DB.First(&t, "id = ?", personID).Error; err != nil {
			return "", false
		}
		return strings.TrimSpace(t.Prefix + " " + t.FirstName + " " + t.LastName), true
	case "student":
		var s models.Student
		if err := database.DB.First(&s, "id = ?", personID).Error; err != nil {
			return "", false
		}
		return strings.TrimSpace(s.Prefix + " " + s.FirstName + " " + s.LastName), true
	default:
		return "", false
	}
}

// -----------------------------
// List accounts
// GET /admin/accounts?role=
// -----------------------------

func (h *AccountHandler) List(c echo.Context) error {
	role := strings.TrimSpace(c.QueryParam("role"))
	q := database.DB.Where("username <> ''")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Order("updated_at desc").Find(&users).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}

	out := make([]accountDTO, 0, len(users))
	for _, u := range users {
		out = append(out, accountDTO{ID: u.ID, Role: u.Role, PersonID: u.PersonID, Username: u.Username, Name: u.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// -----------------------------
// Create account
// POST /admin/accounts
// body: { role, person_id, username, password }
// -----------------------------

func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	req.Username = strings.TrimSpace(req.Username)
	if (req.Role != "teacher" && req.Role != "student") || req.PersonID == 0 || req.Username == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "MISSING_FIELDS"})
	}

	name, ok := personName(req.Role, req.PersonID)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "PERSON_NOT_FOUND"})
	}

	// หนึ่งคนมีได้บัญชีเดียว + username ห้ามซ้ำ
	var cnt int64
	database.DB.Model(&models.User{}).Where("role = ? AND person_id = ?", req.Role, req.PersonID).Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ACCOUNT_EXISTS"})
	}
	database.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&cnt)
	if cnt > 0 {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USERNAME_TAKEN"})
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	u := models.User{
		Username: req.Username,
		Password: hash,
		Role:     req.Role,
		Name:     name,
		PersonID: req.PersonID,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, accountDTO{ID: u.ID, Role: u.Role, PersonID: u.PersonID, Username: u.Username, Name: u.Name})
}

// -----------------------------
// Reset password
// POST /admin/accounts/:id/reset-password → คืน one_time_password
// -----------------------------

func (h *AccountHandler) ResetPassword(c echo.Context) error {
	id := c.Param("id")
	var u models.User
	if err := database.DB.First(&u, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	if u.Role == "admin" {
		// ห้าม reset บัญชี admin ผ่านเส้นทางนี้
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	}

	plain := randomPassword(10)
	hash, err := hashPassword(plain)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	if err := database.DB.Model(&u).Update("password", hash).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "DB_ERROR"})
	}
	return c.JSON(http.StatusOK, map[string]any{"one_time_password": plain})
}
