package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

// sub = students.id / teachers.id ตาม role — engine ใช้ id พวกนี้ตรง ๆ
// admin ไม่มีแถวใน roster → ใช้ users.id
func (h *AuthHandler) signJWT(sub uint, role, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/login — บัญชีเดียวกันทุก role (admin/teacher/student)
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var u models.User
	if err := database.DB.Where("username = ?", username).First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	sub := u.ID
	if u.Role != "admin" {
		if u.PersonID == 0 {
			// บัญชียังไม่ผูกกับ roster — login ไม่ได้จนกว่า admin จะผูกให้
			return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "ACCOUNT_NOT_LINKED"})
		}
		sub = u.PersonID
	}

	token, err := h.signJWT(sub, u.Role, u.Name, 7*24*time.Hour)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": sub, "role": u.Role, "username": u.Username, "name": u.Name},
	})
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// PUT /profile/password — ทุก role เปลี่ยนรหัสผ่านตัวเอง
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}

	var req ChangePasswordReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if strings.TrimSpace(req.NewPassword) == "" || len(req.NewPassword) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "PASSWORD_TOO_SHORT"})
	}

	// หา user ตาม identity — admin ผูกกับ users.id ตรง ๆ, ที่เหลือผ่าน person_id
	var u models.User
	q := database.DB
	if ident.Role == "admin" {
		q = q.Where("id = ? AND role = ?", ident.ID, "admin")
	} else {
		q = q.Where("person_id = ? AND role = ?", ident.ID, ident.Role)
	}
	if err := q.First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err := database.DB.Model(&u).Update("password", string(hash)).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_UPDATE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
