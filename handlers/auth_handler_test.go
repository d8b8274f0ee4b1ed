package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studentdesk/SDPortal/models"
)

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoster(t, db)
	h := NewAuthHandler("test-secret")

	require.NoError(t, db.Create(&models.User{
		Username: "somchai", Password: mustHash(t, "password123"),
		Role: "student", Name: "สมชาย ใจดี", PersonID: f.student.ID,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		Username: "unlinked", Password: mustHash(t, "password123"),
		Role: "teacher", Name: "ยังไม่ผูก", PersonID: 0,
	}).Error)

	// login สำเร็จ — sub ใน response ต้องเป็น students.id ไม่ใช่ users.id
	c, rec := newAuthedContext(t, http.MethodPost, "/auth/login", `{"username":"somchai","password":"password123"}`, 0, "")
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusOK)
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   uint   `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, f.student.ID, resp.User.ID)
	assert.Equal(t, "student", resp.User.Role)

	// รหัสผ่านผิด
	c, _ = newAuthedContext(t, http.MethodPost, "/auth/login", `{"username":"somchai","password":"wrong"}`, 0, "")
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.Login(c)))

	// user ไม่มีจริง — ตอบเหมือนรหัสผิด ไม่เผยว่าบัญชีมีหรือไม่
	c, _ = newAuthedContext(t, http.MethodPost, "/auth/login", `{"username":"ghost","password":"x"}`, 0, "")
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.Login(c)))

	// บัญชีที่ยังไม่ผูกกับ roster
	c, _ = newAuthedContext(t, http.MethodPost, "/auth/login", `{"username":"unlinked","password":"password123"}`, 0, "")
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.Login(c)))

	// payload ไม่ครบ
	c, _ = newAuthedContext(t, http.MethodPost, "/auth/login", `{"username":"somchai"}`, 0, "")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, h.Login(c)))
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoster(t, db)
	h := NewAuthHandler("test-secret")

	require.NoError(t, db.Create(&models.User{
		Username: "somchai", Password: mustHash(t, "oldpass123"),
		Role: "student", Name: "สมชาย ใจดี", PersonID: f.student.ID,
	}).Error)

	// รหัสใหม่สั้นไป
	c, _ := newAuthedContext(t, http.MethodPut, "/profile/password", `{"old_password":"oldpass123","new_password":"abc"}`, f.student.ID, "student")
	assert.Equal(t, http.StatusBadRequest, httpCode(t, h.ChangePassword(c)))

	// รหัสเดิมผิด
	c, _ = newAuthedContext(t, http.MethodPut, "/profile/password", `{"old_password":"wrong","new_password":"newpass456"}`, f.student.ID, "student")
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.ChangePassword(c)))

	// เปลี่ยนสำเร็จ แล้ว login ด้วยรหัสใหม่ได้
	c, rec := newAuthedContext(t, http.MethodPut, "/profile/password", `{"old_password":"oldpass123","new_password":"newpass456"}`, f.student.ID, "student")
	require.NoError(t, h.ChangePassword(c))
	requireStatus(t, rec, http.StatusOK)

	c, rec = newAuthedContext(t, http.MethodPost, "/auth/login", `{"username":"somchai","password":"newpass456"}`, 0, "")
	require.NoError(t, h.Login(c))
	requireStatus(t, rec, http.StatusOK)
}
