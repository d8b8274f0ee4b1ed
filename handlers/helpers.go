package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studentdesk/SDPortal/workflow"
)

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// อ่าน identity จาก context ที่ JWT middleware แนบไว้
func identityFromContext(c echo.Context) (workflow.Identity, bool) {
	uid, ok := c.Get("user_id").(uint)
	role, _ := c.Get("role").(string)
	if !ok || uid == 0 || role == "" {
		return workflow.Identity{}, false
	}
	return workflow.Identity{ID: uid, Role: role}, true
}
