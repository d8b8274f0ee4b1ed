package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studentdesk/SDPortal/workflow"
)

type DutyLeaveHandler struct {
	Engine *workflow.Engine
}

func NewDutyLeaveHandler(engine *workflow.Engine) *DutyLeaveHandler {
	return &DutyLeaveHandler{Engine: engine}
}

// แปลง error ของ engine → HTTP status
// retryable มีแค่ STORE_UNAVAILABLE (503) — ที่เหลือจบที่ call นั้น
func workflowError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	case errors.Is(err, workflow.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
	case errors.Is(err, workflow.ErrInvalidState):
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	case errors.Is(err, workflow.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_ARGUMENT"})
	case errors.Is(err, workflow.ErrPrerequisiteMissing):
		// ต้องเลือกที่ปรึกษาก่อน — ไม่ใช่ payload พัง เลยไม่ใช่ 400
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"error": "ADVISOR_NOT_ASSIGNED"})
	case errors.Is(err, workflow.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"error": "STORE_UNAVAILABLE", "retryable": true})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
}

// POST /student/duty-leaves
func (h *DutyLeaveHandler) Create(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var in workflow.CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	rec, err := h.Engine.Create(c.Request().Context(), ident, in)
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type decisionReq struct {
	Decision string `json:"decision"` // "Approved" | "Rejected"
	Remarks  string `json:"remarks"`
}

// PUT /teacher/duty-leaves/:id/advisor-decision
func (h *DutyLeaveHandler) DecideAsAdvisor(c echo.Context) error {
	return h.decide(c, workflow.StageAdvisor)
}

// PUT /teacher/duty-leaves/:id/second-level-decision
func (h *DutyLeaveHandler) DecideAsSecondLevel(c echo.Context) error {
	return h.decide(c, workflow.StageSecondLevel)
}

func (h *DutyLeaveHandler) decide(c echo.Context, stage workflow.Stage) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	id := uint(atoiOr(c.Param("id"), 0))
	if id == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	ctx := c.Request().Context()
	if stage == workflow.StageAdvisor {
		rec, err := h.Engine.DecideAsAdvisor(ctx, ident, id, req.Decision, req.Remarks)
		if err != nil {
			return workflowError(c, err)
		}
		return c.JSON(http.StatusOK, rec)
	}
	rec, err := h.Engine.DecideAsSecondLevel(ctx, ident, id, req.Decision, req.Remarks)
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// GET /student/duty-leaves
func (h *DutyLeaveHandler) ListMine(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	rows, err := h.Engine.ListMine(c.Request().Context(), ident)
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /teacher/duty-leaves/assigned — คิวขั้น advisor ของผู้เรียก
func (h *DutyLeaveHandler) ListAssignedToMe(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	rows, err := h.Engine.ListAssignedToMe(c.Request().Context(), ident)
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /teacher/duty-leaves/second-level — คิวขั้นสองของสาขาผู้เรียก
func (h *DutyLeaveHandler) ListPendingSecondLevel(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	rows, err := h.Engine.ListPendingSecondLevel(c.Request().Context(), ident)
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/duty-leaves — อ่านอย่างเดียว ไม่มี write path ฝั่ง admin
func (h *DutyLeaveHandler) ListAll(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	rows, err := h.Engine.ListAll(c.Request().Context(), ident)
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
