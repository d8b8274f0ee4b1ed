package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chat(t *testing.T, h *AssistantHandler, id uint, role, message string) string {
	t.Helper()
	body, err := json.Marshal(chatReq{Message: message})
	require.NoError(t, err)
	c, rec := newAuthedContext(t, http.MethodPost, "/assistant/chat", string(body), id, role)
	require.NoError(t, h.Chat(c))
	requireStatus(t, rec, http.StatusOK)
	var resp chatResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Reply
}

func TestAssistantStaticIntents(t *testing.T) {
	setupTestDB(t)
	h := NewAssistantHandler()

	reply := chat(t, h, 1, "student", "ขอลากิจต้องทำยังไง")
	assert.Contains(t, reply, "Duty Leave")

	reply = chat(t, h, 1, "student", "อยากเปลี่ยน password")
	assert.Contains(t, reply, "Change Password")

	// ไม่เข้า intent ไหนเลย → fallback
	reply = chat(t, h, 1, "student", "วันนี้อากาศเป็นยังไง")
	assert.Equal(t, fallbackReply, reply)
}

func TestAssistantStatusAnswer(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoster(t, db)
	h := NewAssistantHandler()

	// ยังไม่เคยยื่นคำขอ
	reply := chat(t, h, f.student.ID, "student", "คำขอของฉันสถานะเป็นยังไง")
	assert.Contains(t, reply, "ยังไม่มีคำขอ")

	// มีคำขอแล้ว — ต้องตอบ reference code และสถานะจริง
	dl := NewDutyLeaveHandler(newWorkflowEngine(db))
	c, rec := newAuthedContext(t, http.MethodPost, "/student/duty-leaves", createBody, f.student.ID, "student")
	require.NoError(t, dl.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	reply = chat(t, h, f.student.ID, "student", "สถานะคำขอล่าสุด")
	assert.Contains(t, reply, "DL-")
	assert.Contains(t, reply, "รออาจารย์ที่ปรึกษา")
}

func TestAssistantAdvisorAnswer(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoster(t, db)
	h := NewAssistantHandler()

	reply := chat(t, h, f.student.ID, "student", "อาจารย์ที่ปรึกษาของฉันคือใคร")
	assert.Contains(t, reply, f.advisor.FirstName)
	assert.Contains(t, reply, "CSE")

	// นักศึกษาที่ยังไม่มีที่ปรึกษา
	reply = chat(t, h, 99999, "student", "ที่ปรึกษาของฉันคือใคร")
	assert.Contains(t, reply, "ยังไม่มีอาจารย์ที่ปรึกษา")
}

func TestAssistantRejectsEmptyMessage(t *testing.T) {
	setupTestDB(t)
	h := NewAssistantHandler()
	c, rec := newAuthedContext(t, http.MethodPost, "/assistant/chat", `{"message":"  "}`, 1, "student")
	require.NoError(t, h.Chat(c))
	requireStatus(t, rec, http.StatusBadRequest)
}
