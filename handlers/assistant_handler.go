package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/models"
)

// ผู้ช่วยตอบคำถามแบบ keyword matching — ไม่มี ML, แค่ rule ตายตัว
// intent แบบ dynamic (สถานะคำขอ, ที่ปรึกษา) จะ query ข้อมูลจริงของผู้ถาม
type AssistantHandler struct{}

func NewAssistantHandler() *AssistantHandler { return &AssistantHandler{} }

type chatReq struct {
	Message string `json:"message"`
}

type chatResp struct {
	Reply string `json:"reply"`
}

// intent แบบ static — ตอบได้เลยไม่ต้องแตะ DB
var staticIntents = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"ลากิจ", "duty leave", "ขอลา", "ยื่นคำขอ"},
		reply:    "ยื่นคำขอลากิจได้ที่เมนู Duty Leave → New Request กรอกชื่องาน สถานที่ วันที่ และเหตุผล คำขอจะถูกส่งให้อาจารย์ที่ปรึกษาพิจารณาก่อน จากนั้นจึงส่งต่อให้อาจารย์ในสาขาอนุมัติขั้นสุดท้าย",
	},
	{
		keywords: []string{"รหัสผ่าน", "password", "เปลี่ยนรหัส"},
		reply:    "เปลี่ยนรหัสผ่านได้ที่เมนู Profile → Change Password (ต้องกรอกรหัสเดิมและรหัสใหม่อย่างน้อย 6 ตัวอักษร) ถ้าลืมรหัสผ่านให้ติดต่อผู้ดูแลระบบเพื่อขอ reset",
	},
	{
		keywords: []string{"ใบรับรอง", "certificate", "เกียรติบัตร"},
		reply:    "อัปโหลดและจัดการใบรับรองได้ที่เมนู Records → Certificates ระบุชื่อใบรับรอง หน่วยงานที่ออกให้ และวันที่ได้รับ",
	},
	{
		keywords: []string{"อบรม", "training"},
		reply:    "บันทึกประวัติการอบรมได้ที่เมนู Records → Trainings ระบุชื่อการอบรม หน่วยงานที่จัด และช่วงวันที่",
	},
	{
		keywords: []string{"โปรเจกต์", "project", "ผลงาน"},
		reply:    "เพิ่มผลงานโปรเจกต์ได้ที่เมนู Records → Projects ระบุชื่อ คำอธิบาย เทคโนโลยีที่ใช้ และลิงก์ repository",
	},
	{
		keywords: []string{"ฝึกงาน", "placement", "งานที่ได้"},
		reply:    "บันทึกข้อมูลการได้งาน/ฝึกงานได้ที่เมนู Records → Placements ระบุชื่อบริษัท ตำแหน่ง และวันที่ได้รับ offer",
	},
	{
		keywords: []string{"วิจัย", "research", "บทความ", "paper"},
		reply:    "เพิ่มผลงานตีพิมพ์ได้ที่เมนู Records → Research ระบุชื่อบทความ วารสาร/งานประชุม และ DOI ถ้ามี",
	},
}

const fallbackReply = "ขอโทษครับ ยังตอบคำถามนี้ไม่ได้ ลองถามเกี่ยวกับ: การลากิจ, สถานะคำขอ, อาจารย์ที่ปรึกษา, รหัสผ่าน หรือการบันทึกผลงาน"

// คำอธิบายสถานะรวมเป็นภาษาคน
func describeStatus(s string) string {
	switch s {
	case models.OverallPending:
		return "รออาจารย์ที่ปรึกษาพิจารณา"
	case models.OverallAdvisorApproved:
		return "ที่ปรึกษาอนุมัติแล้ว รอการอนุมัติขั้นสุดท้ายจากอาจารย์ในสาขา"
	case models.OverallFullyApproved:
		return "อนุมัติครบทุกขั้นแล้ว"
	case models.OverallRejected:
		return "ถูกปฏิเสธ"
	default:
		return s
	}
}

func matchAny(msg string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(msg, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// POST /assistant/chat
func (h *AssistantHandler) Chat(c echo.Context) error {
	ident, ok := identityFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "UNAUTHORIZED"})
	}
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	msg := strings.ToLower(strings.TrimSpace(req.Message))
	if msg == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "EMPTY_MESSAGE"})
	}

	// dynamic intent มาก่อน static — "สถานะคำขอลากิจ" ต้องได้คำตอบจริง ไม่ใช่วิธีใช้
	if ident.Role == "student" {
		if matchAny(msg, []string{"สถานะ", "status", "ถึงไหน", "อนุมัติหรือยัง"}) {
			return c.JSON(http.StatusOK, chatResp{Reply: h.latestRequestStatus(ident.ID)})
		}
		if matchAny(msg, []string{"ที่ปรึกษา", "advisor", "อาจารย์ของ"}) {
			return c.JSON(http.StatusOK, chatResp{Reply: h.advisorAnswer(ident.ID)})
		}
	}

	for _, intent := range staticIntents {
		if matchAny(msg, intent.keywords) {
			return c.JSON(http.StatusOK, chatResp{Reply: intent.reply})
		}
	}
	return c.JSON(http.StatusOK, chatResp{Reply: fallbackReply})
}

func (h *AssistantHandler) latestRequestStatus(studentID uint) string {
	var rec models.DutyLeaveRequest
	err := database.DB.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return "คุณยังไม่มีคำขอลากิจในระบบ ยื่นคำขอใหม่ได้ที่เมนู Duty Leave"
	}
	if err != nil {
		return "ขณะนี้ระบบดึงข้อมูลคำขอไม่ได้ กรุณาลองใหม่อีกครั้ง"
	}
	return fmt.Sprintf("คำขอล่าสุดของคุณ (%s — %s) สถานะ: %s", rec.ReferenceCode, rec.EventName, describeStatus(rec.OverallStatus))
}

func (h *AssistantHandler) advisorAnswer(studentID uint) string {
	var asg models.AdvisorAssignment
	err := database.DB.Where("student_id = ? AND active = ?", studentID, true).
		Order("assigned_at DESC, id DESC").First(&asg).Error
	if err == gorm.ErrRecordNotFound {
		return "คุณยังไม่มีอาจารย์ที่ปรึกษา กรุณาติดต่อผู้ดูแลระบบเพื่อขอให้กำหนดที่ปรึกษาก่อนยื่นคำขอลากิจ"
	}
	if err != nil {
		return "ขณะนี้ระบบดึงข้อมูลที่ปรึกษาไม่ได้ กรุณาลองใหม่อีกครั้ง"
	}
	var t models.Teacher
	if err := database.DB.First(&t, "id = ?", asg.TeacherID).Error; err != nil {
		return "ขณะนี้ระบบดึงข้อมูลที่ปรึกษาไม่ได้ กรุณาลองใหม่อีกครั้ง"
	}
	name := strings.TrimSpace(t.Prefix + " " + t.FirstName + " " + t.LastName)
	return fmt.Sprintf("อาจารย์ที่ปรึกษาของคุณคือ %s (สาขา %s)", name, t.Branch)
}
