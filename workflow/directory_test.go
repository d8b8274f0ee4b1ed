package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentdesk/SDPortal/models"
)

func TestAdvisorForStudentLatestActiveWins(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	st := models.Student{StudentID: "65010020", FirstName: "ทดสอบ", LastName: "ระบบ", Branch: "CSE", Year: 2, Status: "active"}
	require.NoError(t, db.Create(&st).Error)

	_, err := dir.AdvisorForStudent(ctx, st.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Now()
	// แถวเก่าถูกปิดแล้ว
	require.NoError(t, db.Create(&models.AdvisorAssignment{
		StudentID: st.ID, TeacherID: 10, Active: false, AssignedAt: base.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.AdvisorAssignment{
		StudentID: st.ID, TeacherID: 20, Active: true, AssignedAt: base,
	}).Error)

	got, err := dir.AdvisorForStudent(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(20), got)
}

func TestIsSecondLevelApproverFor(t *testing.T) {
	db := newTestDB(t)
	dir := NewGormDirectory(db)
	ctx := context.Background()

	st := models.Student{StudentID: "65010030", FirstName: "น", LastName: "ศ", Branch: "CSE", Year: 1, Status: "active"}
	same := models.Teacher{TeacherCode: "T010", FirstName: "ส", LastName: "ม", Branch: "CSE", Email: "t010@example.ac.th"}
	diff := models.Teacher{TeacherCode: "T011", FirstName: "ต", LastName: "ส", Branch: "ECE", Email: "t011@example.ac.th"}
	require.NoError(t, db.Create(&st).Error)
	require.NoError(t, db.Create(&same).Error)
	require.NoError(t, db.Create(&diff).Error)

	ok, err := dir.IsSecondLevelApproverFor(ctx, same.ID, st.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.IsSecondLevelApproverFor(ctx, diff.ID, st.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// id ที่ไม่อยู่ใน roster → ไม่มีสิทธิ์ แต่ไม่ error
	ok, err = dir.IsSecondLevelApproverFor(ctx, 99999, st.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = dir.IsSecondLevelApproverFor(ctx, same.ID, 99999)
	require.NoError(t, err)
	assert.False(t, ok)
}
