package fee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sakshiyadav/vidya/core"
)

func TestSlip_HasBreakdown(t *testing.T) {
	org := core.OrgConfig{Name: "Vidya Coaching"}

	// bare tuition: total equals monthly, nothing to itemize
	bare := makeFee(GradeNursery, BoardState, 800, 0, 0, 0, 0)
	assert.False(t, NewSlip(org, bare, time.Now()).HasBreakdown())

	full := makeFee(GradeClass1, BoardState, 1000, 0, 150, 200, 150)
	assert.True(t, NewSlip(org, full, time.Now()).HasBreakdown())
}

func TestSlip_Filename(t *testing.T) {
	org := core.OrgConfig{Name: "Vidya Coaching"}

	tests := []struct {
		name  string
		grade Grade
		board Board
		want  string
	}{
		{"multi-word grade", GradeClass10, BoardCBSE, "Vidya_Coaching_Fee_Slip_Class_10_CBSE_Board.pdf"},
		{"single-word grade", GradeNursery, BoardState, "Vidya_Coaching_Fee_Slip_Nursery_State_Board.pdf"},
		{"icse", GradeClass5, BoardICSE, "Vidya_Coaching_Fee_Slip_Class_5_ICSE_Board.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlip(org, makeFee(tt.grade, tt.board, 1000, 0, 0, 0, 0), time.Now())
			assert.Equal(t, tt.want, s.Filename())
		})
	}
}

func TestSlip_IssueDate(t *testing.T) {
	issued := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
	s := NewSlip(core.OrgConfig{}, Fee{}, issued)
	assert.Equal(t, "07/03/2024", s.IssueDate())
}

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "Rs. 0"},
		{800, "Rs. 800"},
		{1700, "Rs. 1,700"},
		{45000, "Rs. 45,000"},
		{123456, "Rs. 1,23,456"},
		{1234567, "Rs. 12,34,567"},
		{12345678, "Rs. 1,23,45,678"},
		{-1700, "Rs. -1,700"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRupees(tt.amount))
		})
	}
}
