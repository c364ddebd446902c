package coop

import (
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/cecscoop/portal/core/position"
	"github.com/cecscoop/portal/core/student"
)

func stdnt(gpa float64, startYear int, transfer bool) student.Student {
	return student.Student{
		ID:         "STU-2026-0001",
		Department: "CECS",
		GPA:        null.NewFloat64(gpa, gpa > 0),
		StartYear:  null.NewInt(startYear, startYear > 0),
		IsTransfer: transfer,
	}
}

func posn(weeks, hoursPerWeek, totalHours int) position.JobPosition {
	return position.JobPosition{
		ID:           "POS-2026-0001",
		Weeks:        weeks,
		HoursPerWeek: hoursPerWeek,
		TotalHours:   totalHours,
	}
}

func TestCheckEligibility(t *testing.T) {
	tests := []struct {
		name string
		std  student.Student
		pos  position.JobPosition
		want Eligibility
	}{
		{
			name: "all requirements met",
			std:  stdnt(3.5, 2023, false),
			pos:  posn(12, 20, 240),
			want: Eligibility{IsEligible: true, GPAOK: true, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "boundary values pass",
			std:  stdnt(2.0, 2024, false),
			pos:  posn(7, 20, 140),
			want: Eligibility{IsEligible: true, GPAOK: true, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "hours derived from weeks when total absent",
			std:  stdnt(3.0, 2023, false),
			pos:  posn(7, 20, 0), // 7 * 20 = 140
			want: Eligibility{IsEligible: true, GPAOK: true, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "gpa below minimum",
			std:  stdnt(1.9, 2023, false),
			pos:  posn(12, 20, 240),
			want: Eligibility{GPAOK: false, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "missing gpa fails the gpa check",
			std:  stdnt(0, 2023, false),
			pos:  posn(12, 20, 240),
			want: Eligibility{GPAOK: false, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "too few weeks",
			std:  stdnt(3.0, 2023, false),
			pos:  posn(6, 40, 240),
			want: Eligibility{GPAOK: true, WeeksOK: false, HoursOK: true, SemestersOK: true},
		},
		{
			name: "too few hours",
			std:  stdnt(3.0, 2023, false),
			pos:  posn(7, 10, 0), // 7 * 10 = 70
			want: Eligibility{GPAOK: true, WeeksOK: true, HoursOK: false, SemestersOK: true},
		},
		{
			name: "stored total hours preferred over derived",
			std:  stdnt(3.0, 2023, false),
			pos:  posn(7, 10, 150), // derived 70 would fail
			want: Eligibility{IsEligible: true, GPAOK: true, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "missing start year fails the semesters check",
			std:  stdnt(3.0, 0, false),
			pos:  posn(12, 20, 240),
			want: Eligibility{GPAOK: true, WeeksOK: true, HoursOK: true, SemestersOK: false},
		},
		{
			name: "transfer student with start year passes",
			std:  stdnt(3.0, 2024, true),
			pos:  posn(12, 20, 240),
			want: Eligibility{IsEligible: true, GPAOK: true, WeeksOK: true, HoursOK: true, SemestersOK: true},
		},
		{
			name: "everything fails",
			std:  stdnt(0, 0, false),
			pos:  posn(0, 0, 0),
			want: Eligibility{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckEligibility(tt.std, tt.pos)
			if got != tt.want {
				t.Errorf("CheckEligibility() = %+v, want %+v", got, tt.want)
			}

			// the overall verdict is always the AND of the sub-checks
			wantVerdict := got.GPAOK && got.WeeksOK && got.HoursOK && got.SemestersOK
			if got.IsEligible != wantVerdict {
				t.Errorf("IsEligible = %v, want AND of sub-checks %v", got.IsEligible, wantVerdict)
			}

			// pure function: same inputs, same verdict
			if again := CheckEligibility(tt.std, tt.pos); again != got {
				t.Errorf("CheckEligibility() not deterministic: %+v != %+v", again, got)
			}
		})
	}
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name string
		pos  position.JobPosition
		want int
	}{
		{name: "stored total wins", pos: posn(7, 20, 300), want: 300},
		{name: "derived when absent", pos: posn(7, 20, 0), want: 140},
		{name: "zero all around", pos: posn(0, 0, 0), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalHours(tt.pos); got != tt.want {
				t.Errorf("TotalHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyFor(t *testing.T) {
	if _, ok := PolicyFor(stdnt(3, 2023, true)).(TransferPolicy); !ok {
		t.Error("PolicyFor() transfer student: want TransferPolicy")
	}
	if _, ok := PolicyFor(stdnt(3, 2023, false)).(StandardPolicy); !ok {
		t.Error("PolicyFor() regular student: want StandardPolicy")
	}
}
