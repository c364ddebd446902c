package coop

import (
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{StatusPending, StatusSelected, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusWithdrawn, true},
		{StatusSelected, StatusRejected, false},
		{StatusSelected, StatusWithdrawn, false},
		{StatusSelected, StatusPending, false},
		{StatusRejected, StatusSelected, false},
		{StatusWithdrawn, StatusPending, false},
		{StatusWithdrawn, StatusSelected, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestApplicationTransition(t *testing.T) {
	app := Application{Status: StatusPending}
	if err := app.transition(StatusSelected); err != nil {
		t.Fatalf("transition() error = %v", err)
	}
	if app.Status != StatusSelected {
		t.Errorf("Status = %q, want %q", app.Status, StatusSelected)
	}

	err := app.transition(StatusWithdrawn)
	trErr, ok := err.(*InvalidTransitionError)
	if !ok {
		t.Fatalf("transition() error = %v, want *InvalidTransitionError", err)
	}
	if trErr.From != StatusSelected || trErr.To != StatusWithdrawn {
		t.Errorf("InvalidTransitionError = %+v", trErr)
	}
	if app.Status != StatusSelected {
		t.Errorf("Status changed on failed transition: %q", app.Status)
	}
}

func TestCoopRecordSaveSummary(t *testing.T) {
	rec := CoopRecord{SummaryStatus: SummaryDraft, EmployerApproval: ApprovalPending}

	// drafts stay editable
	if err := rec.saveSummary("first draft", false); err != nil {
		t.Fatalf("saveSummary() error = %v", err)
	}
	if rec.SummaryStatus != SummaryDraft || rec.SummaryText.String != "first draft" {
		t.Errorf("record = %+v", rec)
	}
	if err := rec.saveSummary("final text", true); err != nil {
		t.Fatalf("saveSummary(submit) error = %v", err)
	}
	if rec.SummaryStatus != SummarySubmitted {
		t.Errorf("SummaryStatus = %q, want %q", rec.SummaryStatus, SummarySubmitted)
	}

	// submission is one-way; the summary locks
	if err := rec.saveSummary("sneaky edit", false); err == nil {
		t.Error("saveSummary() after submit: want error")
	}
	if rec.SummaryText.String != "final text" {
		t.Errorf("SummaryText = %q, want %q", rec.SummaryText.String, "final text")
	}
}

func TestCoopRecordReview(t *testing.T) {
	t.Run("requires submitted summary", func(t *testing.T) {
		rec := CoopRecord{SummaryStatus: SummaryDraft, EmployerApproval: ApprovalPending}
		if err := rec.review(ApprovalApproved); err == nil {
			t.Error("review() on draft: want error")
		}
	})

	t.Run("decisions are terminal", func(t *testing.T) {
		rec := CoopRecord{SummaryStatus: SummarySubmitted, EmployerApproval: ApprovalPending}
		if err := rec.review(ApprovalApproved); err != nil {
			t.Fatalf("review() error = %v", err)
		}
		if rec.EmployerApproval != ApprovalApproved {
			t.Errorf("EmployerApproval = %q, want %q", rec.EmployerApproval, ApprovalApproved)
		}
		if err := rec.review(ApprovalRejected); err == nil {
			t.Error("review() after decision: want error")
		}
	})
}
