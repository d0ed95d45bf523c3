package services

import (
	"errors"
	"testing"

	"github.com/rutkovskaya/habita/internal/models"
)

func validUsefulDraft() HabitDraft {
	return HabitDraft{
		Place:       "park",
		TimeOfDay:   "07:30",
		Action:      "morning run",
		Periodicity: 1,
		Reward:      "smoothie",
		Duration:    60,
	}
}

func pleasantHabit() *models.Habit {
	return &models.Habit{ID: 42, Action: "read comics", IsPleasant: true}
}

func firstViolation(t *testing.T, err error) string {
	t.Helper()
	var validationErr *HabitValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *HabitValidationError, got %v", err)
	}
	if len(validationErr.Violations) == 0 {
		t.Fatal("expected at least one violation")
	}
	return validationErr.Violations[0]
}

func TestValidateHabitDraftAcceptsValidUsefulHabit(t *testing.T) {
	if err := ValidateHabitDraft(validUsefulDraft()); err != nil {
		t.Fatalf("expected valid draft, got %v", err)
	}
}

func TestValidateHabitDraftAcceptsValidPleasantHabit(t *testing.T) {
	draft := validUsefulDraft()
	draft.IsPleasant = true
	draft.Reward = ""
	if err := ValidateHabitDraft(draft); err != nil {
		t.Fatalf("expected valid pleasant draft, got %v", err)
	}
}

func TestValidateHabitDraftRejectsRewardAndRelatedTogether(t *testing.T) {
	draft := validUsefulDraft()
	draft.RelatedHabit = pleasantHabit()
	err := ValidateHabitDraft(draft)
	if got := firstViolation(t, err); got != ViolationRewardAndRelated {
		t.Fatalf("expected %q first, got %q", ViolationRewardAndRelated, got)
	}
}

func TestValidateHabitDraftEmptyRewardCountsAsAbsent(t *testing.T) {
	draft := validUsefulDraft()
	draft.Reward = "   "
	draft.RelatedHabit = pleasantHabit()
	if err := ValidateHabitDraft(draft); err != nil {
		t.Fatalf("whitespace reward should count as absent, got %v", err)
	}
}

func TestValidateHabitDraftRejectsUnpleasantRelatedHabit(t *testing.T) {
	draft := validUsefulDraft()
	draft.Reward = ""
	draft.RelatedHabit = &models.Habit{ID: 7, Action: "more work", IsPleasant: false}
	err := ValidateHabitDraft(draft)
	if got := firstViolation(t, err); got != ViolationRelatedUnpleasant {
		t.Fatalf("expected %q, got %q", ViolationRelatedUnpleasant, got)
	}
}

func TestValidateHabitDraftPleasantWithRewardReportsPleasantRuleFirst(t *testing.T) {
	draft := validUsefulDraft()
	draft.IsPleasant = true
	draft.RelatedHabit = pleasantHabit()
	err := ValidateHabitDraft(draft)
	if got := firstViolation(t, err); got != ViolationPleasantExtras {
		t.Fatalf("expected the pleasant-habit rule reported first, got %q", got)
	}

	var validationErr *HabitValidationError
	errors.As(err, &validationErr)
	if len(validationErr.Violations) < 2 {
		t.Fatalf("expected aggregated violations, got %v", validationErr.Violations)
	}
}

func TestValidateHabitDraftPleasantWithOnlyRelatedHabit(t *testing.T) {
	draft := validUsefulDraft()
	draft.IsPleasant = true
	draft.Reward = ""
	draft.RelatedHabit = pleasantHabit()
	err := ValidateHabitDraft(draft)
	if got := firstViolation(t, err); got != ViolationPleasantExtras {
		t.Fatalf("expected %q, got %q", ViolationPleasantExtras, got)
	}
}

func TestValidateHabitDraftDurationBoundaries(t *testing.T) {
	cases := []struct {
		duration int
		want     string
	}{
		{duration: 0, want: ViolationDurationTooShort},
		{duration: 1, want: ""},
		{duration: 120, want: ""},
		{duration: 121, want: ViolationDurationTooLong},
	}
	for _, tc := range cases {
		draft := validUsefulDraft()
		draft.Duration = tc.duration
		err := ValidateHabitDraft(draft)
		if tc.want == "" {
			if err != nil {
				t.Fatalf("duration %d: expected accepted, got %v", tc.duration, err)
			}
			continue
		}
		if got := firstViolation(t, err); got != tc.want {
			t.Fatalf("duration %d: expected %q, got %q", tc.duration, tc.want, got)
		}
	}
}

func TestValidateHabitDraftPeriodicityBoundaries(t *testing.T) {
	cases := []struct {
		periodicity int
		accepted    bool
	}{
		{periodicity: 0, accepted: false},
		{periodicity: 1, accepted: true},
		{periodicity: 7, accepted: true},
		{periodicity: 8, accepted: false},
	}
	for _, tc := range cases {
		draft := validUsefulDraft()
		draft.Periodicity = tc.periodicity
		err := ValidateHabitDraft(draft)
		if tc.accepted && err != nil {
			t.Fatalf("periodicity %d: expected accepted, got %v", tc.periodicity, err)
		}
		if !tc.accepted {
			if got := firstViolation(t, err); got != ViolationPeriodicityRange {
				t.Fatalf("periodicity %d: expected %q, got %q", tc.periodicity, ViolationPeriodicityRange, got)
			}
		}
	}
}
