package services

import (
	"strings"

	"github.com/rutkovskaya/habita/internal/models"
)

// Rule violation messages. Tests and API clients rely on the exact wording.
const (
	ViolationPleasantExtras    = "a pleasant habit cannot have a reward or a related habit"
	ViolationRewardAndRelated  = "cannot set both a reward and a related habit"
	ViolationRelatedNotFound   = "related habit not found"
	ViolationRelatedUnpleasant = "related habit must itself be a pleasant habit"
	ViolationDurationTooShort  = "duration must be at least 1 second"
	ViolationDurationTooLong   = "duration must not exceed 120 seconds"
	ViolationPeriodicityRange  = "periodicity must be between 1 and 7 days"
)

// HabitDraft is the fully merged field set of a proposed habit: for updates
// the caller merges existing and changed fields before validation. The
// related habit reference arrives already resolved so the pleasant flag can
// be checked without touching storage here.
type HabitDraft struct {
	Place        string
	TimeOfDay    string
	Action       string
	IsPleasant   bool
	Periodicity  int
	Reward       string
	Duration     int
	RelatedHabit *models.Habit
}

func (draft HabitDraft) hasReward() bool {
	return strings.TrimSpace(draft.Reward) != ""
}

// HabitValidationError aggregates every violated rule. Violations[0] is the
// primary message surfaced to clients.
type HabitValidationError struct {
	Violations []string
}

func (err *HabitValidationError) Error() string {
	return strings.Join(err.Violations, "; ")
}

func newHabitValidationError(violations ...string) *HabitValidationError {
	return &HabitValidationError{Violations: violations}
}

// ValidateHabitDraft checks every consistency rule and returns nil or a
// *HabitValidationError listing all violations. The rules are conjunctive and
// evaluated independently; the pleasant-habit rule runs before the
// reward/related exclusivity rule so the more specific message wins when a
// pleasant habit declares a reward.
func ValidateHabitDraft(draft HabitDraft) error {
	violations := make([]string, 0, 4)

	if draft.IsPleasant && (draft.hasReward() || draft.RelatedHabit != nil) {
		violations = append(violations, ViolationPleasantExtras)
	}

	if draft.RelatedHabit != nil && draft.hasReward() {
		violations = append(violations, ViolationRewardAndRelated)
	}

	if draft.RelatedHabit != nil && !draft.RelatedHabit.IsPleasant {
		violations = append(violations, ViolationRelatedUnpleasant)
	}

	if draft.Duration < models.MinDurationSeconds {
		violations = append(violations, ViolationDurationTooShort)
	} else if draft.Duration > models.MaxDurationSeconds {
		violations = append(violations, ViolationDurationTooLong)
	}

	if draft.Periodicity < models.MinPeriodicityDays || draft.Periodicity > models.MaxPeriodicityDays {
		violations = append(violations, ViolationPeriodicityRange)
	}

	if len(violations) == 0 {
		return nil
	}
	return &HabitValidationError{Violations: violations}
}
