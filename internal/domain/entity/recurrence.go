package entity

// RepeatSchedule is the recurrence tag stored on an appointment. It is a
// label only; nothing expands it into future occurrences.
type RepeatSchedule string

const (
	RepeatNone    RepeatSchedule = "none"
	RepeatWeekly  RepeatSchedule = "weekly"
	RepeatMonthly RepeatSchedule = "monthly"
)

// RepeatSchedules lists the permitted appointment tags.
func RepeatSchedules() []RepeatSchedule {
	return []RepeatSchedule{RepeatNone, RepeatWeekly, RepeatMonthly}
}

func (s RepeatSchedule) IsValid() bool {
	switch s {
	case RepeatNone, RepeatWeekly, RepeatMonthly:
		return true
	}
	return false
}

// RefillSchedule is the recurrence tag stored on a prescription. Unlike
// appointments there is no "none" option.
type RefillSchedule string

const (
	RefillWeekly    RefillSchedule = "weekly"
	RefillMonthly   RefillSchedule = "monthly"
	RefillQuarterly RefillSchedule = "quarterly"
)

// RefillSchedules lists the permitted prescription tags.
func RefillSchedules() []RefillSchedule {
	return []RefillSchedule{RefillWeekly, RefillMonthly, RefillQuarterly}
}

func (s RefillSchedule) IsValid() bool {
	switch s {
	case RefillWeekly, RefillMonthly, RefillQuarterly:
		return true
	}
	return false
}
