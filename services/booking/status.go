package booking

import "carrent/models"

// calendarTransitions lists the status moves allowed for a booking's calendar status.
// Terminal statuses have no entry.
var calendarTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusActive: {
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusOverdue,
		models.StatusRejected,
	},
	models.StatusOverdue: {
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusRejected,
	},
}

// reviewTransitions is the administrative review annotation, independent of the calendar.
var reviewTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:  {models.StatusApproved, models.StatusRejected},
	models.StatusApproved: {models.StatusPending},
}

func canTransition(table map[models.BookingStatus][]models.BookingStatus, from, to models.BookingStatus) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether the calendar status may move from one state to another.
func CanTransition(from, to models.BookingStatus) bool {
	return canTransition(calendarTransitions, from, to)
}

// CanReview reports whether the review annotation may move from one state to another.
func CanReview(from, to models.BookingStatus) bool {
	return canTransition(reviewTransitions, from, to)
}
