package domain

import "time"

// NotificationCategory selects the message sent to a reactivated user.
type NotificationCategory string

const (
	CategoryIncorrectBirthYear NotificationCategory = "INCORRECT_BIRTH_YEAR"
	CategoryTeenager           NotificationCategory = "TEENAGER"
	CategoryAdult              NotificationCategory = "ADULT"
)

const (
	minimumAge = 12
	adulthood  = 18
)

// ClassifyAge maps a birthday to a notification category relative to now.
// Thresholds are midnight of the shifted birthday in now's location.
func ClassifyAge(now time.Time, birthday time.Time) NotificationCategory {
	if now.Before(addYears(birthday, minimumAge, now.Location())) {
		return CategoryIncorrectBirthYear
	}
	if !now.Before(addYears(birthday, adulthood, now.Location())) {
		return CategoryAdult
	}
	return CategoryTeenager
}

// addYears shifts a calendar date by n years. Feb 29 clamps to Feb 28 when
// the target year is not a leap year.
func addYears(date time.Time, n int, loc *time.Location) time.Time {
	year, month, day := date.Date()
	year += n
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
