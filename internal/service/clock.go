package service

import "time"

// NextWeeklyTarget computes the next occurrence of weekday at hour:minute
// after now, in now's location. The result is always strictly in the
// future: a target that already passed today rolls over seven days. It is
// recomputed from the wall clock after every firing, so restarts and DST
// shifts cannot drift the schedule.
func NextWeeklyTarget(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	target := time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 7)
	}
	return target
}
