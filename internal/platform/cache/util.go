package cache

import (
	"time"
)

// TimeUntilNextSync は loc における次の銘柄同期時刻（平日 hour:minute）までの期間を返します。
// 土日は翌月曜まで進めます。
func TimeUntilNextSync(now time.Time, loc *time.Location, hour, minute int) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
