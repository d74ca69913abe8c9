package service

import (
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
)

const dateLayout = "2006-01-02"

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// mondayOf normalizes any date to the Monday of its week.
func mondayOf(t time.Time) time.Time {
	day := truncateToDay(t)
	daysSinceMonday := int(day.Weekday())
	if daysSinceMonday == 0 {
		daysSinceMonday = 6
	} else {
		daysSinceMonday--
	}
	return day.AddDate(0, 0, -daysSinceMonday)
}

// buildWeek lays out 7 Monday-first slots. A slot carries the first check-in
// of its day for display; extra same-day check-ins only affect the total.
func buildWeek(monday time.Time, events []model.CheckinEvent, goal int) *dto.WeeklyAggregate {
	firstByDay := make(map[string]*model.CheckinEvent, len(events))
	for i := range events {
		key := truncateToDay(events[i].Date).Format(dateLayout)
		if _, ok := firstByDay[key]; !ok {
			firstByDay[key] = &events[i]
		}
	}

	week := &dto.WeeklyAggregate{
		WeekStart:     monday.Format(dateLayout),
		WeekEnd:       monday.AddDate(0, 0, 6).Format(dateLayout),
		Days:          make([]dto.WeekDay, 0, 7),
		TotalCheckIns: len(events),
		Goal:          goal,
	}

	for i := 0; i < 7; i++ {
		date := monday.AddDate(0, 0, i).Format(dateLayout)
		day := dto.WeekDay{Date: date}
		if event, ok := firstByDay[date]; ok {
			day.HasCheckIn = true
			day.CheckIn = toCheckinResponse(event)
		}
		week.Days = append(week.Days, day)
	}

	return week
}

// computeStreaks walks distinct check-in dates, newest first. A day without a
// check-in ends the current run, except that today itself may still be
// pending. Dates after today are ignored.
func computeStreaks(datesDesc []time.Time, today time.Time) (current, longest int) {
	days := make([]time.Time, 0, len(datesDesc))
	for _, d := range datesDesc {
		day := truncateToDay(d)
		if day.After(today) {
			continue
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return 0, 0
	}

	cursor := today
	if !days[0].Equal(today) {
		// Today is pending, the streak may still continue from yesterday
		cursor = today.AddDate(0, 0, -1)
	}
	for _, day := range days {
		if !day.Equal(cursor) {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}

	longest = 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}

	return current, longest
}

func toCheckinResponse(event *model.CheckinEvent) *dto.CheckinResponse {
	return &dto.CheckinResponse{
		ID:        event.ID,
		ActorID:   event.ActorID,
		PlanID:    event.PlanID,
		Date:      truncateToDay(event.Date).Format(dateLayout),
		Comment:   event.Comment,
		Feedback:  event.Feedback,
		CreatedAt: event.CreatedAt,
	}
}
