package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/fitmentor/internal/dto"
	"anoa.com/fitmentor/internal/model"
	"anoa.com/fitmentor/internal/repository"
	"anoa.com/fitmentor/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"monday stays", "2026-08-24", "2026-08-24"},
		{"wednesday rolls back", "2026-08-26", "2026-08-24"},
		{"saturday rolls back", "2026-08-29", "2026-08-24"},
		{"sunday belongs to preceding monday", "2026-08-30", "2026-08-24"},
		{"next monday starts fresh", "2026-08-31", "2026-08-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mondayOf(day(tt.in))
			assert.Equal(t, tt.want, got.Format(dateLayout))
		})
	}
}

func TestComputeStreaks(t *testing.T) {
	today := day("2026-08-28") // a Friday

	tests := []struct {
		name        string
		datesDesc   []string
		wantCurrent int
		wantLongest int
	}{
		{"no check-ins", nil, 0, 0},
		{"only today", []string{"2026-08-28"}, 1, 1},
		{"run ending today", []string{"2026-08-28", "2026-08-27", "2026-08-26"}, 3, 3},
		{"today pending continues from yesterday", []string{"2026-08-27", "2026-08-26"}, 2, 2},
		{"gap before today breaks the run", []string{"2026-08-28", "2026-08-26", "2026-08-25", "2026-08-24"}, 1, 3},
		{"two day old streak is over", []string{"2026-08-25", "2026-08-24"}, 0, 2},
		{"future dates ignored", []string{"2026-09-01", "2026-08-28"}, 1, 1},
		{"longest lives in the past", []string{"2026-08-28", "2026-08-20", "2026-08-19", "2026-08-18", "2026-08-17"}, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := make([]time.Time, 0, len(tt.datesDesc))
			for _, d := range tt.datesDesc {
				dates = append(dates, day(d))
			}

			current, longest := computeStreaks(dates, today)
			assert.Equal(t, tt.wantCurrent, current, "current streak")
			assert.Equal(t, tt.wantLongest, longest, "longest streak")
		})
	}
}

func TestBuildWeekLaysOutSevenDays(t *testing.T) {
	monday := day("2026-08-24")
	actorID := uuid.New()

	events := []model.CheckinEvent{
		{ActorID: actorID, Date: day("2026-08-24")},
		{ActorID: actorID, Date: day("2026-08-24")}, // same-day duplicate
		{ActorID: actorID, Date: day("2026-08-26")},
	}

	week := buildWeek(monday, events, 5)

	require.Len(t, week.Days, 7)
	assert.Equal(t, "2026-08-24", week.WeekStart)
	assert.Equal(t, "2026-08-30", week.WeekEnd)
	assert.Equal(t, 3, week.TotalCheckIns)
	assert.Equal(t, 5, week.Goal)

	assert.True(t, week.Days[0].HasCheckIn)
	assert.False(t, week.Days[1].HasCheckIn)
	assert.True(t, week.Days[2].HasCheckIn)
	for i := 3; i < 7; i++ {
		assert.False(t, week.Days[i].HasCheckIn)
	}
}

func newCheckinFixture(t *testing.T, today string) (*gorm.DB, *model.User, *checkinService) {
	t.Helper()
	db := openTestDB(t)
	actor := newActor(t, db, model.RoleStudent)

	svc := NewCheckinService(repository.NewCheckinRepository(db), nil, 5).(*checkinService)
	svc.now = func() time.Time { return day(today).Add(10 * time.Hour) }
	return db, actor, svc
}

func TestCreateCheckinRejectsFutureDate(t *testing.T) {
	_, actor, svc := newCheckinFixture(t, "2026-08-28")

	_, err := svc.CreateCheckin(context.Background(), actor, dto.CreateCheckinRequest{Date: "2026-08-29"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.CreateCheckin(context.Background(), actor, dto.CreateCheckinRequest{Date: "not-a-date"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestStreakAcrossGap(t *testing.T) {
	_, actor, svc := newCheckinFixture(t, "2026-08-28") // Friday
	ctx := context.Background()

	// Monday through Wednesday, nothing Thursday, then today
	for _, d := range []string{"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-28"} {
		_, err := svc.CreateCheckin(ctx, actor, dto.CreateCheckinRequest{Date: d})
		require.NoError(t, err)
	}

	streak, err := svc.Streak(ctx, actor.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	require.NotNil(t, streak.LastCheckInDate)
	assert.Equal(t, "2026-08-28", *streak.LastCheckInDate)
}

func TestStreakCountsEachDayOnce(t *testing.T) {
	_, actor, svc := newCheckinFixture(t, "2026-08-28")
	ctx := context.Background()

	// Two check-ins on the same day still count as one streak day
	for _, d := range []string{"2026-08-27", "2026-08-28", "2026-08-28"} {
		_, err := svc.CreateCheckin(ctx, actor, dto.CreateCheckinRequest{Date: d})
		require.NoError(t, err)
	}

	streak, err := svc.Streak(ctx, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestWeekOfReturnsCheckinWeek(t *testing.T) {
	_, actor, svc := newCheckinFixture(t, "2026-08-28")
	ctx := context.Background()

	comment := "felt strong"
	_, err := svc.CreateCheckin(ctx, actor, dto.CreateCheckinRequest{Date: "2026-08-26", Comment: &comment})
	require.NoError(t, err)

	// Check-in from the previous week must not leak in
	_, err = svc.CreateCheckin(ctx, actor, dto.CreateCheckinRequest{Date: "2026-08-21"})
	require.NoError(t, err)

	week, err := svc.WeekOf(ctx, actor.ID, day("2026-08-28"))
	require.NoError(t, err)

	assert.Equal(t, "2026-08-24", week.WeekStart)
	assert.Equal(t, 1, week.TotalCheckIns)
	require.True(t, week.Days[2].HasCheckIn)
	require.NotNil(t, week.Days[2].CheckIn)
	assert.Equal(t, "felt strong", *week.Days[2].CheckIn.Comment)
}

func TestCreateCheckinFeedsAchievementCounter(t *testing.T) {
	db := openTestDB(t)
	seedDefinitions(t, db)
	actor := newActor(t, db, model.RoleStudent)

	achievements := NewAchievementService(repository.NewAchievementRepository(db))
	svc := NewCheckinService(repository.NewCheckinRepository(db), achievements, 5).(*checkinService)
	svc.now = func() time.Time { return day("2026-08-28") }

	_, err := svc.CreateCheckin(context.Background(), actor, dto.CreateCheckinRequest{Date: "2026-08-28"})
	require.NoError(t, err)

	progress, err := achievements.Progress(context.Background(), actor.ID)
	require.NoError(t, err)
	byCode := indexProgress(progress)
	assert.True(t, byCode["first_checkin"].Unlocked)
}
