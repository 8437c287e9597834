package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveWorkingWindow(t *testing.T) {
	openHours := BusinessHours{DayOfWeek: 1, IsOpen: true, OpenTime: "10:00", CloseTime: "19:00"}
	closedHours := BusinessHours{DayOfWeek: 0, IsOpen: false}

	t.Run("business hours when no stylist entry", func(t *testing.T) {
		window := ResolveWorkingWindow(openHours, nil)

		require.True(t, window.Open)
		require.Equal(t, "10:00", window.Start.String())
		require.Equal(t, "19:00", window.End.String())
	})

	t.Run("closed business without stylist entry", func(t *testing.T) {
		window := ResolveWorkingWindow(closedHours, nil)
		require.False(t, window.Open)
	})

	t.Run("stylist entry replaces business hours", func(t *testing.T) {
		entry := &ScheduleEntry{IsWorking: true, StartTime: "12:00", EndTime: "16:00"}
		window := ResolveWorkingWindow(openHours, entry)

		require.True(t, window.Open)
		require.Equal(t, "12:00", window.Start.String(), "stylist window must replace, not intersect")
		require.Equal(t, "16:00", window.End.String())
	})

	t.Run("stylist works while business closed", func(t *testing.T) {
		entry := &ScheduleEntry{IsWorking: true, StartTime: "09:00", EndTime: "13:00"}
		window := ResolveWorkingWindow(closedHours, entry)

		require.True(t, window.Open, "stylist schedule overrides a closed business day")
	})

	t.Run("non-working stylist day closes open business", func(t *testing.T) {
		entry := &ScheduleEntry{IsWorking: false}
		window := ResolveWorkingWindow(openHours, entry)

		require.False(t, window.Open)
	})
}

func TestBusiness_HoursForDay(t *testing.T) {
	business := &Business{
		Hours: []BusinessHours{
			{DayOfWeek: 1, IsOpen: true, OpenTime: "09:00", CloseTime: "18:00"},
		},
	}

	hours := business.HoursForDay(time.Monday)
	require.True(t, hours.IsOpen)

	hours = business.HoursForDay(time.Sunday)
	require.False(t, hours.IsOpen, "a missing entry means closed")
}

func TestDefaultSchedule(t *testing.T) {
	schedule := DefaultSchedule()
	require.Len(t, schedule, 7)

	for _, entry := range schedule {
		if entry.DayOfWeek == int(time.Sunday) {
			require.False(t, entry.IsWorking)
			continue
		}
		require.True(t, entry.IsWorking)
		require.Equal(t, "09:00", entry.StartTime.String())
		require.Equal(t, "18:00", entry.EndTime.String())
	}
}
