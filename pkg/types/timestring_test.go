package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:30")
	require.NoError(t, err)
	require.Equal(t, "10:30", ts.String())

	for _, invalid := range []string{"", "25:00", "10:61", "1030", "10:30:00", "abc"} {
		_, err := NewTimeStringFromString(invalid)
		require.ErrorIs(t, err, ErrInvalidTimeString, "input %q", invalid)
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:30")
	minutes, err := ts.Minutes()
	require.NoError(t, err)
	require.Equal(t, 630, minutes)

	midnight := TimeString("00:00")
	minutes, err = midnight.Minutes()
	require.NoError(t, err)
	require.Zero(t, minutes)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:30")

	result, err := ts.AddMinutes(45)
	require.NoError(t, err)
	require.Equal(t, TimeString("11:15"), result)

	// Переход через полночь запрещён
	late := TimeString("23:50")
	_, err = late.AddMinutes(30)
	require.ErrorIs(t, err, ErrInvalidTimeString)

	// Ровно полночь следующего дня тоже вне диапазона
	end := TimeString("23:00")
	_, err = end.AddMinutes(60)
	require.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Comparisons(t *testing.T) {
	require.True(t, TimeString("09:00").IsBefore("10:00"))
	require.False(t, TimeString("10:00").IsBefore("10:00"))
	require.True(t, TimeString("18:30").IsAfter("09:15"))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	instant, err := TimeString("14:45").OnDate(date)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 9, 10, 14, 45, 0, 0, time.UTC), instant)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// TIME колонки postgres приходят с секундами
	require.NoError(t, ts.Scan("10:30:00"))
	require.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("09:15:00")))
	require.Equal(t, TimeString("09:15"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 18, 0, 0, 0, time.UTC)))
	require.Equal(t, TimeString("18:00"), ts)

	require.NoError(t, ts.Scan(nil))
	require.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	value, err := TimeString("10:30").Value()
	require.NoError(t, err)
	require.Equal(t, "10:30", value)

	value, err = TimeString("").Value()
	require.NoError(t, err)
	require.Nil(t, value)
}
