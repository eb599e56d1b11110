package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning time", input: "09:00", want: "09:00"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "end of day boundary", input: "24:00", want: "24:00"},
		{name: "missing leading zero", input: "9:00", wantErr: true},
		{name: "out of range hour", input: "25:00", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	mins, err := TimeString("10:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, mins)

	mins, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, mins)

	mins, err = TimeString("24:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 1440, mins)

	_, err = TimeString("bad").Minutes()
	require.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:00").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:45"), got)

	got, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	// Выход за пределы суток - ошибка, а не перенос на следующий день
	_, err = TimeString("23:30").AddMinutes(45)
	require.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("11:00").IsAfter("10:30"))
	assert.False(t, TimeString("10:30").IsAfter("10:30"))

	// Невалидные значения не паникуют и не считаются упорядоченными
	assert.False(t, TimeString("bad").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsAfter("bad"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("18:30")))
	assert.Equal(t, TimeString("18:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 7, 12, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("12:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	require.Error(t, err)
}
