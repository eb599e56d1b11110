package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestOperatingWindow_Contains(t *testing.T) {
	window := &OperatingWindow{
		DayOfWeek:  time.Monday,
		StartTime:  "09:00",
		EndTime:    "17:00",
		BreakStart: ptr.Ptr(types.TimeString("12:00")),
		BreakEnd:   ptr.Ptr(types.TimeString("13:00")),
	}

	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		want  bool
	}{
		{name: "fits in the morning", start: "09:00", end: "10:00", want: true},
		{name: "ends exactly at break start", start: "11:00", end: "12:00", want: true},
		{name: "starts exactly at break end", start: "13:00", end: "14:00", want: true},
		{name: "crosses break start", start: "11:30", end: "12:30", want: false},
		{name: "inside break", start: "12:00", end: "12:30", want: false},
		{name: "crosses break end", start: "12:45", end: "13:45", want: false},
		{name: "before opening", start: "08:00", end: "09:00", want: false},
		{name: "ends exactly at closing", start: "16:00", end: "17:00", want: true},
		{name: "past closing", start: "16:30", end: "17:30", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Contains(tt.start, tt.end))
		})
	}
}

func TestOperatingWindow_Contains_NoBreak(t *testing.T) {
	window := &OperatingWindow{
		DayOfWeek: time.Tuesday,
		StartTime: "10:00",
		EndTime:   "18:00",
	}

	assert.True(t, window.Contains("12:00", "13:00"))
	assert.False(t, window.Contains("09:00", "10:30"))
}

func TestOperatingWindow_Contains_Closed(t *testing.T) {
	window := ClosedWindow(time.Saturday)
	assert.False(t, window.Contains("10:00", "11:00"))
	assert.False(t, window.HasBreak())
}
