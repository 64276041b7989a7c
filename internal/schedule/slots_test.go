package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsHalfOpenWindow(t *testing.T) {
	got := GenerateSlots([]Window{{Start: "09:00", End: "10:00"}}, nil)
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45"}, got)
}

func TestGenerateSlotsSubtractsBooked(t *testing.T) {
	got := GenerateSlots([]Window{{Start: "09:00", End: "10:00"}}, []string{"09:15"})
	assert.Equal(t, []string{"09:00", "09:30", "09:45"}, got)
}

func TestGenerateSlotsOverlappingWindowsAreUnioned(t *testing.T) {
	windows := []Window{
		{Start: "10:00", End: "11:00"},
		{Start: "09:30", End: "10:30"},
	}
	got := GenerateSlots(windows, nil)
	assert.Equal(t, []string{"09:30", "09:45", "10:00", "10:15", "10:30", "10:45"}, got)
}

func TestGenerateSlotsSkipsMalformedWindows(t *testing.T) {
	windows := []Window{
		{Start: "nine", End: "10:00"},
		{Start: "14:00", End: "13:00"},
		{Start: "15:00", End: "15:30:00"},
	}
	got := GenerateSlots(windows, []string{"garbage"})
	assert.Equal(t, []string{"15:00", "15:15"}, got)
}

func TestGenerateSlotsPartialTrailingStep(t *testing.T) {
	got := GenerateSlots([]Window{{Start: "08:50", End: "09:10"}}, nil)
	assert.Equal(t, []string{"08:50", "09:05"}, got)
}

func TestGenerateSlotsEmpty(t *testing.T) {
	assert.Empty(t, GenerateSlots(nil, nil))
	assert.Empty(t, GenerateSlots([]Window{{Start: "09:00", End: "09:15"}}, []string{"09:00:00"}))
}

func TestNormalizeSlot(t *testing.T) {
	s, err := NormalizeSlot("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", s)

	s, err = NormalizeSlot("17:30:00")
	require.NoError(t, err)
	assert.Equal(t, "17:30", s)

	_, err = NormalizeSlot("25:00")
	assert.Error(t, err)
}
