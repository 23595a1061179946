package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{59.9, "0:59"},
		{60, "1:00"},
		{222, "3:42"},
		{3601, "60:01"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatSeconds(tt.seconds))
		})
	}
}

func TestPlayableEntriesFrom(t *testing.T) {
	list := NewEntryList([]Entry{
		NewDirectory(".."),
		NewDirectory("/m/sub"),
		NewPlayable("/m/a.mp3"),
		NewPlayable("/m/b.mp3"),
	})

	assert.Len(t, playableEntriesFrom(list, 0), 2)
	assert.Len(t, playableEntriesFrom(list, 2), 2)
	assert.Len(t, playableEntriesFrom(list, 3), 1)
	assert.Empty(t, playableEntriesFrom(list, 4))

	// A negative start behaves like starting from the beginning.
	assert.Len(t, playableEntriesFrom(list, -1), 2)
}
