package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayable(path, title string, artists []string, album string, duration time.Duration) *Playable {
	return &Playable{
		fullPath: path,
		title:    title,
		artists:  artists,
		album:    album,
		duration: duration,
	}
}

func TestToPlaybackQueueMiddleIndex(t *testing.T) {
	list := NewEntryList([]Entry{
		testPlayable("/m/a.mp3", "Alpha", []string{"X"}, "One", 3*time.Minute),
		testPlayable("/m/b.mp3", "Beta", []string{"Y"}, "Two", 4*time.Minute),
		testPlayable("/m/c.mp3", "Gamma", []string{"Z"}, "Three", 5*time.Minute),
	})

	queue := toPlaybackQueue(list, 1)

	require.NotNil(t, queue.CurrentlyPlaying)
	assert.Equal(t, "Beta", queue.CurrentlyPlaying.Name)
	assert.Equal(t, "Two", queue.CurrentlyPlaying.Album)
	assert.Equal(t, []string{"Y"}, queue.CurrentlyPlaying.Artists)
	assert.Equal(t, 4*time.Minute, queue.CurrentlyPlaying.Duration)

	require.Len(t, queue.Queue, 1)
	assert.Equal(t, "Gamma", queue.Queue[0].Name)
}

func TestToPlaybackQueueFirstIndex(t *testing.T) {
	list := NewEntryList([]Entry{
		testPlayable("/m/a.mp3", "Alpha", nil, "", 0),
		testPlayable("/m/b.mp3", "Beta", nil, "", 0),
		testPlayable("/m/c.mp3", "Gamma", nil, "", 0),
	})

	queue := toPlaybackQueue(list, 0)

	require.NotNil(t, queue.CurrentlyPlaying)
	assert.Equal(t, "Alpha", queue.CurrentlyPlaying.Name)
	assert.Equal(t, []string{"Beta", "Gamma"}, queueNames(queue.Queue))
}

func TestToPlaybackQueueLastIndex(t *testing.T) {
	list := NewEntryList([]Entry{
		testPlayable("/m/a.mp3", "Alpha", nil, "", 0),
		testPlayable("/m/b.mp3", "Beta", nil, "", 0),
	})

	queue := toPlaybackQueue(list, 1)

	require.NotNil(t, queue.CurrentlyPlaying)
	assert.Equal(t, "Beta", queue.CurrentlyPlaying.Name)
	assert.Empty(t, queue.Queue)
}

func TestToPlaybackQueueOutOfBounds(t *testing.T) {
	list := NewEntryList([]Entry{
		testPlayable("/m/a.mp3", "Alpha", nil, "", 0),
		testPlayable("/m/b.mp3", "Beta", nil, "", 0),
		testPlayable("/m/c.mp3", "Gamma", nil, "", 0),
	})

	queue := toPlaybackQueue(list, 10)

	assert.Nil(t, queue.CurrentlyPlaying)
	assert.Empty(t, queue.Queue)
}

func TestToPlaybackQueueNegativeIndex(t *testing.T) {
	list := NewEntryList([]Entry{
		testPlayable("/m/a.mp3", "Alpha", nil, "", 0),
		testPlayable("/m/b.mp3", "Beta", nil, "", 0),
	})

	queue := toPlaybackQueue(list, -1)

	// Nothing is playing, but the whole list still queues up forward.
	assert.Nil(t, queue.CurrentlyPlaying)
	assert.Equal(t, []string{"Alpha", "Beta"}, queueNames(queue.Queue))
}

func TestToPlaybackQueueEmptyList(t *testing.T) {
	queue := toPlaybackQueue(NewEntryList(nil), 0)

	assert.Nil(t, queue.CurrentlyPlaying)
	assert.Empty(t, queue.Queue)
}

func TestToPlaybackQueueDropsDirectories(t *testing.T) {
	list := NewEntryList([]Entry{
		NewDirectory(".."),
		testPlayable("/m/a.mp3", "Alpha", nil, "", 0),
		NewDirectory("/m/sub"),
		testPlayable("/m/b.mp3", "Beta", nil, "", 0),
	})

	// A directory at the current index has no playable projection.
	queue := toPlaybackQueue(list, 0)
	assert.Nil(t, queue.CurrentlyPlaying)
	assert.Equal(t, []string{"Alpha", "Beta"}, queueNames(queue.Queue))

	// Directories after the current index are silently filtered.
	queue = toPlaybackQueue(list, 1)
	require.NotNil(t, queue.CurrentlyPlaying)
	assert.Equal(t, "Alpha", queue.CurrentlyPlaying.Name)
	assert.Equal(t, []string{"Beta"}, queueNames(queue.Queue))
}

func TestQueueTrackFromEntry(t *testing.T) {
	playable := testPlayable("/m/a.mp3", "Alpha", []string{"X", "Y"}, "One", 3*time.Minute)

	track := queueTrackFromEntry(playable)

	require.NotNil(t, track)
	assert.Equal(t, "Alpha", track.Name)
	assert.Equal(t, "One", track.Album)
	assert.Equal(t, []string{"X", "Y"}, track.Artists)
	assert.Equal(t, 3*time.Minute, track.Duration)
	assert.True(t, track.IsLocal)

	// Catalog-only fields stay at their neutral defaults.
	assert.Empty(t, track.ID)
	assert.Zero(t, track.Popularity)
	assert.False(t, track.Explicit)
	assert.Empty(t, track.PreviewURL)
	assert.Empty(t, track.AvailableMarkets)
}

func TestQueueTrackFromEntryDefaults(t *testing.T) {
	track := queueTrackFromEntry(NewPlayable("/m/untagged.mp3"))

	require.NotNil(t, track)
	assert.Equal(t, "untagged.mp3", track.Name)
	assert.Equal(t, "unknown", track.Album)
	assert.Empty(t, track.Artists)
	assert.Zero(t, track.Duration)
	assert.True(t, track.IsLocal)
}

func TestQueueTrackFromDirectory(t *testing.T) {
	assert.Nil(t, queueTrackFromEntry(NewDirectory("/m/sub")))
}

func queueNames(tracks []QueueTrack) []string {
	names := make([]string, len(tracks))
	for i, track := range tracks {
		names[i] = track.Name
	}
	return names
}
