package main

import "time"

// QueueTrack is the shape the remote playback contract expects for one
// queued item. A local file only populates the fields its tags can
// provide; the catalog-only fields (identifier, popularity, markets and
// so on) stay at their zero values and IsLocal marks the track as not
// coming from the remote catalog.
type QueueTrack struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Album            string        `json:"album"`
	Artists          []string      `json:"artists"`
	Duration         time.Duration `json:"duration"`
	Popularity       int           `json:"popularity"`
	Explicit         bool          `json:"explicit"`
	PreviewURL       string        `json:"preview_url"`
	AvailableMarkets []string      `json:"available_markets"`
	IsLocal          bool          `json:"is_local"`
}

// PlaybackQueue mirrors the remote API's "currently playing plus queue"
// structure.
type PlaybackQueue struct {
	CurrentlyPlaying *QueueTrack  `json:"currently_playing"`
	Queue            []QueueTrack `json:"queue"`
}

// toPlaybackQueue converts an entry list relative to a current index
// into the remote queue shape. The entry at current becomes the
// currently playing item when the index is in bounds; every entry
// strictly after it forms the forward queue in list order. Entries
// before current are never included and directories are dropped, they
// have no playable projection.
func toPlaybackQueue(list *EntryList, current int) PlaybackQueue {
	queue := PlaybackQueue{Queue: []QueueTrack{}}
	entries := list.Entries()

	if current >= 0 && current < len(entries) {
		queue.CurrentlyPlaying = queueTrackFromEntry(entries[current])
	}

	start := current + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(entries); i++ {
		if track := queueTrackFromEntry(entries[i]); track != nil {
			queue.Queue = append(queue.Queue, *track)
		}
	}

	return queue
}

// queueTrackFromEntry projects a playable entry into the external track
// shape. A directory yields nil.
func queueTrackFromEntry(e Entry) *QueueTrack {
	playable, ok := e.(*Playable)
	if !ok {
		return nil
	}

	return &QueueTrack{
		Name:     playable.Name(),
		Album:    playable.Album(),
		Artists:  playable.Artists(),
		Duration: playable.Duration(),
		IsLocal:  true,
	}
}
