package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/mewkiz/flac"
	tcmp3 "github.com/tcolgate/mp3"
)

// trackTags holds whatever metadata could be pulled out of an audio
// file. An empty field means the source had nothing for it.
type trackTags struct {
	title    string
	artists  []string
	duration time.Duration
	album    string
	genre    string
}

// readTags extracts embedded metadata from the audio file at path.
// Everything is best effort: each field is filled independently and any
// parse failure simply leaves the affected fields empty. The bool
// reports whether at least one field was populated; callers keep the
// entry either way.
func readTags(path string) (trackTags, bool) {
	var tags trackTags

	if file, err := os.Open(path); err == nil {
		if meta, err := tag.ReadFrom(file); err == nil {
			tags.title = meta.Title()
			tags.artists = splitArtists(meta.Artist())
			tags.album = meta.Album()
			tags.genre = meta.Genre()
		}
		file.Close()
	}

	// The tag container does not carry a length, so the duration comes
	// from walking the audio stream itself.
	if secs := probeDuration(path); secs > 0 {
		tags.duration = time.Duration(secs * float64(time.Second))
	}

	ok := tags.title != "" || len(tags.artists) > 0 || tags.duration > 0 ||
		tags.album != "" || tags.genre != ""
	return tags, ok
}

// applyTags copies the non-empty tag fields onto a playable entry.
func applyTags(p *Playable, tags trackTags) {
	if tags.title != "" {
		p.title = tags.title
	}
	if len(tags.artists) > 0 {
		p.artists = tags.artists
	}
	if tags.duration > 0 {
		p.duration = tags.duration
	}
	if tags.album != "" {
		p.album = tags.album
	}
	if tags.genre != "" {
		p.genre = tags.genre
	}
}

// splitArtists turns a combined artist tag into individual names.
// Multi-artist tags are conventionally joined with semicolons.
func splitArtists(artist string) []string {
	if artist == "" {
		return nil
	}

	parts := strings.Split(artist, ";")
	artists := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			artists = append(artists, name)
		}
	}
	if len(artists) == 0 {
		return nil
	}
	return artists
}

// probeDuration returns the track length in fractional seconds, or 0
// when it cannot be determined.
func probeDuration(path string) float64 {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3Duration(path)
	case ".flac":
		return flacDuration(path)
	default:
		return 0
	}
}

func mp3Duration(path string) float64 {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	// MP3 has no length header, so the frames are walked and their
	// durations summed.
	decoder := tcmp3.NewDecoder(file)
	var total time.Duration
	var skipped int

	for {
		frame := tcmp3.Frame{}
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return 0
		}
		total += frame.Duration()
	}

	return total.Seconds()
}

func flacDuration(path string) float64 {
	// The StreamInfo block records the exact sample count up front, no
	// need to walk the frames.
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0
	}

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NSamples == 0 {
		return 0
	}

	return float64(info.NSamples) / float64(info.SampleRate)
}
