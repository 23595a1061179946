package main

import (
	"os"
	"path/filepath"
	"strings"
)

// playableExtensions is the allow-list of audio formats the player can
// decode. Matching is case-insensitive on the file extension.
var playableExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// ScanDirectory enumerates the direct children of path and returns them
// as a sorted EntryList. The result always begins with a ".." parent
// marker, unless path is not a directory at all, in which case the list
// is empty. Subdirectories are represented but not expanded; files
// outside the extension allow-list are skipped, and a tag-read failure
// still produces an entry, just with default metadata. The scan is
// blocking and snapshots one moment in time; navigating means calling
// ScanDirectory again.
func ScanDirectory(path string) *EntryList {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return NewEntryList(nil)
	}

	entries := []Entry{NewDirectory("..")}

	children, err := os.ReadDir(path)
	if err != nil {
		// An unreadable directory degrades to "no children found".
		return NewEntryList(entries)
	}

	for _, child := range children {
		fullPath := filepath.Join(path, child.Name())

		// Classify on the resolved type so symlinked directories and
		// audio files are listed like their targets. Broken links are
		// skipped along with anything else that cannot be stat'd.
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}

		if info.IsDir() {
			entries = append(entries, NewDirectory(fullPath))
			continue
		}
		if !info.Mode().IsRegular() || !isPlayable(child.Name()) {
			continue
		}

		playable := NewPlayable(fullPath)
		if tags, ok := readTags(fullPath); ok {
			applyTags(playable, tags)
		}
		entries = append(entries, playable)
	}

	// The ".." marker is sorted along with everything else; the
	// directories-before-files rule keeps it ahead of every track
	// regardless of sibling names.
	sortEntries(entries)
	return NewEntryList(entries)
}

// isPlayable reports whether a file name looks like a supported audio
// file based on its extension.
func isPlayable(name string) bool {
	return playableExtensions[strings.ToLower(filepath.Ext(name))]
}
