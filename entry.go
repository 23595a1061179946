package main

import (
	"path/filepath"
	"sort"
	"time"
)

// Entry is one node in a local directory listing: either a subdirectory
// or a playable audio file. Directory and Playable are the only two
// implementations; the unexported marker method keeps the set closed.
type Entry interface {
	// Name returns the text shown for the entry: the tag title for a
	// tagged audio file, otherwise the last component of its path.
	Name() string
	// FullPath returns the path the entry was constructed with. It never
	// changes for the lifetime of the entry.
	FullPath() string
	Selected() bool
	SetSelected(bool)
	Album() string
	Artists() []string
	Genre() string
	Duration() time.Duration
	SetDuration(time.Duration)

	isEntry()
}

// Directory represents a subdirectory of the scanned folder. The
// special path ".." marks the parent of the current folder.
type Directory struct {
	fullPath string
}

func NewDirectory(path string) *Directory {
	return &Directory{fullPath: path}
}

func (d *Directory) Name() string {
	return baseName(d.fullPath)
}

func (d *Directory) FullPath() string { return d.fullPath }

// A directory is never selectable.
func (d *Directory) Selected() bool   { return false }
func (d *Directory) SetSelected(bool) {}

func (d *Directory) Album() string             { return "unknown" }
func (d *Directory) Artists() []string         { return nil }
func (d *Directory) Genre() string             { return "" }
func (d *Directory) Duration() time.Duration   { return 0 }
func (d *Directory) SetDuration(time.Duration) {}

func (d *Directory) isEntry() {}

// Playable represents one audio file. The metadata fields keep their
// zero value until the tag reader or the decoder fills them in;
// selected is UI state, not filesystem state.
type Playable struct {
	fullPath string
	selected bool
	title    string
	artists  []string
	duration time.Duration
	album    string
	genre    string
}

func NewPlayable(path string) *Playable {
	return &Playable{fullPath: path}
}

func (p *Playable) Name() string {
	if p.title != "" {
		return p.title
	}
	return baseName(p.fullPath)
}

func (p *Playable) FullPath() string { return p.fullPath }

func (p *Playable) Selected() bool     { return p.selected }
func (p *Playable) SetSelected(v bool) { p.selected = v }

func (p *Playable) Album() string {
	if p.album == "" {
		return "unknown"
	}
	return p.album
}

func (p *Playable) Artists() []string       { return p.artists }
func (p *Playable) Genre() string           { return p.genre }
func (p *Playable) Duration() time.Duration { return p.duration }

// SetDuration unconditionally overwrites the stored duration. The
// decoder calls it to replace a length the tag reader could not
// determine; the last writer wins.
func (p *Playable) SetDuration(d time.Duration) { p.duration = d }

func (p *Playable) isEntry() {}

// baseName returns the last path component, or the raw path text when
// there is no component to extract.
func baseName(path string) string {
	if path == "" {
		return path
	}
	return filepath.Base(path)
}

func isDirectory(e Entry) bool {
	_, ok := e.(*Directory)
	return ok
}

// entryLess orders any directory strictly before any playable file and
// compares lexicographically by the file-name component of the path
// within each group. Comparing the path component instead of Name()
// keeps the order stable when tag titles load later.
func entryLess(a, b Entry) bool {
	da, db := isDirectory(a), isDirectory(b)
	if da != db {
		return da
	}
	return baseName(a.FullPath()) < baseName(b.FullPath())
}

// entryEqual mirrors entryLess: equal means same variant and same
// file-name component. A directory never equals a playable file.
func entryEqual(a, b Entry) bool {
	if isDirectory(a) != isDirectory(b) {
		return false
	}
	return baseName(a.FullPath()) == baseName(b.FullPath())
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(entries[i], entries[j])
	})
}

// EntryList is the result of one directory scan: an ordered, indexable
// sequence of entries with at most one selected at a time. A new scan
// replaces the whole list; there is no insertion or removal. The list
// does no locking of its own, callers that share it across goroutines
// must synchronize externally.
type EntryList struct {
	entries []Entry
}

func NewEntryList(entries []Entry) *EntryList {
	return &EntryList{entries: entries}
}

// Select marks the entry at index as selected and clears every other
// entry. An out-of-range index just clears the selection.
func (l *EntryList) Select(index int) {
	for i, e := range l.entries {
		e.SetSelected(i == index)
	}
}

// UnselectAll clears the selection on every entry.
func (l *EntryList) UnselectAll() {
	for _, e := range l.entries {
		e.SetSelected(false)
	}
}

// Entries returns the backing slice. The elements are pointers, so
// callers can backfill mutable fields (selection, duration) in place.
func (l *EntryList) Entries() []Entry { return l.entries }

func (l *EntryList) Len() int { return len(l.entries) }
