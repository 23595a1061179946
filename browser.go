package main

import (
	"os"
	"path/filepath"
)

// FolderBrowser holds the view state for one directory listing: the
// scanned entries, the highlighted row and a scrolling viewport.
// Navigating into a directory throws the current list away and scans
// the new one; nothing is cached between directories.
type FolderBrowser struct {
	currentPath    string
	list           *EntryList
	cursor         int
	viewportTop    int
	viewportHeight int
}

func NewFolderBrowser(startPath string) *FolderBrowser {
	if startPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		startPath = home
	}

	fb := &FolderBrowser{
		currentPath:    startPath,
		viewportHeight: 20, // updated by the main app on resize
	}
	fb.Refresh()
	return fb
}

// Refresh rescans the current directory and replaces the entry list.
func (fb *FolderBrowser) Refresh() {
	fb.list = ScanDirectory(fb.currentPath)
	if fb.cursor >= fb.list.Len() {
		fb.cursor = 0
	}
	fb.viewportTop = 0
}

func (fb *FolderBrowser) CurrentPath() string {
	return fb.currentPath
}

func (fb *FolderBrowser) List() *EntryList {
	return fb.list
}

func (fb *FolderBrowser) Cursor() int {
	return fb.cursor
}

// CursorEntry returns the entry under the cursor, or nil when the list
// is empty.
func (fb *FolderBrowser) CursorEntry() Entry {
	entries := fb.list.Entries()
	if fb.cursor >= 0 && fb.cursor < len(entries) {
		return entries[fb.cursor]
	}
	return nil
}

// Enter navigates into the directory under the cursor. The ".." marker
// goes up one level; at the filesystem root it stays put. Entries that
// are not directories are left to the caller (they start playback, not
// navigation). Enter reports whether the view changed.
func (fb *FolderBrowser) Enter() bool {
	entry := fb.CursorEntry()
	if entry == nil || !isDirectory(entry) {
		return false
	}

	target := entry.FullPath()
	if target == ".." {
		parent := filepath.Dir(fb.currentPath)
		if parent == fb.currentPath {
			return false
		}
		target = parent
	}

	fb.currentPath = target
	fb.cursor = 0
	fb.Refresh()
	return true
}

// GoBack moves to the parent directory, staying put at the filesystem
// root.
func (fb *FolderBrowser) GoBack() bool {
	parent := filepath.Dir(fb.currentPath)
	if parent == fb.currentPath {
		return false
	}

	fb.currentPath = parent
	fb.cursor = 0
	fb.Refresh()
	return true
}

func (fb *FolderBrowser) MoveUp() {
	if fb.cursor > 0 {
		fb.cursor--
		fb.adjustViewport()
	}
}

func (fb *FolderBrowser) MoveDown() {
	if fb.cursor < fb.list.Len()-1 {
		fb.cursor++
		fb.adjustViewport()
	}
}

func (fb *FolderBrowser) SetViewportHeight(height int) {
	fb.viewportHeight = height
	fb.adjustViewport()
}

func (fb *FolderBrowser) adjustViewport() {
	if fb.cursor < fb.viewportTop {
		fb.viewportTop = fb.cursor
	} else if fb.cursor >= fb.viewportTop+fb.viewportHeight {
		fb.viewportTop = fb.cursor - fb.viewportHeight + 1
	}

	if fb.viewportTop < 0 {
		fb.viewportTop = 0
	}
}

// VisibleEntries returns the slice of entries inside the viewport.
func (fb *FolderBrowser) VisibleEntries() []Entry {
	entries := fb.list.Entries()
	if len(entries) == 0 {
		return nil
	}

	end := fb.viewportTop + fb.viewportHeight
	if end > len(entries) {
		end = len(entries)
	}
	return entries[fb.viewportTop:end]
}

// VisibleCursor returns the cursor position relative to the viewport.
func (fb *FolderBrowser) VisibleCursor() int {
	return fb.cursor - fb.viewportTop
}

// VisibleOffset returns the absolute index of the first visible entry.
func (fb *FolderBrowser) VisibleOffset() int {
	return fb.viewportTop
}
