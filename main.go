package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	width  int
	height int

	settingsManager *SettingsManager
	audioPlayer     *AudioPlayer
	browser         *FolderBrowser

	// Playback state: the queue handed to the playback subsystem plus
	// the playable entries it was built from, so the player can walk
	// forward through them.
	queue       PlaybackQueue
	playEntries []Entry
	trackIndex  int
	playingPath string

	showQueue bool
	statusMsg string

	spinner spinner.Model
}

func initialModel(startDir string) model {
	settingsManager, err := NewSettingsManager()
	if err != nil {
		fmt.Printf("Error initializing settings: %v\n", err)
		os.Exit(1)
	}

	audioPlayer, err := NewAudioPlayer()
	if err != nil {
		fmt.Printf("Error initializing audio player: %v\n", err)
		os.Exit(1)
	}
	audioPlayer.SetVolume(settingsManager.Volume())

	if startDir == "" {
		startDir = settingsManager.MusicDir()
	}
	browser := NewFolderBrowser(startDir)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(settingsManager.GetTheme().Primary))

	return model{
		settingsManager: settingsManager,
		audioPlayer:     audioPlayer,
		browser:         browser,
		trackIndex:      -1,
		spinner:         s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		// Auto-advance through the queue when the current track ends.
		if m.isTrackFinished() {
			if m.settingsManager.AutoPlay() && m.playNextTrack() {
				return m, tickCmd()
			}
			m.playingPath = ""
			m.playEntries = nil
			m.trackIndex = -1
			m.queue = PlaybackQueue{}
			m.browser.List().UnselectAll()
			return m, tickCmd()
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := msg.Height - m.chromeHeight()
		if contentHeight < 5 {
			contentHeight = 5
		}
		m.browser.SetViewportHeight(contentHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}

	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		if err := m.settingsManager.Save(); err != nil {
			log.Printf("failed to save settings: %v", err)
		}
		m.audioPlayer.Close()
		return m, tea.Quit

	case "up", "k":
		m.browser.MoveUp()
		return m, nil

	case "down", "j":
		m.browser.MoveDown()
		return m, nil

	case "enter":
		return m.handleEnter()

	case "backspace", "h":
		m.browser.GoBack()
		return m, nil

	case " ":
		m.audioPlayer.TogglePause()
		return m, nil

	case "n":
		m.playNextTrack()
		return m, nil

	case "b":
		m.playPreviousTrack()
		return m, nil

	case "s":
		m.stopPlayback()
		return m, nil

	case "r":
		m.browser.Refresh()
		m.statusMsg = "rescanned"
		return m, nil

	case "tab":
		m.showQueue = !m.showQueue
		return m, nil

	case "+", "=":
		m.settingsManager.SetVolume(m.settingsManager.Volume() + 5)
		m.audioPlayer.SetVolume(m.settingsManager.Volume())
		m.statusMsg = fmt.Sprintf("volume: %d%%", m.settingsManager.Volume())
		return m, nil

	case "-":
		m.settingsManager.SetVolume(m.settingsManager.Volume() - 5)
		m.audioPlayer.SetVolume(m.settingsManager.Volume())
		m.statusMsg = fmt.Sprintf("volume: %d%%", m.settingsManager.Volume())
		return m, nil

	case "t":
		name := m.settingsManager.CycleTheme()
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.settingsManager.GetTheme().Primary))
		m.statusMsg = fmt.Sprintf("theme: %s", name)
		return m, nil

	case "m":
		m.settingsManager.SetMusicDir(m.browser.CurrentPath())
		if err := m.settingsManager.Save(); err != nil {
			m.statusMsg = "failed to save music folder"
			log.Printf("failed to save settings: %v", err)
		} else {
			m.statusMsg = "music folder saved"
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	entry := m.browser.CursorEntry()
	if entry == nil {
		return m, nil
	}

	if isDirectory(entry) {
		m.browser.Enter()
		return m, nil
	}

	// Playing a track selects it and splices the rest of the folder,
	// from that row on, into the playback queue.
	list := m.browser.List()
	cursor := m.browser.Cursor()
	list.Select(cursor)

	m.queue = toPlaybackQueue(list, cursor)
	m.playEntries = playableEntriesFrom(list, cursor)
	m.trackIndex = 0

	if !m.playCurrentTrack() {
		m.statusMsg = "could not play any track in the queue"
		list.UnselectAll()
	}
	return m, tickCmd()
}

// playableEntriesFrom returns the playable entries at and after index,
// in list order.
func playableEntriesFrom(list *EntryList, index int) []Entry {
	if index < 0 {
		index = 0
	}

	var playables []Entry
	entries := list.Entries()
	for i := index; i < len(entries); i++ {
		if !isDirectory(entries[i]) {
			playables = append(playables, entries[i])
		}
	}
	return playables
}

// playCurrentTrack starts the track at trackIndex, skipping forward
// past entries that fail to open or decode.
func (m *model) playCurrentTrack() bool {
	for m.trackIndex >= 0 && m.trackIndex < len(m.playEntries) {
		entry := m.playEntries[m.trackIndex]
		if err := m.audioPlayer.PlayEntry(entry); err != nil {
			log.Printf("skipping %s: %v", entry.FullPath(), err)
			m.trackIndex++
			continue
		}

		m.playingPath = entry.FullPath()
		// The decoder may have backfilled the duration; refresh the
		// queue's view of the playing item.
		m.queue.CurrentlyPlaying = queueTrackFromEntry(entry)
		m.statusMsg = ""
		return true
	}

	m.playingPath = ""
	return false
}

func (m *model) playNextTrack() bool {
	if m.trackIndex >= 0 && m.trackIndex < len(m.playEntries)-1 {
		m.trackIndex++
		if len(m.queue.Queue) > 0 {
			m.queue.Queue = m.queue.Queue[1:]
		}
		return m.playCurrentTrack()
	}
	return false
}

func (m *model) playPreviousTrack() bool {
	if m.trackIndex > 0 {
		m.trackIndex--
		restored := queueTrackFromEntry(m.playEntries[m.trackIndex+1])
		if restored != nil {
			m.queue.Queue = append([]QueueTrack{*restored}, m.queue.Queue...)
		}
		return m.playCurrentTrack()
	}
	return false
}

func (m *model) stopPlayback() {
	m.audioPlayer.Stop()
	m.playingPath = ""
	m.playEntries = nil
	m.trackIndex = -1
	m.queue = PlaybackQueue{}
	m.browser.List().UnselectAll()
}

func (m *model) isTrackFinished() bool {
	if m.playingPath == "" {
		return false
	}

	if !m.audioPlayer.IsPlaying() && !m.audioPlayer.IsPaused() {
		return true
	}

	position := m.audioPlayer.Position()
	duration := m.audioPlayer.TrackDuration()
	return duration > 0 && position >= duration
}

// playingEntry returns the entry currently being played, or nil.
func (m *model) playingEntry() Entry {
	if m.trackIndex >= 0 && m.trackIndex < len(m.playEntries) {
		return m.playEntries[m.trackIndex]
	}
	return nil
}

// chromeHeight is the number of rows used by everything that is not
// the browser list.
func (m *model) chromeHeight() int {
	height := 1 + 1 + 1 + 3 // header + path + status + spacing
	if m.playingPath != "" {
		height += 7
	}
	return height
}

func (m model) View() string {
	theme := m.settingsManager.GetTheme()

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Bold(true).
		PaddingLeft(2)
	pathStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted)).
		PaddingLeft(2)
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted)).
		PaddingLeft(2)

	header := headerStyle.Render("♪ Lyra - Local Music Browser")
	path := pathStyle.Render(m.browser.CurrentPath())

	var content string
	if m.showQueue {
		content = m.renderQueue()
	} else {
		content = m.renderBrowser()
	}

	playStatus := "stopped"
	if m.audioPlayer.IsPlaying() {
		playStatus = "playing"
	} else if m.audioPlayer.IsPaused() {
		playStatus = "paused"
	}

	controls := "↑/↓ navigate, enter play/open, space pause, n/b next/prev, s stop, +/- volume, tab queue, m set music folder, t theme, q quit"
	statusText := fmt.Sprintf("%s | %s", playStatus, controls)
	if m.statusMsg != "" {
		statusText = fmt.Sprintf("%s | %s", m.statusMsg, statusText)
	}
	status := statusStyle.Render(statusText)

	parts := []string{header, path, "", content}
	if m.playingPath != "" {
		parts = append(parts, "", m.renderNowPlaying())
	}
	parts = append(parts, "", status)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderBrowser() string {
	theme := m.settingsManager.GetTheme()

	cursorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Highlight)).
		Bold(true)
	playingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Playing))
	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Foreground))
	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary))

	entries := m.browser.VisibleEntries()
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Muted)).
			PaddingLeft(2).
			Render("(empty)")
	}

	visibleCursor := m.browser.VisibleCursor()

	var items []string
	for i, entry := range entries {
		icon := "♪ "
		if isDirectory(entry) {
			icon = "▸ "
		}

		prefix := "  "
		if i == visibleCursor {
			prefix = "> "
		}

		line := prefix + icon + entry.Name()

		// The playing marker comes from the player, not the entry.
		isPlaying := m.playingPath != "" && entry.FullPath() == m.playingPath

		style := normalStyle
		switch {
		case i == visibleCursor:
			style = cursorStyle
		case isPlaying:
			style = playingStyle
		case entry.Selected():
			style = selectedStyle
		}

		items = append(items, "  "+style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m model) renderQueue() string {
	theme := m.settingsManager.GetTheme()

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Bold(true).
		PaddingLeft(2)
	trackStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Foreground)).
		PaddingLeft(2)
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted)).
		PaddingLeft(2)

	items := []string{titleStyle.Render("Up next"), ""}

	if m.queue.CurrentlyPlaying == nil && len(m.queue.Queue) == 0 {
		items = append(items, mutedStyle.Render("(queue is empty)"))
		return lipgloss.JoinVertical(lipgloss.Left, items...)
	}

	if current := m.queue.CurrentlyPlaying; current != nil {
		line := fmt.Sprintf("▶ %s — %s [%s]",
			current.Name,
			strings.Join(current.Artists, ", "),
			formatSeconds(current.Duration.Seconds()))
		items = append(items, lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Playing)).
			PaddingLeft(2).
			Render(line))
	}

	for i, track := range m.queue.Queue {
		line := fmt.Sprintf("%2d. %s — %s [%s]",
			i+1,
			track.Name,
			strings.Join(track.Artists, ", "),
			formatSeconds(track.Duration.Seconds()))
		items = append(items, trackStyle.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m model) renderNowPlaying() string {
	theme := m.settingsManager.GetTheme()
	entry := m.playingEntry()
	if entry == nil {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(0, 2)
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Bold(true)
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted))

	indicator := " "
	if m.audioPlayer.IsPlaying() {
		indicator = m.spinner.View()
	}

	title := fmt.Sprintf("%s %s", indicator, titleStyle.Render(entry.Name()))

	detail := entry.Album()
	if artists := entry.Artists(); len(artists) > 0 {
		detail = fmt.Sprintf("%s — %s", strings.Join(artists, ", "), entry.Album())
	}
	if genre := entry.Genre(); genre != "" {
		detail += fmt.Sprintf(" (%s)", genre)
	}

	barWidth := m.width - 24
	if barWidth < 20 {
		barWidth = 20
	}

	lines := []string{
		title,
		mutedStyle.Render(detail),
		m.renderProgressBar(barWidth),
		m.renderVisualizer(barWidth),
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m model) renderProgressBar(width int) string {
	theme := m.settingsManager.GetTheme()

	position := m.audioPlayer.Position()
	duration := m.audioPlayer.TrackDuration()
	progress := m.audioPlayer.Progress()

	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}

	bar := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Primary)).
		Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Border)).
			Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s %s/%s", bar, formatSeconds(position), formatSeconds(duration))
}

// renderVisualizer draws the captured amplitude bands as a bar chart.
func (m model) renderVisualizer(width int) string {
	if !m.audioPlayer.IsPlaying() {
		return strings.Repeat("▁", width)
	}

	theme := m.settingsManager.GetTheme()
	samples := m.audioPlayer.AudioSamples()

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary))

	data := make([]barchart.BarData, len(samples))
	for i, amplitude := range samples {
		// Amplify quiet signals so the chart stays lively.
		value := amplitude * 3.0
		if value > 1.0 {
			value = 1.0
		}
		data[i] = barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: "", Value: value, Style: barStyle},
			},
		}
	}

	chart := barchart.New(width, 2, barchart.WithMaxValue(1.0))
	chart.PushAll(data)
	chart.Draw()
	return chart.View()
}

func formatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func setupLogging() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}

	logPath := filepath.Join(homeDir, ".lyra", "lyra.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return
	}

	// The terminal belongs to the UI; logs go to a file instead.
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
	}
}

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "Directory to browse on startup (defaults to the saved music folder)")
	flag.Parse()

	setupLogging()

	m := initialModel(dir)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
