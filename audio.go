package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
)

// playbackSampleRate is the rate the speaker runs at; everything else
// is resampled to it.
const playbackSampleRate = beep.SampleRate(44100)

// sampleCaptureStreamer wraps another streamer and captures amplitude
// data for the visualizer while samples flow through it.
type sampleCaptureStreamer struct {
	streamer beep.Streamer
	player   *AudioPlayer
	buffer   []float64
	size     int
}

func newSampleCaptureStreamer(streamer beep.Streamer, player *AudioPlayer) *sampleCaptureStreamer {
	return &sampleCaptureStreamer{
		streamer: streamer,
		player:   player,
		buffer:   make([]float64, 0, 1024),
		size:     1024,
	}
}

func (s *sampleCaptureStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.streamer.Stream(samples)

	if ok && n > 0 {
		for i := 0; i < n; i++ {
			// Mix both channels down to one value per sample.
			s.buffer = append(s.buffer, (samples[i][0]+samples[i][1])/2.0)
		}
		if len(s.buffer) >= s.size {
			s.analyzeAndStore()
			s.buffer = s.buffer[:0]
		}
	}

	return n, ok
}

func (s *sampleCaptureStreamer) Err() error {
	return s.streamer.Err()
}

// analyzeAndStore splits the buffered samples into bands and stores the
// RMS amplitude of each band on the player.
func (s *sampleCaptureStreamer) analyzeAndStore() {
	const numBands = 24
	bandSize := len(s.buffer) / numBands
	if bandSize == 0 {
		return
	}

	amplitudes := make([]float64, numBands)
	for band := 0; band < numBands; band++ {
		start := band * bandSize
		end := start + bandSize
		if end > len(s.buffer) {
			end = len(s.buffer)
		}

		var sum float64
		for i := start; i < end; i++ {
			sum += s.buffer[i] * s.buffer[i]
		}
		amplitudes[band] = math.Sqrt(sum / float64(end-start))
	}

	s.player.sampleMutex.Lock()
	s.player.audioSamples = amplitudes
	s.player.sampleMutex.Unlock()
}

// AudioPlayer owns the speaker and plays one local file at a time.
// Playback of an entry is fire and forget: decode failures abandon the
// attempt and the caller decides whether to move on to the next track.
type AudioPlayer struct {
	ctrl          *beep.Ctrl
	volume        *effects.Volume
	mixer         *beep.Mixer
	isPlaying     bool
	isPaused      bool
	currentPath   string
	volumePercent int
	mutex         sync.RWMutex
	startTime     time.Time
	pausedTime    time.Duration
	duration      float64 // total duration of the current track in seconds

	// finished is set by the end-of-track callback, which runs on the
	// speaker goroutine with the speaker lock held and therefore must
	// never take mutex.
	finished atomic.Bool

	audioSamples []float64
	sampleMutex  sync.RWMutex
}

func NewAudioPlayer() (*AudioPlayer, error) {
	if err := speaker.Init(playbackSampleRate, playbackSampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	mixer := &beep.Mixer{}
	speaker.Play(mixer)

	return &AudioPlayer{mixer: mixer, volumePercent: 80}, nil
}

// PlayEntry decodes the file behind a playable entry and starts
// playback, replacing whatever was playing before. When the entry has
// no duration yet, the decoded stream length fills it in; the decoder
// is authoritative, so a later decode overwrites a tag-derived value of
// zero. Calling this with a directory entry is an error the caller is
// expected to treat as "skip".
func (ap *AudioPlayer) PlayEntry(entry Entry) error {
	playable, ok := entry.(*Playable)
	if !ok {
		return fmt.Errorf("not a playable entry: %q", entry.FullPath())
	}

	ap.Stop()

	path := playable.FullPath()
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	default:
		file.Close()
		return fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if playable.Duration() == 0 {
		playable.SetDuration(format.SampleRate.D(streamer.Len()))
	}

	resampled := beep.Resample(4, format.SampleRate, playbackSampleRate, streamer)
	capture := newSampleCaptureStreamer(resampled, ap)

	ap.mutex.Lock()
	ap.volume = &effects.Volume{
		Streamer: capture,
		Base:     2,
		Volume:   volumeExponent(ap.volumePercent),
		Silent:   ap.volumePercent == 0,
	}
	ap.ctrl = &beep.Ctrl{Streamer: ap.volume}
	ap.isPlaying = true
	ap.isPaused = false
	ap.currentPath = path
	ap.startTime = time.Now()
	ap.pausedTime = 0
	ap.duration = playable.Duration().Seconds()
	ap.finished.Store(false)
	ap.mutex.Unlock()

	ap.mixer.Add(beep.Seq(ap.ctrl, beep.Callback(func() {
		// Runs inside the speaker's streaming loop; taking ap.mutex
		// here would invert the lock order against Pause and friends.
		ap.finished.Store(true)
		streamer.Close()
		file.Close()
	})))

	log.Printf("playing %s (%.1fs)", path, playable.Duration().Seconds())
	return nil
}

func (ap *AudioPlayer) Pause() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.ctrl != nil && ap.isPlaying && !ap.isPaused {
		speaker.Lock()
		ap.ctrl.Paused = true
		ap.isPaused = true
		ap.pausedTime += time.Since(ap.startTime)
		ap.startTime = time.Now()
		speaker.Unlock()
	}
}

func (ap *AudioPlayer) Resume() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.ctrl != nil && ap.isPlaying && ap.isPaused {
		speaker.Lock()
		ap.ctrl.Paused = false
		ap.isPaused = false
		ap.startTime = time.Now()
		speaker.Unlock()
	}
}

func (ap *AudioPlayer) TogglePause() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.ctrl == nil || !ap.isPlaying {
		return
	}

	speaker.Lock()
	if ap.isPaused {
		ap.ctrl.Paused = false
		ap.isPaused = false
		ap.startTime = time.Now()
	} else {
		ap.ctrl.Paused = true
		ap.isPaused = true
		ap.pausedTime += time.Since(ap.startTime)
		ap.startTime = time.Now()
	}
	speaker.Unlock()
}

func (ap *AudioPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.ctrl != nil {
		speaker.Lock()
		ap.ctrl.Streamer = nil
		speaker.Unlock()
		ap.ctrl = nil
		ap.volume = nil
	}

	speaker.Lock()
	ap.mixer.Clear()
	speaker.Unlock()

	ap.isPlaying = false
	ap.isPaused = false
	ap.currentPath = ""
}

// IsPlaying and IsPaused read only the player's own bookkeeping, which
// mirrors ctrl.Paused; touching the speaker lock here would deadlock
// against the end-of-track callback.
func (ap *AudioPlayer) IsPlaying() bool {
	ap.mutex.RLock()
	defer ap.mutex.RUnlock()
	return ap.isPlaying && !ap.isPaused && !ap.finished.Load()
}

func (ap *AudioPlayer) IsPaused() bool {
	ap.mutex.RLock()
	defer ap.mutex.RUnlock()
	return ap.isPaused
}

// CurrentPath returns the full path of the file being played, or the
// empty string when the player is stopped.
func (ap *AudioPlayer) CurrentPath() string {
	ap.mutex.RLock()
	defer ap.mutex.RUnlock()
	return ap.currentPath
}

// Position returns the elapsed playback time of the current track in
// seconds.
func (ap *AudioPlayer) Position() float64 {
	ap.mutex.RLock()
	defer ap.mutex.RUnlock()

	if !ap.isPlaying && !ap.isPaused {
		return 0
	}
	if ap.finished.Load() {
		return ap.duration
	}

	elapsed := ap.pausedTime
	if !ap.isPaused {
		elapsed += time.Since(ap.startTime)
	}
	return elapsed.Seconds()
}

// TrackDuration returns the total duration of the current track in
// seconds, or 0 when unknown.
func (ap *AudioPlayer) TrackDuration() float64 {
	ap.mutex.RLock()
	defer ap.mutex.RUnlock()
	return ap.duration
}

// Progress returns playback progress in the range [0, 1].
func (ap *AudioPlayer) Progress() float64 {
	position := ap.Position()
	duration := ap.TrackDuration()

	if duration <= 0 {
		return 0
	}

	progress := position / duration
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}
	return progress
}

// SetVolume adjusts the playback gain for the current track and any
// that follow. percent is clamped to [0, 100]; 0 mutes entirely.
func (ap *AudioPlayer) SetVolume(percent int) {
	percent = clampVolume(percent)

	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	ap.volumePercent = percent
	if ap.volume != nil {
		speaker.Lock()
		ap.volume.Volume = volumeExponent(percent)
		ap.volume.Silent = percent == 0
		speaker.Unlock()
	}
}

func (ap *AudioPlayer) Volume() int {
	ap.mutex.RLock()
	defer ap.mutex.RUnlock()
	return ap.volumePercent
}

// volumeExponent maps a percentage onto the exponential scale the
// volume effect expects: 100 is unity gain and every 25 points below
// that halves the amplitude.
func volumeExponent(percent int) float64 {
	return (float64(percent) - 100.0) / 25.0
}

func (ap *AudioPlayer) Close() {
	ap.Stop()
	speaker.Close()
}

// AudioSamples returns a copy of the latest captured amplitude bands
// for the visualizer.
func (ap *AudioPlayer) AudioSamples() []float64 {
	ap.sampleMutex.RLock()
	defer ap.sampleMutex.RUnlock()

	if ap.audioSamples == nil {
		return make([]float64, 24)
	}

	samples := make([]float64, len(ap.audioSamples))
	copy(samples, ap.audioSamples)
	return samples
}
