// Package downloader implements the WinTube downloader application: a URL
// form and a simulated download/convert pipeline whose progress is derived
// from elapsed wall-clock time. Nothing is ever fetched or written.
package downloader

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wintube-os/wintube/internal/config"
)

// InvalidURLMessage is shown when the URL is not a YouTube link.
const InvalidURLMessage = "Please enter a valid YouTube URL."

var (
	// ErrInvalidURL is returned by Start when the URL is not recognised.
	ErrInvalidURL = errors.New("unrecognised video URL")
	// ErrBusy is returned by Start outside the idle state.
	ErrBusy = errors.New("a transfer is already in progress")
)

// recognisedHosts are the substrings that mark a URL as a YouTube link.
var recognisedHosts = []string{"youtube.com/", "youtu.be/"}

// ValidURL reports whether url points at a recognised video host.
func ValidURL(url string) bool {
	for _, host := range recognisedHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// State is the observable state of the downloader.
type State struct {
	URL          string
	Format       Format
	Status       Status
	Progress     int
	ErrorMessage string
}

// Transition is the phase change produced by a progress sample.
type Transition int

const (
	// NoTransition means the current phase continues.
	NoTransition Transition = iota
	// BeganConverting means the download finished and conversion started.
	BeganConverting
	// Finished means the last phase completed.
	Finished
)

// Simulator is the downloader state machine. It has no timers of its own;
// the caller samples it with the current time.
type Simulator struct {
	state      State
	phaseStart time.Time
	jobID      string

	downloadDuration time.Duration
	convertDuration  time.Duration
}

// NewSimulator returns an idle simulator using the default durations.
func NewSimulator() *Simulator {
	return &Simulator{
		state:            State{Format: FormatVideo, Status: StatusIdle},
		downloadDuration: config.DownloadDuration,
		convertDuration:  config.ConvertDuration,
	}
}

// State returns a snapshot of the current state.
func (s *Simulator) State() State {
	return s.state
}

// JobID returns the id of the current transfer, or "" when idle.
func (s *Simulator) JobID() string {
	return s.jobID
}

// SetURL updates the URL. It is ignored while processing.
func (s *Simulator) SetURL(url string) {
	if s.state.Status.IsProcessing() {
		return
	}
	s.state.URL = url
}

// SetFormat updates the format. It is ignored while processing.
func (s *Simulator) SetFormat(f Format) {
	if s.state.Status.IsProcessing() {
		return
	}
	s.state.Format = f
}

// Start begins a transfer at now. An unrecognised URL moves the simulator
// to the error state and returns ErrInvalidURL.
func (s *Simulator) Start(now time.Time) error {
	if s.state.Status != StatusIdle {
		return ErrBusy
	}
	if !ValidURL(s.state.URL) {
		s.state.Status = StatusError
		s.state.ErrorMessage = InvalidURLMessage
		s.state.Progress = 0
		return ErrInvalidURL
	}

	s.jobID = uuid.New().String()
	s.state.Status = StatusDownloading
	s.state.Progress = 0
	s.state.ErrorMessage = ""
	s.phaseStart = now
	return nil
}

// Sample recomputes progress at now and advances the phase once progress
// reaches 100. Outside a processing phase it does nothing.
func (s *Simulator) Sample(now time.Time) Transition {
	var duration time.Duration
	switch s.state.Status {
	case StatusDownloading:
		duration = s.downloadDuration
	case StatusConverting:
		duration = s.convertDuration
	default:
		return NoTransition
	}

	s.state.Progress = progressAt(now.Sub(s.phaseStart), duration)
	if s.state.Progress < 100 {
		return NoTransition
	}

	if s.state.Status == StatusDownloading && s.state.Format == FormatAudio {
		s.state.Status = StatusConverting
		s.state.Progress = 0
		s.phaseStart = now
		return BeganConverting
	}

	s.state.Status = StatusSuccess
	return Finished
}

// Reset returns to idle and clears the URL, progress and error message.
// The selected format is kept.
func (s *Simulator) Reset() {
	s.state = State{Format: s.state.Format, Status: StatusIdle}
	s.jobID = ""
	s.phaseStart = time.Time{}
}

// FileName returns the name of the file the transfer pretends to save.
func (s *Simulator) FileName() string {
	id := s.jobID
	if len(id) > 8 {
		id = id[:8]
	}
	return "wintube-" + id + "." + s.state.Format.Extension()
}

func progressAt(elapsed, duration time.Duration) int {
	if duration <= 0 {
		return 100
	}
	if elapsed < 0 {
		return 0
	}
	p := int(math.Round(float64(elapsed) / float64(duration) * 100))
	return min(p, 100)
}
