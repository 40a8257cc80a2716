package downloader

import (
	"errors"
	"testing"
	"time"

	"github.com/wintube-os/wintube/internal/config"
)

var t0 = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func TestValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"youtube.com/shorts/abc", true},
		{"https://vimeo.com/123", false},
		{"https://youtube.com", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			if got := ValidURL(tc.url); got != tc.want {
				t.Errorf("ValidURL(%q) = %v, want %v", tc.url, got, tc.want)
			}
		})
	}
}

func TestStartInvalidURL(t *testing.T) {
	s := NewSimulator()
	s.SetURL("https://example.com/video")

	err := s.Start(t0)
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("Start error = %v, want ErrInvalidURL", err)
	}

	state := s.State()
	if state.Status != StatusError {
		t.Errorf("status = %s, want error", state.Status)
	}
	if state.Progress != 0 {
		t.Errorf("progress = %d, want 0", state.Progress)
	}
	if state.ErrorMessage != InvalidURLMessage {
		t.Errorf("message = %q", state.ErrorMessage)
	}
	if tr := s.Sample(t0.Add(time.Hour)); tr != NoTransition || s.State().Status != StatusError {
		t.Error("error state should not advance on its own")
	}
}

func TestVideoSkipsConverting(t *testing.T) {
	s := NewSimulator()
	s.SetURL("https://youtu.be/abc")
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var seen []Status
	for elapsed := time.Duration(0); elapsed <= config.DownloadDuration+config.ProgressSampleInterval; elapsed += config.ProgressSampleInterval {
		s.Sample(t0.Add(elapsed))
		seen = append(seen, s.State().Status)
		if s.State().Status == StatusSuccess {
			break
		}
	}

	for _, st := range seen {
		if st == StatusConverting {
			t.Fatal("video transfer visited converting")
		}
	}
	state := s.State()
	if state.Status != StatusSuccess || state.Progress != 100 {
		t.Errorf("final state = %s/%d, want success/100", state.Status, state.Progress)
	}
}

func TestAudioVisitsConverting(t *testing.T) {
	s := NewSimulator()
	s.SetFormat(FormatAudio)
	s.SetURL("https://www.youtube.com/watch?v=abc")
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Just before the end of the download phase.
	s.Sample(t0.Add(config.DownloadDuration - 100*time.Millisecond))
	if st := s.State(); st.Status != StatusDownloading || st.Progress < 90 || st.Progress >= 100 {
		t.Fatalf("state = %s/%d, want downloading near 100", st.Status, st.Progress)
	}

	downloadEnd := t0.Add(config.DownloadDuration)
	if tr := s.Sample(downloadEnd); tr != BeganConverting {
		t.Fatalf("transition = %v, want BeganConverting", tr)
	}
	if st := s.State(); st.Status != StatusConverting || st.Progress != 0 {
		t.Fatalf("state = %s/%d, want converting/0", st.Status, st.Progress)
	}

	s.Sample(downloadEnd.Add(config.ConvertDuration / 2))
	if st := s.State(); st.Status != StatusConverting || st.Progress != 50 {
		t.Fatalf("state = %s/%d, want converting/50", st.Status, st.Progress)
	}

	if tr := s.Sample(downloadEnd.Add(config.ConvertDuration)); tr != Finished {
		t.Fatalf("transition = %v, want Finished", tr)
	}
	if st := s.State(); st.Status != StatusSuccess || st.Progress != 100 {
		t.Fatalf("state = %s/%d, want success/100", st.Status, st.Progress)
	}
}

func TestProgressIsElapsedOverDuration(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{-time.Second, 0},
		{config.DownloadDuration / 4, 25},
		{config.DownloadDuration / 3, 33},
		{config.DownloadDuration * 2, 100},
	}

	for _, tc := range tests {
		t.Run(tc.elapsed.String(), func(t *testing.T) {
			if got := progressAt(tc.elapsed, config.DownloadDuration); got != tc.want {
				t.Errorf("progressAt(%v) = %d, want %d", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestLateSampleClampsAndFinishes(t *testing.T) {
	s := NewSimulator()
	s.SetURL("https://youtu.be/abc")
	_ = s.Start(t0)

	if tr := s.Sample(t0.Add(time.Minute)); tr != Finished {
		t.Fatalf("transition = %v, want Finished", tr)
	}
	if s.State().Progress != 100 {
		t.Errorf("progress = %d, want 100", s.State().Progress)
	}
}

func TestReset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Simulator)
	}{
		{
			name: "from error",
			setup: func(s *Simulator) {
				s.SetURL("nope")
				_ = s.Start(t0)
			},
		},
		{
			name: "from success",
			setup: func(s *Simulator) {
				s.SetURL("https://youtu.be/abc")
				_ = s.Start(t0)
				s.Sample(t0.Add(config.DownloadDuration))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSimulator()
			tc.setup(s)
			if !s.State().Status.IsFinished() {
				t.Fatalf("setup left status %s", s.State().Status)
			}

			s.Reset()
			want := State{URL: "", Format: FormatVideo, Status: StatusIdle, Progress: 0, ErrorMessage: ""}
			if got := s.State(); got != want {
				t.Errorf("state = %+v, want %+v", got, want)
			}
			if s.JobID() != "" {
				t.Error("reset should clear the job id")
			}
		})
	}
}

func TestInputsLockedWhileProcessing(t *testing.T) {
	s := NewSimulator()
	s.SetURL("https://youtu.be/abc")
	_ = s.Start(t0)

	s.SetURL("https://youtu.be/other")
	s.SetFormat(FormatAudio)

	state := s.State()
	if state.URL != "https://youtu.be/abc" {
		t.Errorf("url changed to %q while downloading", state.URL)
	}
	if state.Format != FormatVideo {
		t.Errorf("format changed to %s while downloading", state.Format)
	}
}

func TestStartOnlyFromIdle(t *testing.T) {
	s := NewSimulator()
	s.SetURL("https://youtu.be/abc")
	_ = s.Start(t0)

	if err := s.Start(t0.Add(time.Second)); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start error = %v, want ErrBusy", err)
	}
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		status     Status
		processing bool
		finished   bool
	}{
		{StatusIdle, false, false},
		{StatusDownloading, true, false},
		{StatusConverting, true, false},
		{StatusSuccess, false, true},
		{StatusError, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.status.String(), func(t *testing.T) {
			if tc.status.IsProcessing() != tc.processing {
				t.Errorf("IsProcessing = %v", !tc.processing)
			}
			if tc.status.IsFinished() != tc.finished {
				t.Errorf("IsFinished = %v", !tc.finished)
			}
		})
	}
}
