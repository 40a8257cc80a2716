package downloader

// Status is the phase of a simulated transfer.
type Status string

const (
	// StatusIdle means the form is waiting for a URL.
	StatusIdle Status = "idle"

	// StatusDownloading means the simulated download is running.
	StatusDownloading Status = "downloading"

	// StatusConverting means the simulated audio conversion is running.
	StatusConverting Status = "converting"

	// StatusSuccess means the transfer finished.
	StatusSuccess Status = "success"

	// StatusError means the transfer was rejected.
	StatusError Status = "error"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsProcessing returns true while a phase timer is running
func (s Status) IsProcessing() bool {
	return s == StatusDownloading || s == StatusConverting
}

// IsFinished returns true for the states that need a reset to leave
func (s Status) IsFinished() bool {
	return s == StatusSuccess || s == StatusError
}

// Format is the requested output type.
type Format string

const (
	// FormatVideo produces an MP4 file.
	FormatVideo Format = "video"
	// FormatAudio produces an MP3 file and adds a conversion phase.
	FormatAudio Format = "audio"
)

// Label returns the text shown next to the radio button.
func (f Format) Label() string {
	if f == FormatAudio {
		return "Audio (MP3)"
	}
	return "Video (MP4)"
}

// Extension returns the file extension of the produced file.
func (f Format) Extension() string {
	if f == FormatAudio {
		return "mp3"
	}
	return "mp4"
}

// Toggle returns the other format.
func (f Format) Toggle() Format {
	if f == FormatAudio {
		return FormatVideo
	}
	return FormatAudio
}
