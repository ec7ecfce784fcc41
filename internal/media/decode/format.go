package decode

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// Format names an audio container this package can decode.
type Format string

const (
	FormatUnknown Format = ""
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatFLAC    Format = "flac"
)

// sniffLen covers every magic number filetype knows about.
const sniffLen = 262

// Extensions lists the file extensions treated as audio assets.
var Extensions = []string{".wav", ".mp3", ".flac"}

// IsAudioFile reports whether name carries one of the supported extensions,
// ignoring case.
func IsAudioFile(name string) bool {
	return FormatFromExtension(name) != FormatUnknown
}

// FormatFromExtension maps a filename extension to a Format.
func FormatFromExtension(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	case ".flac":
		return FormatFLAC
	default:
		return FormatUnknown
	}
}

// Sniff reads the header of r and detects the container. It falls back to the
// extension of name when the header does not identify a supported format.
// The reader position is left after the header; callers seek back.
func Sniff(r io.Reader, name string) Format {
	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(r, head)
	if n > 0 {
		if kind, err := filetype.Match(head[:n]); err == nil {
			switch kind.Extension {
			case "wav":
				return FormatWAV
			case "mp3":
				return FormatMP3
			case "flac":
				return FormatFLAC
			}
		}
	}
	return FormatFromExtension(name)
}
