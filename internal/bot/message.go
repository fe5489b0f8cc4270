package bot

import (
	"context"
	"strings"
)

type Kind int

const (
	KindText Kind = iota
	KindImage
	KindAudio
)

// Inbound is one gateway delivery, already stripped of transport framing.
type Inbound struct {
	Sender     string // normalized phone number
	Text       string
	MediaURL   string
	MediaType  string // MIME type of the first attachment, if any
	MessageSID string // gateway message id, used for duplicate detection
}

func (in Inbound) Kind() Kind {
	switch {
	case strings.HasPrefix(in.MediaType, "image/"):
		return KindImage
	case strings.HasPrefix(in.MediaType, "audio/"):
		return KindAudio
	default:
		return KindText
	}
}

// Speech transcribes a voice note and translates the transcript to English.
type Speech interface {
	TranscribeAndTranslate(ctx context.Context, mediaURL string) (string, error)
}

// BarcodeScanner decodes the barcode in an image attachment.
type BarcodeScanner interface {
	Decode(ctx context.Context, mediaURL string) (string, error)
}

// Normalize lowercases and collapses whitespace; every inbound text passes
// through here before parsing or flow matching.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
