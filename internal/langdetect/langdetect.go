package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Unknown is reported when no language could be detected with confidence.
const Unknown = "UNKNOWN"

// maxTagLength is the longest language tag a post can carry.
const maxTagLength = 5

type Detector interface {
	Detect(text string) string
}

// Whatlang detects languages with trigram statistics.
type Whatlang struct {
	// Reliable only accepts results the classifier itself marks reliable.
	Reliable bool
}

func NewWhatlang() Whatlang { return Whatlang{Reliable: true} }

func (d Whatlang) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}
	info := whatlanggo.Detect(text)
	if d.Reliable && !info.IsReliable() {
		return Unknown
	}
	code := info.Lang.Iso6391()
	if code == "" {
		code = info.Lang.Iso6393()
	}
	if code == "" {
		return Unknown
	}
	return code
}

// Tag turns a detector answer into the tag stored with a post: unknown or
// suspiciously long codes become empty.
func Tag(code string) string {
	if code == Unknown || len(code) > maxTagLength {
		return ""
	}
	return code
}
