package highlight

import (
	"fmt"
	"time"
)

// MaxDescriptionLength is the longest description the highlights API accepts, in characters.
const MaxDescriptionLength = 255

// DateLayout is the day format used in file names and by the highlights API.
const DateLayout = "2006-01-02"

// ShortDescription is a description clamped to MaxDescriptionLength characters.
// The zero value is an empty description.
type ShortDescription struct {
	value     string
	truncated bool
}

// NewShortDescription keeps the first MaxDescriptionLength runes of s and drops the rest.
func NewShortDescription(s string) ShortDescription {
	count := 0
	for i := range s {
		if count == MaxDescriptionLength {
			return ShortDescription{value: s[:i], truncated: true}
		}
		count++
	}
	return ShortDescription{value: s}
}

// String returns the description as a plain string.
func (d ShortDescription) String() string {
	return d.value
}

// Truncated reports whether characters were dropped at construction.
func (d ShortDescription) Truncated() bool {
	return d.truncated
}

// Len returns the length in characters.
func (d ShortDescription) Len() int {
	return len([]rune(d.value))
}

// MarshalText encodes the clamped value as a plain string.
func (d ShortDescription) MarshalText() ([]byte, error) {
	return []byte(d.value), nil
}

// Highlight is a single dated note parsed from a shortlog line
type Highlight struct {
	Date        time.Time        `json:"date"`
	Description ShortDescription `json:"description"`
	// Line is the 1-based position among the non-empty lines of the file.
	Line int `json:"line"`
}

// Day returns the highlight date in the API's YYYY-MM-DD form.
func (h Highlight) Day() string {
	return h.Date.Format(DateLayout)
}

func (h Highlight) String() string {
	return fmt.Sprintf("Highlight(date=%s, description=%q)", h.Date.Format("2006-01-02 15:04:05"), h.Description.String())
}

// APIResponse is the acknowledgement returned by the highlights API.
type APIResponse struct {
	Message string `json:"message"`
}
