// Package content defines the visibility modes shared by chapters and
// volumes, and the effective-mode rule that ties them together.
package content

import "fmt"

// Mode is the visibility state of a chapter or volume.
type Mode string

const (
	// ModePublished is readable by everyone, including anonymous visitors.
	ModePublished Mode = "published"
	// ModeDraft is visible to staff only.
	ModeDraft Mode = "draft"
	// ModeProtected requires an authenticated account.
	ModeProtected Mode = "protected"
	// ModePaid requires a rental covering the owning volume.
	ModePaid Mode = "paid"
)

// ValidModes enumerates every accepted mode value.
var ValidModes = map[Mode]bool{
	ModePublished: true,
	ModeDraft:     true,
	ModeProtected: true,
	ModePaid:      true,
}

func (m Mode) String() string {
	return string(m)
}

func (m Mode) IsValid() bool {
	return ValidModes[m]
}

// ParseMode validates and converts a raw string into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid content mode: %q", s)
	}
	return m, nil
}

// Effective resolves a chapter's visibility against its owning volume.
// A paid volume overrides whatever the chapter says: every contained chapter
// is effectively paid. In all other cases the chapter's own mode stands.
func Effective(chapterMode, volumeMode Mode) Mode {
	if volumeMode == ModePaid {
		return ModePaid
	}
	return chapterMode
}
