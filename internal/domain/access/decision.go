// Package access decides whether a request may read a chapter. Evaluation is
// a pure function over snapshots handed in by the caller; denials are normal
// outcomes, never errors.
package access

import "time"

// Reason names the single rule that produced a decision.
type Reason string

const (
	// ReasonAdmin and ReasonModerator grant unconditionally by role.
	ReasonAdmin     Reason = "admin"
	ReasonModerator Reason = "moderator"
	// ReasonPJUser grants project staff listed on the novel's roster.
	ReasonPJUser Reason = "pj_user"
	// ReasonPublished grants a publicly visible chapter.
	ReasonPublished Reason = "published"
	// ReasonProtected grants a protected chapter to an authenticated user.
	ReasonProtected Reason = "protected-authenticated"
	// ReasonRental grants a paid chapter through a valid volume rental.
	ReasonRental Reason = "rental"
	// ReasonVolumeRental grants a chapter whose volume is paid, through a
	// valid rental, even when the chapter's own mode is more permissive.
	ReasonVolumeRental Reason = "volume-rental"
	// ReasonDenied is the only reason carried by denials.
	ReasonDenied Reason = "denied"
)

// RentalInfo is attached to rental-granted decisions only.
type RentalInfo struct {
	EndTime       time.Time
	TimeRemaining time.Duration
}

// Decision is the outcome of one evaluation. Exactly one reason is set.
// Message is only populated on denials and explains what the reader is
// missing (authentication, payment), so the handler can surface it verbatim.
type Decision struct {
	Granted    bool
	Reason     Reason
	Message    string
	RentalInfo *RentalInfo
}

func granted(reason Reason) Decision {
	return Decision{Granted: true, Reason: reason}
}

func grantedWithRental(reason Reason, info RentalInfo) Decision {
	return Decision{Granted: true, Reason: reason, RentalInfo: &info}
}

func denied(message string) Decision {
	return Decision{Granted: false, Reason: ReasonDenied, Message: message}
}
