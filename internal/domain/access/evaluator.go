package access

import (
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/domain/novel"
	"github.com/inkwell-press/inkwell/internal/domain/rental"
	"github.com/inkwell-press/inkwell/internal/domain/user"
	"github.com/inkwell-press/inkwell/internal/domain/volume"
)

// Input carries the snapshots one evaluation runs over. User is nil for
// anonymous requests. Rental is the pre-fetched active rental for the
// (user, volume) pair, nil when none exists; the caller only needs to look
// one up when a paid path is reachable.
type Input struct {
	Chapter *chapter.Chapter
	Volume  *volume.Volume
	Novel   *novel.Novel
	User    *user.User
	Rental  *rental.Rental
	Now     time.Time
}

const (
	msgAuthRequired = "sign in to read this chapter"
	msgDraft        = "this chapter has not been published"
	msgGeneric      = "you do not have access to this chapter"
)

// Evaluate decides whether the request may read the chapter. Rules apply in
// priority order and the first match wins:
//
//  1. admin and moderator roles always pass
//  2. project staff listed on the novel's roster pass
//  3. draft chapters deny everyone else
//  4. a paid chapter, or any chapter inside a paid volume, requires a valid
//     rental covering the volume
//  5. published chapters pass; protected chapters pass authenticated users
//
// The paid-volume override runs before the chapter's own published/protected
// modes: a paid volume makes every contained chapter effectively paid.
// Evaluation never mutates anything and never fails; malformed input falls
// through to a denial.
func Evaluate(in Input) Decision {
	if in.Chapter == nil || in.Volume == nil || in.Novel == nil {
		return denied(msgGeneric)
	}

	if in.User != nil {
		switch in.User.Role() {
		case user.RoleAdmin:
			return granted(ReasonAdmin)
		case user.RoleModerator:
			return granted(ReasonModerator)
		case user.RolePJUser:
			if in.Novel.HasStaff(in.User.ID(), in.User.Username()) {
				return granted(ReasonPJUser)
			}
		}
	}

	// Draft is staff-only; staff already passed above. No further checks,
	// not even a rental on a paid volume, reveal a draft chapter.
	if in.Chapter.Mode() == content.ModeDraft {
		return denied(msgDraft)
	}

	if in.Chapter.Mode() == content.ModePaid {
		return evaluateRental(in, ReasonRental, fmt.Sprintf(
			"this chapter costs %d coins; rent the volume to read it", in.Chapter.Price()))
	}

	// Volume-level paid overrides the chapter's own, more permissive mode.
	if in.Volume.Mode() == content.ModePaid {
		return evaluateRental(in, ReasonVolumeRental, fmt.Sprintf(
			"this volume is paid; rent it for %d coins to read its chapters", in.Volume.RentPrice()))
	}

	switch in.Chapter.Mode() {
	case content.ModePublished:
		return granted(ReasonPublished)
	case content.ModeProtected:
		if in.User != nil {
			return granted(ReasonProtected)
		}
		return denied(msgAuthRequired)
	}

	return denied(msgGeneric)
}

func evaluateRental(in Input, reason Reason, priceMessage string) Decision {
	r := in.Rental
	if in.User == nil || r == nil {
		return denied(priceMessage)
	}
	// The rental must cover this exact (user, volume) pair and still run.
	if r.UserID() != in.User.ID() || r.VolumeID() != in.Volume.ID() {
		return denied(priceMessage)
	}
	if !r.IsValidAt(in.Now) {
		return denied(priceMessage)
	}
	return grantedWithRental(reason, RentalInfo{
		EndTime:       r.EndTime(),
		TimeRemaining: r.TimeRemainingAt(in.Now),
	})
}
