package status

import (
	"math"
	"time"

	"github.com/CertTrack-HQ/certtrack-backend/internal/workforce/domain"
)

// DefaultSoonThresholdDays is how far ahead a certificate counts as
// "expiring soon" unless the caller overrides it.
const DefaultSoonThresholdDays = 30

// DateLayout is the ISO calendar date format used on certificates and
// projects.
const DateLayout = "2006-01-02"

type Tier string

const (
	TierActive       Tier = "active"
	TierExpiringSoon Tier = "soon"
	TierExpired      Tier = "expired"
	TierArchived     Tier = "archived"
)

// Classification is the derived status of a certificate at a point in time.
// DaysLeft is set for TierExpiringSoon, DaysOverdue for TierExpired.
type Classification struct {
	Tier        Tier
	DaysLeft    int
	DaysOverdue int
}

// DaysUntil returns the whole calendar days from today until dateStr, both
// normalized to midnight in today's location. ok is false when dateStr is
// empty or does not parse as an ISO date.
func DaysUntil(dateStr string, today time.Time) (int, bool) {
	if dateStr == "" {
		return 0, false
	}
	d, err := time.ParseInLocation(DateLayout, dateStr, today.Location())
	if err != nil {
		return 0, false
	}
	d = midnight(d)
	t := midnight(today)
	// Rounding absorbs DST-shortened or -lengthened days.
	return int(math.Round(d.Sub(t).Hours() / 24)), true
}

// Classify derives the status tier for an expiry date. The archived flag
// wins over every other input; an absent or unparsable expiry date means
// the certificate never expires.
func Classify(expiryDate string, archived bool, today time.Time, soonThresholdDays int) Classification {
	if archived {
		return Classification{Tier: TierArchived}
	}
	days, ok := DaysUntil(expiryDate, today)
	if !ok {
		return Classification{Tier: TierActive}
	}
	switch {
	case days < 0:
		return Classification{Tier: TierExpired, DaysOverdue: -days}
	case days <= soonThresholdDays:
		return Classification{Tier: TierExpiringSoon, DaysLeft: days}
	default:
		return Classification{Tier: TierActive}
	}
}

// Certificate classifies a certificate record, honoring its persisted
// archived flag.
func Certificate(c domain.Certificate, today time.Time, soonThresholdDays int) Classification {
	return Classify(c.ExpiryDate, c.Status == domain.CertificateArchived, today, soonThresholdDays)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
