package models

import "time"

// refundWindowDays is the number of calendar days after creation during
// which a settled tip may still be refunded.
const refundWindowDays = 7

// IsRefundEligible reports whether a refund may be initiated for the tip.
//
// A tip is eligible only when its payment has settled (status "processed"),
// a Stripe payment intent exists to reverse, and the record is at most
// seven calendar days old. Malformed timestamps yield false rather than an
// error: the policy fails closed.
func IsRefundEligible(tip TipRecord) bool {
	return refundEligibleAt(tip, time.Now())
}

// refundEligibleAt evaluates the refund policy against an explicit clock.
//
// The cutoff uses calendar-day subtraction (AddDate), not a fixed 168h
// duration, so the boundary tracks day-of-month arithmetic across DST
// transitions. A tip created exactly at the cutoff is still eligible.
func refundEligibleAt(tip TipRecord, now time.Time) bool {
	if tip.Status != StatusProcessed {
		return false
	}

	if tip.StripePaymentIntentID == "" {
		return false
	}

	createdAt, err := time.Parse(time.RFC3339, tip.CreatedAt)
	if err != nil {
		return false
	}

	cutoff := now.AddDate(0, 0, -refundWindowDays)
	return !createdAt.Before(cutoff)
}
