package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from BidStatus
		to   BidStatus
		want bool
	}{
		{BidPending, BidApproved, true},
		{BidPending, BidRejected, true},
		{BidPending, BidConfirmed, false},
		{BidPending, BidPending, false},
		{BidApproved, BidConfirmed, true},
		{BidApproved, BidRejected, false},
		{BidApproved, BidPending, false},
		{BidRejected, BidApproved, false},
		{BidConfirmed, BidApproved, false},
		{BidConfirmed, BidRejected, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestHourlyRate(t *testing.T) {
	cases := []struct {
		tier Tier
		want float64
	}{
		{TierJunior, 20},
		{TierRegular, 25},
		{TierSenior, 30},
		{Tier("未知级别"), 25},
	}

	for _, tc := range cases {
		if got := HourlyRate(tc.tier); got != tc.want {
			t.Fatalf("HourlyRate(%s) = %v, want %v", tc.tier, got, tc.want)
		}
	}
}
