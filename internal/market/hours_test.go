package market

import (
	"testing"
	"time"
)

func kst(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Fatalf("load Asia/Seoul: %v", err)
	}
	return loc
}

func TestHours_IsOpen(t *testing.T) {
	h, err := NewHours("Asia/Seoul", "09:00", "15:30")
	if err != nil {
		t.Fatalf("NewHours failed: %v", err)
	}
	loc := kst(t)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"mid session", time.Date(2024, 1, 3, 11, 0, 0, 0, loc), true}, // Wednesday
		{"at open", time.Date(2024, 1, 3, 9, 0, 0, 0, loc), true},
		{"just before open", time.Date(2024, 1, 3, 8, 59, 0, 0, loc), false},
		{"at close", time.Date(2024, 1, 3, 15, 30, 0, 0, loc), false},
		{"evening", time.Date(2024, 1, 3, 20, 0, 0, 0, loc), false},
		{"saturday", time.Date(2024, 1, 6, 11, 0, 0, 0, loc), false},
		{"sunday", time.Date(2024, 1, 7, 11, 0, 0, 0, loc), false},
	}

	for _, tc := range cases {
		if got := h.IsOpen(tc.at); got != tc.want {
			t.Errorf("%s: IsOpen(%v) = %v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestHours_ConvertsZones(t *testing.T) {
	h, err := NewHours("Asia/Seoul", "09:00", "15:30")
	if err != nil {
		t.Fatalf("NewHours failed: %v", err)
	}

	// 01:00 UTC on a weekday is 10:00 KST.
	if !h.IsOpen(time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC)) {
		t.Error("IsOpen did not convert UTC into the venue zone")
	}
}

func TestNewHours_Rejects(t *testing.T) {
	if _, err := NewHours("Mars/Olympus", "09:00", "15:30"); err == nil {
		t.Error("accepted an unknown timezone")
	}
	if _, err := NewHours("Asia/Seoul", "15:30", "09:00"); err == nil {
		t.Error("accepted close before open")
	}
	if _, err := NewHours("Asia/Seoul", "9am", "15:30"); err == nil {
		t.Error("accepted a malformed clock value")
	}
}
