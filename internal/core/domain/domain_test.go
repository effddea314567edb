package domain

import (
	"math"
	"testing"
	"time"
)

func TestParseIntent(t *testing.T) {
	cases := map[string]Intent{
		"receiver": IntentReceiver,
		"donor":    IntentDonor,
		"":         IntentDonor,
		"Receiver": IntentDonor,
		"anything": IntentDonor,
	}
	for in, want := range cases {
		if got := ParseIntent(in); got != want {
			t.Fatalf("ParseIntent(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestIntent_Opposite(t *testing.T) {
	if IntentDonor.Opposite() != IntentReceiver || IntentReceiver.Opposite() != IntentDonor {
		t.Fatalf("opposite intents are not symmetric")
	}
}

func TestPosition_Validate(t *testing.T) {
	valid := []Position{{0, 0}, {90, 180}, {-90, -180}, {34.05, -118.24}}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Fatalf("%+v should be valid: %v", p, err)
		}
	}
	invalid := []Position{{91, 0}, {0, 181}, {math.NaN(), 0}, {0, math.NaN()}}
	for _, p := range invalid {
		if err := p.Validate(); err != ErrInvalidPosition {
			t.Fatalf("%+v should be invalid, got %v", p, err)
		}
	}
}

func TestClampCapacity(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 42: 42, 100: 100, 140: 100} {
		if got := ClampCapacity(in); got != want {
			t.Fatalf("ClampCapacity(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestFoodItem_ExpiredOn(t *testing.T) {
	today := time.Date(2025, 5, 16, 15, 0, 0, 0, time.UTC)
	item := FoodItem{ExpiryDate: TruncateDay(today)}
	if item.ExpiredOn(today) {
		t.Fatalf("food expiring today is not expired")
	}
	if !item.ExpiredOn(today.AddDate(0, 0, 1)) {
		t.Fatalf("food is expired the day after its expiry date")
	}
}

func TestSession_Complete(t *testing.T) {
	if (Session{Token: "t"}).Complete() || (Session{Role: RoleAdmin}).Complete() {
		t.Fatalf("partial sessions are not complete")
	}
	if !(Session{Token: "t", Role: RoleAdmin}).Complete() {
		t.Fatalf("token and role make a complete session")
	}
}
