package savings

import (
	"testing"
	"time"

	"amanah/models"
)

func TestSuggestMonthlyEvenSplit(t *testing.T) {
	store := newFakeStore()
	now := date(2026, time.January, 10)
	got, err := SuggestMonthly(store, 1, d("1200"), date(2026, time.June, 10), now)
	if err != nil {
		t.Fatalf("SuggestMonthly: %v", err)
	}
	if !got.Equal(d("240.00")) {
		t.Errorf("1200 over 5 months = %s, want 240.00", got)
	}
}

func TestSuggestMonthlyRoundsUp(t *testing.T) {
	store := newFakeStore()
	now := date(2026, time.January, 10)
	got, err := SuggestMonthly(store, 1, d("1000"), date(2026, time.April, 10), now)
	if err != nil {
		t.Fatalf("SuggestMonthly: %v", err)
	}
	// 1000/3 = 333.33..., ceiling keeps the goal funded.
	if !got.Equal(d("333.34")) {
		t.Errorf("1000 over 3 months = %s, want 333.34", got)
	}
}

func TestSuggestMonthlyPastTargetDate(t *testing.T) {
	store := newFakeStore()
	now := date(2026, time.June, 10)
	for _, target := range []time.Time{
		date(2026, time.May, 1),   // past
		date(2026, time.June, 25), // current month, no whole month left
	} {
		got, err := SuggestMonthly(store, 1, d("500"), target, now)
		if err != nil {
			t.Fatalf("SuggestMonthly: %v", err)
		}
		if !got.Equal(d("500")) {
			t.Errorf("target %s: got %s, want full 500 due now", target.Format("2006-01-02"), got)
		}
	}
}

func TestSuggestMonthlyGoalAlreadyMet(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, models.Transaction{ChildID: 1, Amount: d("1500")})
	now := date(2026, time.January, 10)
	got, err := SuggestMonthly(store, 1, d("1200"), date(2026, time.June, 10), now)
	if err != nil {
		t.Fatalf("SuggestMonthly: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("met goal suggestion = %s, want 0", got)
	}
}

func TestSuggestMonthlyUsesBalance(t *testing.T) {
	store := newFakeStore()
	store.transactions = append(store.transactions, models.Transaction{ChildID: 1, Amount: d("200")})
	now := date(2026, time.January, 10)
	got, err := SuggestMonthly(store, 1, d("1200"), date(2026, time.June, 10), now)
	if err != nil {
		t.Fatalf("SuggestMonthly: %v", err)
	}
	if !got.Equal(d("200.00")) {
		t.Errorf("(1200-200) over 5 months = %s, want 200.00", got)
	}
}

func TestProjectCompletion(t *testing.T) {
	now := date(2026, time.January, 10)
	goal := &models.Goal{TargetAmount: d("1000"), MonthlyContribution: d("300")}

	when, ok := ProjectCompletion(goal, d("0"), now)
	if !ok {
		t.Fatalf("expected a projection")
	}
	// ceil(1000/300) = 4 months
	if want := date(2026, time.May, 10); !when.Equal(want) {
		t.Errorf("projection = %s, want %s", when.Format("2006-01-02"), want.Format("2006-01-02"))
	}

	when, ok = ProjectCompletion(goal, d("400"), now)
	if !ok {
		t.Fatalf("expected a projection")
	}
	// ceil(600/300) = 2 months
	if want := date(2026, time.March, 10); !when.Equal(want) {
		t.Errorf("projection = %s, want %s", when.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

func TestProjectCompletionUndefined(t *testing.T) {
	now := date(2026, time.January, 10)
	if _, ok := ProjectCompletion(&models.Goal{TargetAmount: d("1000")}, d("0"), now); ok {
		t.Errorf("zero contribution should have no projection")
	}
	goal := &models.Goal{TargetAmount: d("1000"), MonthlyContribution: d("100")}
	if _, ok := ProjectCompletion(goal, d("1000"), now); ok {
		t.Errorf("met goal should have no projection")
	}
}

func TestMonthsRemainingFloorsAtZero(t *testing.T) {
	now := date(2026, time.June, 10)
	past := &models.Goal{TargetDate: date(2026, time.January, 1)}
	if got := MonthsRemaining(past, now); got != 0 {
		t.Errorf("past target MonthsRemaining = %d, want 0", got)
	}
	future := &models.Goal{TargetDate: date(2026, time.December, 10)}
	if got := MonthsRemaining(future, now); got != 6 {
		t.Errorf("future target MonthsRemaining = %d, want 6", got)
	}
}
