package main

import "testing"

func TestParseMaxPlanAgeAcceptsNaturalLanguageDurations(t *testing.T) {
	for _, phrase := range []string{"2 days", "1 hour", "last night"} {
		d, err := parseMaxPlanAge(phrase)
		if err != nil {
			t.Fatalf("parseMaxPlanAge(%q): %v", phrase, err)
		}
		if d <= 0 {
			t.Fatalf("parseMaxPlanAge(%q) returned non-positive duration %v", phrase, d)
		}
	}
}

func TestParseMaxPlanAgeRejectsUnparseablePhrase(t *testing.T) {
	if _, err := parseMaxPlanAge("gibberish not a duration at all"); err == nil {
		t.Fatal("expected an error for an unparseable phrase")
	}
}

func TestPlanIsStaleByAgeFalseWhenNoPhraseGiven(t *testing.T) {
	if planIsStaleByAge("") {
		t.Fatal("expected no staleness check when --max-plan-age is unset")
	}
}

func TestPlanIsStaleByAgeFalseWhenNoExistingPlan(t *testing.T) {
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())
	if planIsStaleByAge("1 second") {
		t.Fatal("expected false when there is no existing plan to compare against")
	}
}
