package scrub

import (
	"strings"
	"testing"
)

func TestScrubberMasksIdentifiers(t *testing.T) {
	scrubber, err := NewScrubber(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scrubber: %v", err)
	}

	note := "Reach me at jane@example.com or (555) 123-4567, badge EMP-20417"
	cleaned := scrubber.Clean(note)

	if strings.Contains(cleaned, "jane@example.com") {
		t.Fatalf("email survived scrubbing: %q", cleaned)
	}
	if strings.Contains(cleaned, "555") {
		t.Fatalf("phone survived scrubbing: %q", cleaned)
	}
	if strings.Contains(cleaned, "EMP-20417") {
		t.Fatalf("employee id survived scrubbing: %q", cleaned)
	}

	findings := scrubber.Detect(note)
	if len(findings) != 3 {
		t.Fatalf("expected three findings, got %v", findings)
	}
}

func TestScrubberLeavesPlainNotesAlone(t *testing.T) {
	scrubber, err := NewScrubber(DefaultRules())
	if err != nil {
		t.Fatalf("failed to create scrubber: %v", err)
	}

	note := "Headache started after the afternoon standup"
	if cleaned := scrubber.Clean(note); cleaned != note {
		t.Fatalf("plain note was modified: %q", cleaned)
	}
}

func TestNilScrubberPassesThrough(t *testing.T) {
	var scrubber *Scrubber
	if got := scrubber.Clean("anything"); got != "anything" {
		t.Fatalf("nil scrubber modified text: %q", got)
	}
}
