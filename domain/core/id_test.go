package core

import (
	"errors"
	"fmt"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestRunIDShort(t *testing.T) {
	id := RunID("0192f3a4-1b2c-7d3e-8f40-123456789abc")
	if id.Short() != "0192f3a4" {
		t.Errorf("Expected short form '0192f3a4', got '%s'", id.Short())
	}
	if RunID("plain").Short() != "plain" {
		t.Errorf("Expected IDs without dashes to be returned whole")
	}
}

func TestComputeOutcomeHash(t *testing.T) {
	a := ComputeOutcomeHash([]bool{true, false, true})
	b := ComputeOutcomeHash([]bool{true, false, true})
	c := ComputeOutcomeHash([]bool{true, true, false})

	if !a.Equals(b) {
		t.Error("Expected identical sequences to hash equal")
	}
	if a.Equals(c) {
		t.Error("Expected reordered sequence to hash differently")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected 12 character short hash, got %q", a.Short())
	}
}

func TestDomainErrorsWrapSentinels(t *testing.T) {
	err := fmt.Errorf("theta=1.5: %w", ErrInvalidParameter)
	if !IsInvalidParameter(err) {
		t.Errorf("Expected invalid parameter error, got %v", err)
	}
	if IsDegenerateSample(err) {
		t.Error("Invalid parameter error should not match degenerate sample")
	}

	if !IsDegenerateSample(fmt.Errorf("no observations: %w", ErrDegenerateSample)) {
		t.Error("Expected degenerate sample error")
	}
	if IsRenderingFailure(errors.New("disk full")) {
		t.Error("Plain errors should not match rendering failure")
	}
}
