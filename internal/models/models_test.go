package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsValidSignal tests the S-meter vocabulary.
func TestIsValidSignal(t *testing.T) {
	for _, s := range []string{"S0", "S5", "S9", "S9+10", "S9+30"} {
		assert.True(t, IsValidSignal(s), s)
	}
	for _, s := range []string{"", "s9", "S10", "S9+40", "loud"} {
		assert.False(t, IsValidSignal(s), s)
	}
}
