package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReply(t *testing.T) {
	out := Reply("Alex", "hello")
	assert.Contains(t, out, "Alex:")
	assert.Contains(t, out, "hello")
}

func TestSystem(t *testing.T) {
	assert.Contains(t, System("Mood: happy"), "Mood: happy")
}
