package terminal

import "testing"

func TestIsInteractiveWithoutTTY(t *testing.T) {
	// Test processes run with piped stdio, so detection must come back false
	// rather than erroring or hanging.
	if IsInteractive() {
		t.Fatal("IsInteractive() = true for a non-terminal test process")
	}
}
