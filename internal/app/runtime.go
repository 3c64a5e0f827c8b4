package app

import (
	"os"
	"sync/atomic"
)

// TestModeEnv disables runtime startup when set to "1".
const TestModeEnv = "QUILL_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether main should skip opening connections and
// listening. The environment is read on first use.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	RefreshTestMode()
	return *testMode.Load()
}

// RefreshTestMode re-reads QUILL_TEST_MODE.
func RefreshTestMode() {
	on := os.Getenv(TestModeEnv) == "1"
	testMode.Store(&on)
}
