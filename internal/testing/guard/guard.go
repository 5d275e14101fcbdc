// Package guard flips the runtime into test mode as a side effect of being
// imported, keeping binaries from starting servers inside test processes.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("WAYBILL_TEST_MODE") == "" {
			_ = os.Setenv("WAYBILL_TEST_MODE", "1")
		}
	})
}
