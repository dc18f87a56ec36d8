package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "ASSET_LIBRARY_WORKERS"

// Count returns the number of workers to use for a task.
// It starts from GOMAXPROCS, which honors container CPU limits.
//
// The multiplier adjusts for the workload:
//   - 1.0 for CPU-bound work (thumbnail scaling, archive compression)
//   - 2.0 for I/O-bound work (file copies)
//   - 1.5 for mixed work (decode, scale, write)
//
// limit caps the result; 0 means no cap. A positive integer in
// ASSET_LIBRARY_WORKERS replaces the computed value but is still capped.
func Count(multiplier float64, limit int) int {
	if override, ok := envCount(); ok {
		return capAt(override, limit)
	}

	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if n < 1 {
		n = 1
	}
	return capAt(n, limit)
}

// ForCPU returns the worker count for CPU-bound tasks.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns the worker count for I/O-bound tasks.
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns the worker count for tasks that both read files and
// process them.
func ForMixed(limit int) int {
	return Count(1.5, limit)
}

func envCount() (int, bool) {
	raw := os.Getenv(EnvOverride)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
