package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"asset-library/internal/logging"
)

const (
	// DefaultRatio is the share of the container limit given to the Go heap.
	DefaultRatio = 0.75

	// EnvLimit carries the container memory limit, e.g. "4G" or "4294967296".
	EnvLimit = "ASSET_LIBRARY_MEMORY_LIMIT"
	// EnvRatio overrides DefaultRatio.
	EnvRatio = "ASSET_LIBRARY_MEMORY_RATIO"
)

// Result describes what ConfigureFromEnv did.
type Result struct {
	// Source is "GOMEMLIMIT", EnvLimit or "none".
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// Configured reports whether a Go memory limit is in effect.
func (r Result) Configured() bool {
	return r.GoMemLimit > 0
}

// ConfigureFromEnv applies the limit described by the environment. Call it
// early in main, before large allocations.
func ConfigureFromEnv() Result {
	res := resolve(os.Getenv)

	switch res.Source {
	case "GOMEMLIMIT":
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			res.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", FormatBytes(res.GoMemLimit))
	case EnvLimit:
		debug.SetMemoryLimit(res.GoMemLimit)
		logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s)",
			FormatBytes(res.GoMemLimit), res.Ratio*100, FormatBytes(res.ContainerLimit))
	default:
		logging.Debug("%s not set, GOMEMLIMIT left at the runtime default", EnvLimit)
	}
	return res
}

// resolve computes the limit without applying it.
func resolve(getenv func(string) string) Result {
	if getenv("GOMEMLIMIT") != "" {
		return Result{Source: "GOMEMLIMIT"}
	}

	raw := strings.TrimSpace(getenv(EnvLimit))
	if raw == "" {
		return Result{Source: "none"}
	}
	limit, err := ParseBytes(raw)
	if err != nil || limit <= 0 {
		logging.Warn("Ignoring %s=%q: not a positive size", EnvLimit, raw)
		return Result{Source: "none"}
	}

	ratio := DefaultRatio
	if s := strings.TrimSpace(getenv(EnvRatio)); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		switch {
		case err != nil:
			logging.Warn("Failed to parse %s %q: %v, using %.2f", EnvRatio, s, err, DefaultRatio)
		case parsed <= 0 || parsed > 1:
			logging.Warn("%s %q out of range (0.0-1.0], using %.2f", EnvRatio, s, DefaultRatio)
		default:
			ratio = parsed
		}
	}

	return Result{
		Source:         EnvLimit,
		ContainerLimit: limit,
		GoMemLimit:     int64(float64(limit) * ratio),
		Ratio:          ratio,
	}
}

// Longer suffixes first so "MiB" is not read as "B".
var sizeSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"KiB", 1 << 10}, {"MiB", 1 << 20}, {"GiB", 1 << 30}, {"TiB", 1 << 40},
	{"Ki", 1 << 10}, {"Mi", 1 << 20}, {"Gi", 1 << 30}, {"Ti", 1 << 40},
	{"K", 1 << 10}, {"M", 1 << 20}, {"G", 1 << 30}, {"T", 1 << 40},
	{"B", 1},
}

// ParseBytes parses a byte count with an optional binary suffix, as
// container limits are usually written ("512Mi", "4G", "1073741824").
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	mult := int64(1)
	for _, sf := range sizeSuffixes {
		if strings.HasSuffix(s, sf.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, sf.suffix))
			mult = sf.mult
			break
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse size: %w", err)
	}
	if n > math.MaxInt64/mult {
		return 0, fmt.Errorf("size %s overflows", s)
	}
	return n * mult, nil
}

// FormatBytes formats bytes into human-readable string
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
