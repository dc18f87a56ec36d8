package sequence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"asset-library/internal/assettypes"
	"asset-library/internal/filesystem"
	"asset-library/internal/logging"
)

// ErrEmptySelection is returned when Detect is called with no files.
var ErrEmptySelection = errors.New("no files selected")

var (
	// framePattern matches <prefix>.<digits><ext>.
	framePattern   = regexp.MustCompile(`^(.+)\.(\d+)(\.[^.]+)$`)
	trailingDigits = regexp.MustCompile(`\.\d+$`)
	firstDigitRun  = regexp.MustCompile(`\d+`)
)

// Selection is the resolved stockshot source list.
type Selection struct {
	Type  assettypes.StockshotType `json:"type"`
	Files []string                 `json:"files"`
	// Name is the suggested display name.
	Name string `json:"name"`
}

// FrameCount is 1 for video and the number of frames otherwise.
func (s Selection) FrameCount() int {
	if s.Type == assettypes.StockshotVideo {
		return 1
	}
	return len(s.Files)
}

// Detect classifies paths. A video extension on the first path wins
// outright. Several stills are taken as-is and ordered. A single still named
// <prefix>.<digits><ext> pulls in every sibling with the same prefix and
// extension.
func Detect(paths []string) (Selection, error) {
	if len(paths) == 0 {
		return Selection{}, ErrEmptySelection
	}

	first := paths[0]
	if assettypes.IsVideo(first) {
		return Selection{
			Type:  assettypes.StockshotVideo,
			Files: []string{first},
			Name:  stem(filepath.Base(first)),
		}, nil
	}

	files := append([]string(nil), paths...)
	if len(paths) == 1 {
		siblings, err := findSiblings(first)
		if err != nil {
			return Selection{}, err
		}
		files = siblings
	}

	SortFrames(files)
	sel := Selection{
		Type:  assettypes.StockshotSequence,
		Files: files,
		Name:  DisplayName(files[0]),
	}
	logging.Debug("Detected sequence %q with %d frames", sel.Name, len(files))
	return sel, nil
}

// findSiblings returns every file next to path sharing its
// <prefix>.<digits><ext> pattern, or just path when it has no frame number.
func findSiblings(path string) ([]string, error) {
	base := filepath.Base(path)
	m := framePattern.FindStringSubmatch(base)
	if m == nil {
		return []string{path}, nil
	}

	prefix, ext := m[1], m[3]
	sibling := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\.(\d+)` + regexp.QuoteMeta(ext) + `$`)

	dir := filepath.Dir(path)
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, assettypes.NewStorageError("scan sequence", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !sibling.MatchString(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	// The selected file was removed between the pick and the scan.
	if len(files) == 0 {
		if _, err := os.Stat(path); err != nil {
			return nil, assettypes.NewStorageError("scan sequence", path, err)
		}
		files = []string{path}
	}
	return files, nil
}

// SortFrames orders paths by frame number. Two names sharing a
// <prefix>.<digits><ext> pattern compare by that frame number; anything else
// compares by the first run of digits, numerically. Equal numbers fall back
// to the full base name, so f.01 comes before f.1. Names without digits go
// last, in lexical order.
func SortFrames(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return lessFrame(filepath.Base(paths[i]), filepath.Base(paths[j]))
	})
}

// SortNames is SortFrames for bare file names.
func SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return lessFrame(names[i], names[j])
	})
}

func lessFrame(a, b string) bool {
	if ma, mb := framePattern.FindStringSubmatch(a), framePattern.FindStringSubmatch(b); ma != nil && mb != nil &&
		ma[1] == mb[1] && ma[3] == mb[3] {
		if c := CompareDigits(ma[2], mb[2]); c != 0 {
			return c < 0
		}
		return a < b
	}

	da := firstDigitRun.FindString(a)
	db := firstDigitRun.FindString(b)

	switch {
	case da == "" && db == "":
		return a < b
	case da == "":
		return false
	case db == "":
		return true
	}

	if c := CompareDigits(da, db); c != 0 {
		return c < 0
	}
	return a < b
}

// CompareDigits compares two decimal digit strings by numeric value without
// parsing, so arbitrarily long frame numbers cannot overflow.
func CompareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// DisplayName derives a name from a frame path: the stem with any trailing
// .<digits> removed, or the stem alone.
func DisplayName(path string) string {
	s := stem(filepath.Base(path))
	if trimmed := trailingDigits.ReplaceAllString(s, ""); trimmed != "" {
		return trimmed
	}
	return s
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// String describes the selection for logs.
func (s Selection) String() string {
	return fmt.Sprintf("%s %q (%d files)", s.Type, s.Name, len(s.Files))
}
