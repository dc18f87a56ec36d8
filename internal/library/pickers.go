package library

import (
	"context"
	"sync"

	"asset-library/internal/assettypes"
)

// Filter restricts a picker to a set of extensions, without dots.
type Filter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

// FilePicker asks the user for files. An empty selection, or an error
// wrapping assettypes.ErrCanceled, means the user dismissed the picker.
type FilePicker interface {
	PickFiles(ctx context.Context, title string, filters []Filter, multi bool) ([]string, error)
}

// SavePicker asks the user where to write a file. An empty path means the
// picker was dismissed.
type SavePicker interface {
	PickSaveLocation(ctx context.Context, title, suggested string, filters []Filter) (string, error)
}

// StaticPicker answers successive PickFiles calls with preset selections.
// Once the selections run out every call is treated as dismissed. It backs
// CLI flags and HTTP request bodies.
type StaticPicker struct {
	mu         sync.Mutex
	selections [][]string
}

// NewStaticPicker returns a picker that hands out selections in order.
func NewStaticPicker(selections ...[]string) *StaticPicker {
	return &StaticPicker{selections: selections}
}

// PickFiles returns the next preset selection. Single-select calls get the
// first path only.
func (p *StaticPicker) PickFiles(_ context.Context, _ string, _ []Filter, multi bool) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.selections) == 0 {
		return nil, nil
	}
	next := p.selections[0]
	p.selections = p.selections[1:]

	if !multi && len(next) > 1 {
		next = next[:1]
	}
	return append([]string(nil), next...), nil
}

// StaticSaveLocation is a SavePicker that always answers with itself.
type StaticSaveLocation string

// PickSaveLocation returns the preset path.
func (s StaticSaveLocation) PickSaveLocation(context.Context, string, string, []Filter) (string, error) {
	return string(s), nil
}

var (
	imageExtensions = append(assettypes.ExtensionList(assettypes.StillExtensions), assettypes.ExtensionList(assettypes.WideGamutExtensions)...)

	modelFilters   = []Filter{{Name: "FBX", Extensions: assettypes.ExtensionList(assettypes.ModelExtensions)}}
	textureFilters = []Filter{{Name: "Images", Extensions: imageExtensions}}
	stockFilters   = []Filter{
		{Name: "Videos", Extensions: assettypes.ExtensionList(assettypes.VideoExtensions)},
		{Name: "Images", Extensions: imageExtensions},
	}
	zipFilters = []Filter{{Name: "Archive ZIP", Extensions: []string{"zip"}}}
)
