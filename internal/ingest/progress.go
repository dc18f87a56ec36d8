package ingest

// Progress is one step of a long-running import.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Status  string `json:"status"`
}

// ProgressSink receives progress events. A nil event means the import has
// finished, successfully or not.
type ProgressSink interface {
	Report(p *Progress)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(p *Progress)

// Report calls f.
func (f ProgressFunc) Report(p *Progress) {
	if f != nil {
		f(p)
	}
}

type discard struct{}

func (discard) Report(*Progress) {}

// sinkOrDiscard never returns nil.
func sinkOrDiscard(s ProgressSink) ProgressSink {
	if s == nil {
		return discard{}
	}
	return s
}
