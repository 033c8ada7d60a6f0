package domain

// Status is the outcome of processing one input file
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult describes what happened to one input file
type FileResult struct {
	Path        string
	OutputPath  string
	Kind        Kind
	Status      Status
	InputBytes  int64
	OutputBytes int64
	InWidth     int
	InHeight    int
	OutWidth    int
	OutHeight   int
	Frames      int
	Factor      float64
	Err         error
}

// Resized reports whether the output dimensions differ from the input
func (r FileResult) Resized() bool {
	return r.InWidth != r.OutWidth || r.InHeight != r.OutHeight
}

// BatchSummary aggregates the results of one batch run
type BatchSummary struct {
	Total              int
	Processed          int
	Failed             int
	SkippedVideo       int
	SkippedUnsupported int
	BytesBefore        int64
	BytesAfter         int64
}

// Add folds a file result into the summary
func (s *BatchSummary) Add(r FileResult) {
	s.Total++
	switch r.Status {
	case StatusProcessed:
		s.Processed++
		s.BytesBefore += r.InputBytes
		s.BytesAfter += r.OutputBytes
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		if r.Kind == KindVideo {
			s.SkippedVideo++
		} else {
			s.SkippedUnsupported++
		}
	}
}
