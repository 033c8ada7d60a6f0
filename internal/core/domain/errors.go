package domain

import "errors"

var (
	// ErrSourceUnreadable covers missing, corrupt or undecodable inputs
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrEmptyFrameSequence is returned when a decoder yields no frames
	ErrEmptyFrameSequence = errors.New("no decodable frames")

	// ErrDestinationUnwritable means the output directory cannot be created
	ErrDestinationUnwritable = errors.New("destination unwritable")

	// ErrMalformedRecord is returned for record files that are not JSON objects
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnsupportedFormat is returned for extensions outside the dispatch table
	ErrUnsupportedFormat = errors.New("unsupported format")
)
