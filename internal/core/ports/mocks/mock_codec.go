package mocks

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// MockFrameSource yields preset frames and then an optional error
type MockFrameSource struct {
	Frames []domain.Frame
	Err    error // Returned after Frames are exhausted instead of io.EOF
	Info   domain.Metadata
	Closed bool
	next   int
}

func (m *MockFrameSource) Meta() domain.Metadata {
	return m.Info
}

func (m *MockFrameSource) Next() (domain.Frame, error) {
	if m.next < len(m.Frames) {
		f := m.Frames[m.next]
		m.next++
		return f, nil
	}
	if m.Err != nil {
		return domain.Frame{}, m.Err
	}
	return domain.Frame{}, io.EOF
}

func (m *MockFrameSource) Close() error {
	m.Closed = true
	return nil
}

// MockCodec returns a preset source from Decode and records encoded assets
type MockCodec struct {
	mu        sync.Mutex
	FormatVal domain.Format
	KindVal   domain.Kind
	Source    *MockFrameSource
	DecodeErr error
	EncodeErr error
	Encoded   []*domain.RasterAsset
}

// NewMockCodec creates a mock codec for a format
func NewMockCodec(format domain.Format, kind domain.Kind) *MockCodec {
	return &MockCodec{FormatVal: format, KindVal: kind}
}

func (m *MockCodec) Format() domain.Format {
	return m.FormatVal
}

func (m *MockCodec) Kind() domain.Kind {
	return m.KindVal
}

func (m *MockCodec) Decode(r io.Reader) (ports.FrameSource, error) {
	if m.DecodeErr != nil {
		return nil, m.DecodeErr
	}
	if m.Source == nil {
		return nil, errors.New("mock codec has no source")
	}
	return m.Source, nil
}

// Encode writes a short marker so callers can observe output size
func (m *MockCodec) Encode(w io.Writer, asset *domain.RasterAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EncodeErr != nil {
		return m.EncodeErr
	}
	m.Encoded = append(m.Encoded, asset)
	w0, h0 := asset.Bounds()
	_, err := io.Copy(w, bytes.NewBufferString(fmt.Sprintf("mock %s %dx%d frames=%d", m.FormatVal, w0, h0, len(asset.Frames))))
	return err
}
