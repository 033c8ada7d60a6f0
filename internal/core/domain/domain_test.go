package domain

import (
	"errors"
	"testing"
)

func TestNaming_OutputName(t *testing.T) {
	tests := []struct {
		name     string
		naming   Naming
		input    string
		expected string
	}{
		{"same name keeps base", NamingSameName, "/in/photo.jpg", "photo.jpg"},
		{"same name keeps case", NamingSameName, "/in/Photo.JPEG", "Photo.JPEG"},
		{"suffix before extension", NamingSuffix, "/in/photo.jpg", "photo_optimized.jpg"},
		{"suffix on gif", NamingSuffix, "loop.gif", "loop_optimized.gif"},
		{"suffix without extension", NamingSuffix, "README", "README_optimized"},
		{"empty naming behaves like same name", Naming(""), "a/b.png", "b.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.naming.OutputName(tt.input); got != tt.expected {
				t.Errorf("OutputName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSizeConstraint_Validate(t *testing.T) {
	if err := MaxDimensionConstraint(1500).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := MaxByteSizeConstraint(10 * BytesPerMB).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := MaxDimensionConstraint(0).Validate(); err == nil {
		t.Error("expected error for zero limit")
	}
	if err := (SizeConstraint{Limit: 10}).Validate(); err == nil {
		t.Error("expected error for missing kind")
	}
}

func TestBatchSummary_Add(t *testing.T) {
	var s BatchSummary
	s.Add(FileResult{Status: StatusProcessed, InputBytes: 100, OutputBytes: 40})
	s.Add(FileResult{Status: StatusProcessed, InputBytes: 50, OutputBytes: 50})
	s.Add(FileResult{Status: StatusFailed, Err: ErrSourceUnreadable})
	s.Add(FileResult{Status: StatusSkipped, Kind: KindVideo})
	s.Add(FileResult{Status: StatusSkipped, Kind: KindUnsupported})

	if s.Total != 5 || s.Processed != 2 || s.Failed != 1 || s.SkippedVideo != 1 || s.SkippedUnsupported != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.BytesBefore != 150 || s.BytesAfter != 90 {
		t.Errorf("unexpected byte totals: before=%d after=%d", s.BytesBefore, s.BytesAfter)
	}
}

func TestObject_PreservesKeyOrder(t *testing.T) {
	o := NewObject()
	o.Set("title", "Bridge")
	o.Set("previewImage", "a.jpg")
	o.Set("content", NewObject())
	o.Set("title", "Bridge 2")

	keys := o.Keys()
	expected := []string{"title", "previewImage", "content"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("key %d = %q, want %q", i, keys[i], expected[i])
		}
	}

	if s, _ := o.StringAt("title"); s != "Bridge 2" {
		t.Errorf("expected overwritten title, got %q", s)
	}
	if _, ok := o.Object("content"); !ok {
		t.Error("expected nested object")
	}
	if _, ok := o.StringAt("content"); ok {
		t.Error("nested object should not read as string")
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{ErrSourceUnreadable, ErrEmptyFrameSequence, ErrDestinationUnwritable, ErrMalformedRecord, ErrUnsupportedFormat}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
