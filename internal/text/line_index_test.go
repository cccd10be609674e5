package text

import "testing"

func TestLineIndexOffsetPoint(t *testing.T) {
	t.Parallel()

	src := []byte("ab\ncd")
	idx := NewLineIndex(src)

	if got := idx.LineCount(); got != 2 {
		t.Fatalf("LineCount() = %d, want 2", got)
	}

	tests := map[ByteOffset]Point{
		0: {Line: 0, Column: 0},
		2: {Line: 0, Column: 2}, // before '\n'
		3: {Line: 1, Column: 0},
		5: {Line: 1, Column: 2}, // EOF
	}

	for off, want := range tests {
		got, err := idx.OffsetToPoint(off)
		if err != nil {
			t.Fatalf("OffsetToPoint(%d) error = %v", off, err)
		}
		if got != want {
			t.Fatalf("OffsetToPoint(%d) = %+v, want %+v", off, got, want)
		}

		roundTrip, err := idx.PointToOffset(got)
		if err != nil {
			t.Fatalf("PointToOffset(%+v) error = %v", got, err)
		}
		if roundTrip != off {
			t.Fatalf("PointToOffset(OffsetToPoint(%d)) = %d, want %d", off, roundTrip, off)
		}
	}
}

func TestLineIndexCRLFAndBlankLines(t *testing.T) {
	t.Parallel()

	src := []byte("a\r\nb\n\nc")
	idx := NewLineIndex(src)

	if got := idx.LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}

	cases := []struct {
		off  ByteOffset
		want Point
	}{
		{off: 1, want: Point{Line: 0, Column: 1}}, // '\r'
		{off: 3, want: Point{Line: 1, Column: 0}},
		{off: 5, want: Point{Line: 2, Column: 0}}, // empty line
		{off: 6, want: Point{Line: 3, Column: 0}},
	}
	for _, tc := range cases {
		got, err := idx.OffsetToPoint(tc.off)
		if err != nil {
			t.Fatalf("OffsetToPoint(%d) error = %v", tc.off, err)
		}
		if got != tc.want {
			t.Fatalf("OffsetToPoint(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestLineIndexLineContent(t *testing.T) {
	t.Parallel()

	idx := NewLineIndex([]byte("first\r\nsecond\nlast"))

	tests := []struct {
		line int
		want string
	}{
		{line: 0, want: "first"},
		{line: 1, want: "second"},
		{line: 2, want: "last"},
	}
	for _, tc := range tests {
		got, err := idx.Line(tc.line)
		if err != nil {
			t.Fatalf("Line(%d) error = %v", tc.line, err)
		}
		if string(got) != tc.want {
			t.Fatalf("Line(%d) = %q, want %q", tc.line, got, tc.want)
		}
	}

	if _, err := idx.Line(3); err == nil {
		t.Fatal("Line(3) succeeded, want out-of-range error")
	}
}

func TestLineIndexOffsetValidation(t *testing.T) {
	t.Parallel()

	idx := NewLineIndex([]byte("x\ny"))

	if _, err := idx.OffsetToPoint(-1); err == nil {
		t.Fatal("OffsetToPoint(-1) succeeded, want error")
	}
	if _, err := idx.OffsetToPoint(4); err == nil {
		t.Fatal("OffsetToPoint(past EOF) succeeded, want error")
	}
	if _, err := idx.PointToOffset(Point{Line: 5, Column: 0}); err == nil {
		t.Fatal("PointToOffset(bad line) succeeded, want error")
	}
	if _, err := idx.PointToOffset(Point{Line: 0, Column: 9}); err == nil {
		t.Fatal("PointToOffset(bad column) succeeded, want error")
	}
}

func TestNilLineIndex(t *testing.T) {
	t.Parallel()

	var idx *LineIndex
	if got := idx.LineCount(); got != 0 {
		t.Fatalf("nil LineCount() = %d, want 0", got)
	}
	if got := idx.SourceLen(); got != 0 {
		t.Fatalf("nil SourceLen() = %d, want 0", got)
	}
	if _, err := idx.OffsetToPoint(0); err == nil {
		t.Fatal("nil OffsetToPoint succeeded, want error")
	}
}
