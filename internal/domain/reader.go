package domain

// FieldReader consumes one line of a fixed-width file from left to right.
// Positions are byte offsets; NOAA files are ASCII.
type FieldReader struct {
	line string
	pos  int
}

// NewFieldReader returns a reader positioned at the start of line.
func NewFieldReader(line string) *FieldReader {
	return &FieldReader{line: line}
}

// Eat returns the next n bytes and advances the cursor by n. Past the end of
// the line the result is truncated or empty; it never fails.
func (r *FieldReader) Eat(n int) string {
	if n <= 0 {
		return ""
	}
	start := min(r.pos, len(r.line))
	end := min(r.pos+n, len(r.line))
	r.pos += n
	return r.line[start:end]
}

// Rest returns everything not yet consumed and moves the cursor to the end.
func (r *FieldReader) Rest() string {
	if r.pos >= len(r.line) {
		return ""
	}
	rest := r.line[r.pos:]
	r.pos = len(r.line)
	return rest
}

// Pos reports how many bytes have been consumed, including any consumed past
// the end of the line.
func (r *FieldReader) Pos() int { return r.pos }
