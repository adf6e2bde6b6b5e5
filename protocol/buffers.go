package protocol

// LineBuffer accumulates operator serial input into lines.
// Carriage returns are dropped so both \n and \r\n terminals work.
type LineBuffer struct {
	buf []byte
	n   int
}

// NewLineBuffer creates a line buffer holding lines of at most size-1 bytes
func NewLineBuffer(size int) *LineBuffer {
	if size < 2 {
		size = 2
	}
	return &LineBuffer{buf: make([]byte, size)}
}

// Feed adds one received byte. It returns the completed line and true when
// c is a newline or the buffer is about to overflow; in the overflow case c
// itself is discarded.
func (l *LineBuffer) Feed(c byte) (string, bool) {
	if l.n == len(l.buf)-1 || c == '\n' {
		line := string(l.buf[:l.n])
		l.n = 0
		return line, true
	}
	if c != '\r' {
		l.buf[l.n] = c
		l.n++
	}
	return "", false
}

// Pending returns the number of bytes buffered for the current line
func (l *LineBuffer) Pending() int {
	return l.n
}

// Reset discards a partial line
func (l *LineBuffer) Reset() {
	l.n = 0
}
