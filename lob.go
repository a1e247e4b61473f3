package jsql

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

func lobFreed(typ string) error {
	return NewError(KindException, typ+" has been freed")
}

func lobPosition(typ string, pos int64) error {
	return NewError(KindDataException, typ+": invalid position "+strconv.FormatInt(pos, 10),
		WithSQLState("22003"))
}

func lobLength(typ string, length int64) error {
	return NewError(KindDataException, typ+": invalid length "+strconv.FormatInt(length, 10),
		WithSQLState("22003"))
}

// MemBlob is a Blob held in memory. The zero value is an empty Blob.
type MemBlob struct {
	mu    sync.Mutex
	data  []byte
	freed bool
}

// NewMemBlob returns a MemBlob holding a copy of b.
func NewMemBlob(b []byte) *MemBlob {
	return &MemBlob{data: append([]byte(nil), b...)}
}

var _ Blob = (*MemBlob)(nil)

// Length returns the number of bytes in the Blob.
func (b *MemBlob) Length() (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.freed {
		return 0, lobFreed("Blob")
	}
	return int64(len(b.data)), nil
}

// Bytes returns up to length bytes starting at the 1-based position pos.
func (b *MemBlob) Bytes(pos int64, length int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.freed {
		return nil, lobFreed("Blob")
	}
	start, end, err := span("Blob", pos, int64(length), int64(len(b.data)))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b.data[start:end]...), nil
}

// Reader returns a reader over a snapshot of the whole Blob.
func (b *MemBlob) Reader() (io.Reader, error) {
	n, err := b.Length()
	if err != nil {
		return nil, err
	}
	return b.ReaderAt(1, n)
}

// ReaderAt returns a reader over a snapshot of length bytes from pos.
func (b *MemBlob) ReaderAt(pos, length int64) (io.Reader, error) {
	data, err := b.Bytes(pos, int(length))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// Position returns the 1-based position of pattern at or after start, or
// -1 when it does not occur.
func (b *MemBlob) Position(pattern []byte, start int64) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.freed {
		return 0, lobFreed("Blob")
	}
	if start < 1 || start > int64(len(b.data))+1 {
		return 0, lobPosition("Blob", start)
	}
	i := bytes.Index(b.data[start-1:], pattern)
	if i < 0 {
		return -1, nil
	}
	return start + int64(i), nil
}

// SetBytes writes p at pos, growing the Blob when needed. pos may be one
// past the end.
func (b *MemBlob) SetBytes(pos int64, p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.freed {
		return 0, lobFreed("Blob")
	}
	if pos < 1 || pos > int64(len(b.data))+1 {
		return 0, lobPosition("Blob", pos)
	}
	off := int(pos - 1)
	if end := off + len(p); end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	return copy(b.data[off:], p), nil
}

// Writer returns a writer that stores bytes from pos onwards.
func (b *MemBlob) Writer(pos int64) (io.Writer, error) {
	if _, err := b.Length(); err != nil {
		return nil, err
	}
	return &blobWriter{blob: b, pos: pos}, nil
}

type blobWriter struct {
	blob *MemBlob
	pos  int64
}

func (w *blobWriter) Write(p []byte) (int, error) {
	n, err := w.blob.SetBytes(w.pos, p)
	w.pos += int64(n)
	return n, err
}

// Truncate cuts the Blob to length bytes.
func (b *MemBlob) Truncate(length int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.freed {
		return lobFreed("Blob")
	}
	if length < 0 || length > int64(len(b.data)) {
		return lobLength("Blob", length)
	}
	b.data = b.data[:length]
	return nil
}

// Free releases the data. Calling Free more than once is allowed.
func (b *MemBlob) Free() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.freed = true
	b.data = nil
	return nil
}

// span converts a 1-based position and a length into slice bounds,
// clamping the end to size.
func span(typ string, pos, length, size int64) (int64, int64, error) {
	if pos < 1 || pos > size+1 {
		return 0, 0, lobPosition(typ, pos)
	}
	if length < 0 {
		return 0, 0, lobLength(typ, length)
	}
	start := pos - 1
	end := size
	if length < size-start {
		end = start + length
	}
	return start, end, nil
}

// MemClob is a Clob held in memory. Positions count characters, not bytes.
// The zero value is an empty Clob.
type MemClob struct {
	mu    sync.Mutex
	data  []rune
	freed bool
}

// NewMemClob returns a MemClob holding s.
func NewMemClob(s string) *MemClob {
	return &MemClob{data: []rune(s)}
}

var (
	_ Clob  = (*MemClob)(nil)
	_ NClob = (*MemClob)(nil)
)

// Length returns the number of characters in the Clob.
func (c *MemClob) Length() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.freed {
		return 0, lobFreed("Clob")
	}
	return int64(len(c.data)), nil
}

// SubString returns up to length characters starting at pos.
func (c *MemClob) SubString(pos int64, length int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.freed {
		return "", lobFreed("Clob")
	}
	start, end, err := span("Clob", pos, int64(length), int64(len(c.data)))
	if err != nil {
		return "", err
	}
	return string(c.data[start:end]), nil
}

// Reader returns a reader over a snapshot of the whole Clob, UTF-8 encoded.
func (c *MemClob) Reader() (io.Reader, error) {
	n, err := c.Length()
	if err != nil {
		return nil, err
	}
	return c.ReaderAt(1, n)
}

// ReaderAt returns a reader over a snapshot of length characters from pos.
func (c *MemClob) ReaderAt(pos, length int64) (io.Reader, error) {
	s, err := c.SubString(pos, int(length))
	if err != nil {
		return nil, err
	}
	return strings.NewReader(s), nil
}

// Position returns the position of search at or after start, or -1.
func (c *MemClob) Position(search string, start int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.freed {
		return 0, lobFreed("Clob")
	}
	if start < 1 || start > int64(len(c.data))+1 {
		return 0, lobPosition("Clob", start)
	}
	tail := string(c.data[start-1:])
	i := strings.Index(tail, search)
	if i < 0 {
		return -1, nil
	}
	return start + int64(utf8.RuneCountInString(tail[:i])), nil
}

// SetString writes s at pos, growing the Clob when needed. It returns the
// number of characters written.
func (c *MemClob) SetString(pos int64, s string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.freed {
		return 0, lobFreed("Clob")
	}
	if pos < 1 || pos > int64(len(c.data))+1 {
		return 0, lobPosition("Clob", pos)
	}
	r := []rune(s)
	off := int(pos - 1)
	if end := off + len(r); end > len(c.data) {
		c.data = append(c.data, make([]rune, end-len(c.data))...)
	}
	return copy(c.data[off:], r), nil
}

// Writer returns a writer that stores UTF-8 text from pos onwards. A
// character split across two writes is stored once complete.
func (c *MemClob) Writer(pos int64) (io.Writer, error) {
	if _, err := c.Length(); err != nil {
		return nil, err
	}
	return &clobWriter{clob: c, pos: pos}, nil
}

type clobWriter struct {
	clob    *MemClob
	pos     int64
	pending []byte
}

func (w *clobWriter) Write(p []byte) (int, error) {
	buf := append(w.pending, p...)
	cut := len(buf)
	for cut > 0 && !utf8.FullRune(buf[lastRuneStart(buf[:cut]):cut]) {
		cut = lastRuneStart(buf[:cut])
	}
	n, err := w.clob.SetString(w.pos, string(buf[:cut]))
	if err != nil {
		return 0, err
	}
	w.pos += int64(n)
	w.pending = append(w.pending[:0], buf[cut:]...)
	return len(p), nil
}

func lastRuneStart(b []byte) int {
	i := len(b) - 1
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	if i < 0 {
		return 0
	}
	return i
}

// Truncate cuts the Clob to length characters.
func (c *MemClob) Truncate(length int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.freed {
		return lobFreed("Clob")
	}
	if length < 0 || length > int64(len(c.data)) {
		return lobLength("Clob", length)
	}
	c.data = c.data[:length]
	return nil
}

// Free releases the data. Calling Free more than once is allowed.
func (c *MemClob) Free() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freed = true
	c.data = nil
	return nil
}

// String returns the content of the Clob, or "" once freed.
func (c *MemClob) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.data)
}
