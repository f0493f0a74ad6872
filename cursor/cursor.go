package cursor

import (
	"fmt"

	"github.com/jsphweid/smfnotes/vlq"
	"github.com/pkg/errors"
)

var ErrOutOfRange = errors.New("read past end of track")

// OffsetError ties a decode failure to the byte offset it happened at.
type OffsetError struct {
	Offset int
	Err    error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *OffsetError) Unwrap() error {
	return e.Err
}

// Cursor walks a track buffer strictly left to right. The buffer is never
// written to after New.
type Cursor struct {
	buf []byte
	pos int
}

func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.buf)
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) Done() bool {
	return c.pos >= len(c.buf)
}

func (c *Cursor) Errorf(format string, args ...any) error {
	return &OffsetError{Offset: c.pos, Err: fmt.Errorf(format, args...)}
}

func (c *Cursor) wrap(err error) error {
	return &OffsetError{Offset: c.pos, Err: err}
}

func (c *Cursor) Peek() (byte, error) {
	if c.Done() {
		return 0, c.wrap(ErrOutOfRange)
	}
	return c.buf[c.pos], nil
}

func (c *Cursor) Next() (byte, error) {
	b, err := c.Peek()
	if err != nil {
		return 0, err
	}
	c.pos++
	return b, nil
}

// Take returns the next n bytes. The slice aliases the track buffer.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, c.wrap(errors.Wrapf(ErrOutOfRange, "want %d bytes, have %d", n, c.Remaining()))
	}
	res := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return res, nil
}

func (c *Cursor) VLQ() (uint32, error) {
	v, next, err := vlq.Decode(c.buf, c.pos)
	if err != nil {
		return 0, c.wrap(err)
	}
	c.pos = next
	return v, nil
}
