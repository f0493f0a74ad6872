package cursor

import (
	"errors"
	"testing"

	"github.com/jsphweid/smfnotes/vlq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAndPeek(t *testing.T) {
	c := New([]byte{0x90, 0x3C})

	b, err := c.Peek()
	require.NoError(t, err)
	assert.Equal(t, byte(0x90), b)
	assert.Equal(t, 0, c.Pos())

	b, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, byte(0x90), b)
	b, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, byte(0x3C), b)
	assert.True(t, c.Done())

	_, err = c.Next()
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTakePastEndReportsOffset(t *testing.T) {
	c := New([]byte{1, 2, 3})
	_, err := c.Next()
	require.NoError(t, err)

	_, err = c.Take(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)

	var oe *OffsetError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 1, oe.Offset)
	assert.Equal(t, 1, c.Pos())
}

func TestTake(t *testing.T) {
	c := New([]byte{1, 2, 3, 4})
	got, err := c.Take(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Equal(t, 1, c.Remaining())
}

func TestVLQ(t *testing.T) {
	c := New([]byte{0x81, 0x00, 0x05})
	v, err := c.VLQ()
	require.NoError(t, err)
	assert.Equal(t, uint32(128), v)
	assert.Equal(t, 2, c.Pos())

	c = New([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F})
	_, err = c.VLQ()
	assert.ErrorIs(t, err, vlq.ErrTooLong)
}
