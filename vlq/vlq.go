package vlq

import (
	"errors"

	"github.com/jsphweid/smfnotes/constants"
)

// Max is the largest value a 4 byte quantity can hold.
const Max = 1<<28 - 1

var ErrTooLong = errors.New("variable-length quantity exceeds 4 bytes")
var ErrTruncated = errors.New("variable-length quantity runs past end of buffer")
var ErrOverflow = errors.New("value does not fit in a variable-length quantity")

// Decode reads a big-endian base-128 quantity starting at buf[index] and
// returns the value and the index of the first byte after it.
func Decode(buf []byte, index int) (uint32, int, error) {
	var value uint32
	for i := 0; i < constants.MaxVLQBytes; i++ {
		if index >= len(buf) {
			return 0, index, ErrTruncated
		}
		b := buf[index]
		index++
		value = (value << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, index, nil
		}
	}
	return 0, index, ErrTooLong
}

func Encode(v uint32) ([]byte, error) {
	if v > Max {
		return nil, ErrOverflow
	}
	res := []byte{byte(v & 0x7F)}
	for v >>= 7; v > 0; v >>= 7 {
		res = append([]byte{byte(v&0x7F) | 0x80}, res...)
	}
	return res, nil
}
