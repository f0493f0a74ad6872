package channel

import (
	"errors"

	"github.com/jsphweid/smfnotes/cursor"
)

var ErrNoRunningStatus = errors.New("data byte with no running status in effect")
var ErrUnexpectedStatus = errors.New("status byte where a data byte was expected")
var ErrNotChannelStatus = errors.New("not a channel or system common status")

type Kind uint8

const (
	NoteOff         Kind = 0x80
	NoteOn          Kind = 0x90
	PolyPressure    Kind = 0xA0
	ControlChange   Kind = 0xB0
	ProgramChange   Kind = 0xC0
	ChannelPressure Kind = 0xD0
	PitchBend       Kind = 0xE0
	SystemCommon    Kind = 0xF0
)

// bytes following a system common / realtime status
var systemDataLength = map[byte]int{
	0xF1: 1, // MTC quarter frame
	0xF2: 2, // song position
	0xF3: 1, // song select
	0xF4: 0,
	0xF5: 0,
	0xF6: 0, // tune request
	0xF8: 0,
	0xF9: 0,
	0xFA: 0,
	0xFB: 0,
	0xFC: 0,
	0xFD: 0,
	0xFE: 0,
}

// DataLength returns how many data bytes follow status.
func DataLength(status byte) (int, error) {
	switch Kind(status & 0xF0) {
	case NoteOff, NoteOn, PolyPressure, ControlChange, PitchBend:
		return 2, nil
	case ProgramChange, ChannelPressure:
		return 1, nil
	}
	if n, ok := systemDataLength[status]; ok {
		return n, nil
	}
	return 0, ErrNotChannelStatus
}

type Message struct {
	Status byte
	Data   [2]byte
	// Running is set when the status byte was carried over.
	Running bool
}

func (m Message) Kind() Kind {
	if m.Status >= 0xF0 {
		return SystemCommon
	}
	return Kind(m.Status & 0xF0)
}

func (m Message) Channel() uint8 {
	return m.Status & 0x0F
}

func (m Message) Pitch() uint8 {
	return m.Data[0]
}

func (m Message) Velocity() uint8 {
	return m.Data[1]
}

// Decode reads the data bytes for status. The cursor must be on the first
// data byte, whether the status was explicit or carried over.
func Decode(c *cursor.Cursor, status byte, running bool) (Message, error) {
	msg := Message{Status: status, Running: running}
	n, err := DataLength(status)
	if err != nil {
		return msg, c.Errorf("status 0x%02X: %w", status, err)
	}
	for i := 0; i < n; i++ {
		b, err := c.Peek()
		if err != nil {
			return msg, err
		}
		if b&0x80 != 0 {
			return msg, c.Errorf("0x%02X after status 0x%02X: %w", b, status, ErrUnexpectedStatus)
		}
		c.Next()
		msg.Data[i] = b
	}
	return msg, nil
}

type NoteSink interface {
	NoteOn(channel, pitch uint8)
	NoteOff(channel, pitch uint8) bool
}

// Apply forwards note messages to sink. A Note-On with velocity 0 is a
// Note-Off. It reports whether the message touched the sink.
func Apply(m Message, sink NoteSink) bool {
	switch m.Kind() {
	case NoteOn:
		if m.Velocity() > 0 {
			sink.NoteOn(m.Channel(), m.Pitch())
			return true
		}
		sink.NoteOff(m.Channel(), m.Pitch())
		return true
	case NoteOff:
		sink.NoteOff(m.Channel(), m.Pitch())
		return true
	}
	return false
}
