package meta

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/smfnotes/cursor"
	"github.com/sirupsen/logrus"
)

type Kind int

const (
	SequenceNumber Kind = iota
	Text
	Copyright
	TrackName
	Instrument
	Lyric
	Marker
	CuePoint
	ChannelPrefix
	Port
	EndOfTrack
	SetTempo
	SMPTEOffset
	TimeSignature
	KeySignature
	SequencerSpecific
	Unrecognized
)

var labels = map[Kind]string{
	SequenceNumber:    "Sequence Number",
	Text:              "Text",
	Copyright:         "Copyright Notice",
	TrackName:         "Sequence/Track Name",
	Instrument:        "Instrument",
	Lyric:             "Lyrics",
	Marker:            "Marker",
	CuePoint:          "Cue Point",
	ChannelPrefix:     "MIDI Channel",
	Port:              "MIDI Port",
	EndOfTrack:        "End of Track",
	SetTempo:          "Set Tempo",
	SMPTEOffset:       "SMPTE Offset",
	TimeSignature:     "Time Signature",
	KeySignature:      "Key Signature",
	SequencerSpecific: "Sequencer Specific Event",
	Unrecognized:      "Unidentified MIDI Event",
}

func (k Kind) String() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return labels[Unrecognized]
}

// KindOf maps the byte after 0xFF to its kind.
func KindOf(typ byte) Kind {
	switch {
	case typ == 0x00:
		return SequenceNumber
	case typ >= 0x01 && typ <= 0x07:
		return Text + Kind(typ-0x01)
	case typ == 0x20:
		return ChannelPrefix
	case typ == 0x21:
		return Port
	case typ == 0x2F:
		return EndOfTrack
	case typ == 0x51:
		return SetTempo
	case typ == 0x54:
		return SMPTEOffset
	case typ == 0x58:
		return TimeSignature
	case typ == 0x59:
		return KeySignature
	case typ == 0x7F:
		return SequencerSpecific
	default:
		return Unrecognized
	}
}

// FixedLength reports the payload size of kinds whose size is set by the
// file format rather than by the event.
func (k Kind) FixedLength() (int, bool) {
	switch k {
	case SequenceNumber:
		return 2, true
	case ChannelPrefix, Port:
		return 1, true
	case EndOfTrack:
		return 0, true
	case SetTempo:
		return 3, true
	case SMPTEOffset:
		return 5, true
	case TimeSignature:
		return 4, true
	case KeySignature:
		return 2, true
	}
	return 0, false
}

func (k Kind) IsText() bool {
	return k >= Text && k <= CuePoint
}

type Event struct {
	Kind Kind
	Type byte
	// Payload holds the fixed bytes for fixed-length kinds and the
	// declared bytes for everything else.
	Payload []byte
}

// Decode reads one meta event. The cursor must sit just past the type byte,
// on the declared length.
func Decode(c *cursor.Cursor, typ byte) (Event, error) {
	ev := Event{Kind: KindOf(typ), Type: typ}
	start := c.Pos()

	length, err := c.VLQ()
	if err != nil {
		return ev, err
	}
	if int(length) > c.Remaining() {
		return ev, c.Errorf("meta event 0x%02X declares %d bytes, only %d left in track", typ, length, c.Remaining())
	}

	payload, err := c.Take(int(length))
	if err != nil {
		return ev, err
	}

	fixed, ok := ev.Kind.FixedLength()
	if !ok {
		if ev.Kind == Unrecognized {
			logrus.WithFields(logrus.Fields{"offset": start, "type": fmt.Sprintf("0x%02X", typ)}).
				Warn("unrecognized meta event, skipping declared length")
		}
		ev.Payload = payload
		return ev, nil
	}

	// FF 00 00: the sequence number is the track's position in the file
	if ev.Kind == SequenceNumber && length == 0 {
		ev.Payload = payload
		return ev, nil
	}
	if int(length) < fixed {
		return ev, &cursor.OffsetError{
			Offset: start,
			Err:    fmt.Errorf("%v needs %d bytes, declared %d", ev.Kind, fixed, length),
		}
	}
	if int(length) != fixed {
		logrus.WithFields(logrus.Fields{"offset": start, "kind": ev.Kind.String()}).
			Warnf("declared length %d, expected %d; extra bytes ignored", length, fixed)
	}
	ev.Payload = payload[:fixed]
	return ev, nil
}

// HasSequenceNumber is false for the zero-length form of the event.
func (e Event) HasSequenceNumber() bool {
	return e.Kind == SequenceNumber && len(e.Payload) == 2
}

func (e Event) SequenceNumber() uint16 {
	if len(e.Payload) < 2 {
		return 0
	}
	return uint16(e.Payload[0])<<8 | uint16(e.Payload[1])
}

func (e Event) Channel() uint8 {
	return e.Payload[0]
}

// Microseconds per quarter note.
func (e Event) Tempo() uint32 {
	return uint32(e.Payload[0])<<16 | uint32(e.Payload[1])<<8 | uint32(e.Payload[2])
}

func (e Event) BPM() float64 {
	us := e.Tempo()
	if us == 0 {
		return 0
	}
	return 60000000 / float64(us)
}

func (e Event) SMPTE() string {
	parts := make([]string, len(e.Payload))
	for i, b := range e.Payload {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ":")
}

type TimeSig struct {
	Numerator      uint8
	Denominator    uint32
	ClocksPerClick uint8
	ThirtySeconds  uint8
}

func (e Event) TimeSignature() TimeSig {
	return TimeSig{
		Numerator:      e.Payload[0],
		Denominator:    powerOfTwo(e.Payload[1]),
		ClocksPerClick: e.Payload[2],
		ThirtySeconds:  e.Payload[3],
	}
}

func powerOfTwo(exp uint8) uint32 {
	if exp > 31 {
		return 0
	}
	return 1 << exp
}

var keyNames = [15]string{"Cb", "Gb", "Db", "Ab", "Eb", "Bb", "F", "C", "G", "D", "A", "E", "B", "F#", "C#"}

type KeySig struct {
	// negative for flats, positive for sharps
	Accidentals int8
	Minor       bool
}

func (e Event) KeySignature() KeySig {
	return KeySig{Accidentals: int8(e.Payload[0]), Minor: e.Payload[1] != 0}
}

// Tonic returns "???" when the accidental count is outside -7..7.
func (k KeySig) Tonic() string {
	if k.Accidentals < -7 || k.Accidentals > 7 {
		return "???"
	}
	return keyNames[int(k.Accidentals)+7]
}

func (k KeySig) Valid() bool {
	return k.Accidentals >= -7 && k.Accidentals <= 7
}

func (k KeySig) String() string {
	if k.Minor {
		return k.Tonic() + " minor"
	}
	return k.Tonic() + " Major"
}
