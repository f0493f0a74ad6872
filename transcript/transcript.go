package transcript

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/smfnotes/charset"
	"github.com/jsphweid/smfnotes/file"
	"github.com/jsphweid/smfnotes/meta"
	"github.com/jsphweid/smfnotes/model"
	"github.com/jsphweid/smfnotes/notes"
	"github.com/jsphweid/smfnotes/track"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
)

// FormatNumber prints up to 6 significant digits: 120, 0.5, 0.333333.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// ParseAll parses every track of f in order. It stops at the first track
// that fails; that track is still returned with whatever was decoded.
func ParseAll(f *file.File) ([]*track.Track, error) {
	var res []*track.Track
	for i, buf := range f.Tracks {
		tr, err := track.NewParser(buf).WithFields(logrus.Fields{"track": i}).Run()
		res = append(res, tr)
		if err != nil {
			return res, errors.Wrapf(err, "track %d", i)
		}
	}
	return res, nil
}

// MetaValue renders the payload half of a "<Label>: <payload>" line.
func MetaValue(ev meta.Event, enc encoding.Encoding) string {
	if ev.Kind.IsText() {
		return charset.Decode(enc, ev.Payload)
	}

	switch ev.Kind {
	case meta.SequenceNumber:
		if !ev.HasSequenceNumber() {
			return "(track position)"
		}
		return strconv.Itoa(int(ev.SequenceNumber()))
	case meta.ChannelPrefix, meta.Port:
		return strconv.Itoa(int(ev.Channel()))
	case meta.EndOfTrack:
		return "---"
	case meta.SetTempo:
		return FormatNumber(ev.BPM()) + " BPM"
	case meta.SMPTEOffset:
		return ev.SMPTE()
	case meta.TimeSignature:
		ts := ev.TimeSignature()
		return fmt.Sprintf("%d/%d\n\tMIDI clocks per quarter note: %d\n\tNumber of 32nd notes per 24 MIDI clocks: %d",
			ts.Numerator, ts.Denominator, ts.ClocksPerClick, ts.ThirtySeconds)
	case meta.KeySignature:
		ks := ev.KeySignature()
		if !ks.Valid() {
			logrus.WithField("accidentals", ks.Accidentals).Warn("key signature out of range")
		}
		return ks.String()
	case meta.SequencerSpecific:
		return fmt.Sprintf("% X", ev.Payload)
	}
	return fmt.Sprintf("type 0x%02X, %d bytes", ev.Type, len(ev.Payload))
}

func NoteValue(n notes.Flushed, ticksPerQuarter uint16) string {
	q := FormatNumber(n.Quarters(ticksPerQuarter))
	if n.Held {
		return "(" + q + ")"
	}
	return q
}

type Writer struct {
	w     io.Writer
	enc   encoding.Encoding
	ticks uint16
}

func NewWriter(w io.Writer, enc encoding.Encoding) *Writer {
	return &Writer{w: w, enc: enc}
}

func (t *Writer) Header(h file.Header) {
	t.ticks = h.TicksPerQuarter()
	fmt.Fprintf(t.w, "Format: %s\n", h.FormatDescription())
	fmt.Fprintf(t.w, "Number of tracks: %d\n", h.NumTracks)
	fmt.Fprintf(t.w, "Ticks per quarter note: %d\n\n", t.ticks)
}

func (t *Writer) Notes(flushed []notes.Flushed) {
	if len(flushed) == 0 {
		return
	}
	var sb strings.Builder
	sb.WriteString("MIDI Notes:\n")
	for _, n := range flushed {
		sb.WriteString(n.Name())
		sb.WriteByte(' ')
		sb.WriteString(NoteValue(n, t.ticks))
		sb.WriteByte('\n')
	}
	io.WriteString(t.w, sb.String())
}

func (t *Writer) Meta(ev meta.Event) {
	fmt.Fprintf(t.w, "%v: %s\n", ev.Kind, MetaValue(ev, t.enc))
	if ev.Kind == meta.EndOfTrack {
		fmt.Fprintln(t.w)
	}
}

func (t *Writer) Track(tr *track.Track) {
	for _, e := range tr.Entries {
		if e.Meta != nil {
			t.Meta(*e.Meta)
			continue
		}
		t.Notes(e.Notes)
	}
}

// Write prints the header summary then each track. Output for a failing
// track stops where decoding stopped.
func Write(w io.Writer, f *file.File, enc encoding.Encoding) error {
	tw := NewWriter(w, enc)
	tw.Header(f.Header)
	tracks, err := ParseAll(f)
	for _, tr := range tracks {
		tw.Track(tr)
	}
	return err
}

// Build is the JSON form of Write. A failing track carries its error and
// ends the list.
func Build(id string, f *file.File, enc encoding.Encoding) model.TranscriptResponse {
	h := f.Header
	res := model.TranscriptResponse{
		ID:              id,
		Format:          h.Format,
		NumTracks:       h.NumTracks,
		TicksPerQuarter: h.TicksPerQuarter(),
		Tracks:          []model.TranscriptTrack{},
	}

	tracks, err := ParseAll(f)
	for i, tr := range tracks {
		mt := model.TranscriptTrack{Index: i, Ended: tr.Ended, Entries: []model.TranscriptEntry{}}
		for _, e := range tr.Entries {
			me := model.TranscriptEntry{Tick: e.Tick}
			if e.Meta != nil {
				me.Label = e.Meta.Kind.String()
				me.Value = MetaValue(*e.Meta, enc)
			}
			for _, n := range e.Notes {
				me.Notes = append(me.Notes, model.TranscriptNote{
					Name:     n.Name(),
					Channel:  n.Channel,
					Pitch:    n.Pitch,
					Start:    n.Start,
					Quarters: n.Quarters(h.TicksPerQuarter()),
					Held:     n.Held,
				})
			}
			mt.Entries = append(mt.Entries, me)
		}
		if err != nil && i == len(tracks)-1 {
			mt.Error = err.Error()
		}
		res.Tracks = append(res.Tracks, mt)
	}
	return res
}
