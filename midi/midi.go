package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("error reading midi file... %w", err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("error parsing midi file... %w", err)
	}

	return res, nil
}

type TrackSummary struct {
	Name      string
	Events    int
	NoteOns   int
	NoteOffs  int
	Meta      int
	Channels  []uint8
	LastTicks int64
}

type Summary struct {
	Format          uint16
	TicksPerQuarter uint16
	// empty for metrical time
	TimeFormat string
	Tracks     []TrackSummary
}

// Summarize counts events the way gomidi sees them, as a cross-check for
// the transcript decoder.
func Summarize(s *smf.SMF) Summary {
	res := Summary{Format: uint16(s.Format())}
	if tf, ok := s.TimeFormat.(smf.MetricTicks); ok {
		res.TicksPerQuarter = uint16(tf)
	} else {
		res.TimeFormat = fmt.Sprintf("%v", s.TimeFormat)
	}

	for _, track := range s.Tracks {
		var ts TrackSummary
		seen := make(map[uint8]bool)
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)
			ts.Events++

			msg := ev.Message
			var ch, key, vel uint8
			var text string
			switch {
			case msg.GetNoteOn(&ch, &key, &vel):
				ts.NoteOns++
				seen[ch] = true
			case msg.GetNoteOff(&ch, &key, &vel):
				ts.NoteOffs++
				seen[ch] = true
			case msg.GetMetaTrackName(&text):
				ts.Name = text
				ts.Meta++
			case msg.IsMeta():
				ts.Meta++
			}
		}
		ts.LastTicks = abs
		for ch := uint8(0); ch < 16; ch++ {
			if seen[ch] {
				ts.Channels = append(ts.Channels, ch)
			}
		}
		res.Tracks = append(res.Tracks, ts)
	}
	return res
}
