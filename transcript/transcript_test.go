package transcript

import (
	"bytes"
	"testing"

	"github.com/jsphweid/smfnotes/file"
	"github.com/jsphweid/smfnotes/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func smfBytes(division uint16, tracks ...[]byte) []byte {
	res := []byte{
		0x4D, 0x54, 0x68, 0x64, // MThd
		0x00, 0x00, 0x00, 0x06,
		0x00, 0x00,
		0x00, byte(len(tracks)),
		byte(division >> 8), byte(division),
	}
	if len(tracks) > 1 {
		res[9] = 1
	}
	for _, tr := range tracks {
		n := len(tr)
		res = append(res, 0x4D, 0x54, 0x72, 0x6B, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
		res = append(res, tr...)
	}
	return res
}

var pianoTrack = []byte{
	0x00, 0xFF, 0x03, 0x05, 'P', 'i', 'a', 'n', 'o',
	0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
	0x00, 0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08,
	0x00, 0xFF, 0x59, 0x02, 0xFF, 0x00,
	0x00, 0x90, 0x3C, 0x40,
	0x00, 0x40, 0x40,
	0x83, 0x60, 0x80, 0x3C, 0x00,
	0x00, 0x40, 0x00,
	0x00, 0x90, 0x43, 0x40,
	0x81, 0x70, 0xFF, 0x06, 0x04, 'V', 'e', 'r', 's',
	0x81, 0x70, 0x43, 0x00,
	0x00, 0xFF, 0x2F, 0x00,
}

const pianoTranscript = "Format: single multi-channel track\n" +
	"Number of tracks: 1\n" +
	"Ticks per quarter note: 480\n" +
	"\n" +
	"Sequence/Track Name: Piano\n" +
	"Set Tempo: 120 BPM\n" +
	"Time Signature: 4/4\n" +
	"\tMIDI clocks per quarter note: 24\n" +
	"\tNumber of 32nd notes per 24 MIDI clocks: 8\n" +
	"Key Signature: F Major\n" +
	"MIDI Notes:\n" +
	"C4 1\n" +
	"E4 1\n" +
	"G4 (0.5)\n" +
	"Marker: Vers\n" +
	"End of Track: ---\n" +
	"\n"

func TestWriteTranscript(t *testing.T) {
	f, err := file.Parse(bytes.NewReader(smfBytes(480, pianoTrack)))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Write(&out, f, nil))
	assert.Equal(t, pianoTranscript, out.String())
}

func TestWriteStopsAtFailingTrack(t *testing.T) {
	bad := []byte{0x00, 0x90, 0x3C, 0x40, 0x10, 0xFF, 0x03, 0x20, 'x'}
	never := []byte{0x00, 0xFF, 0x01, 0x01, 'z', 0x00, 0xFF, 0x2F, 0x00}
	f, err := file.Parse(bytes.NewReader(smfBytes(96, bad, never)))
	require.NoError(t, err)

	var out bytes.Buffer
	err = Write(&out, f, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "track 0")
	assert.Contains(t, out.String(), "MIDI Notes:\nC4 (0.166667)\n")
	assert.NotContains(t, out.String(), "Text: z")
}

func TestMetaValue(t *testing.T) {
	cases := []struct {
		ev   meta.Event
		want string
	}{
		{meta.Event{Kind: meta.SequenceNumber, Payload: []byte{0, 7}}, "7"},
		{meta.Event{Kind: meta.SequenceNumber, Payload: []byte{}}, "(track position)"},
		{meta.Event{Kind: meta.ChannelPrefix, Payload: []byte{9}}, "9"},
		{meta.Event{Kind: meta.SetTempo, Payload: []byte{0x09, 0x27, 0xC0}}, "100 BPM"},
		{meta.Event{Kind: meta.SMPTEOffset, Payload: []byte{1, 2, 3, 4, 5}}, "1:2:3:4:5"},
		{meta.Event{Kind: meta.KeySignature, Payload: []byte{3, 1}}, "A minor"},
		{meta.Event{Kind: meta.KeySignature, Payload: []byte{12, 0}}, "??? Major"},
		{meta.Event{Kind: meta.SequencerSpecific, Payload: []byte{0x00, 0x00, 0x41}}, "00 00 41"},
		{meta.Event{Kind: meta.Unrecognized, Type: 0x60, Payload: []byte{1, 2}}, "type 0x60, 2 bytes"},
		{meta.Event{Kind: meta.Lyric, Payload: []byte("la")}, "la"},
	}
	for _, c := range cases {
		t.Run(c.ev.Kind.String(), func(t *testing.T) {
			assert.Equal(t, c.want, MetaValue(c.ev, nil))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "120", FormatNumber(120))
	assert.Equal(t, "0.5", FormatNumber(0.5))
	assert.Equal(t, "0.333333", FormatNumber(1.0/3))
	assert.Equal(t, "0", FormatNumber(0))
}

func TestBuild(t *testing.T) {
	f, err := file.Parse(bytes.NewReader(smfBytes(480, pianoTrack)))
	require.NoError(t, err)

	res := Build("abc", f, nil)
	assert.Equal(t, "abc", res.ID)
	assert.Equal(t, uint16(480), res.TicksPerQuarter)
	require.Len(t, res.Tracks, 1)

	tr := res.Tracks[0]
	assert.True(t, tr.Ended)
	assert.Empty(t, tr.Error)
	require.Len(t, tr.Entries, 7)
	assert.Equal(t, "Set Tempo", tr.Entries[1].Label)
	assert.Equal(t, "120 BPM", tr.Entries[1].Value)

	flushed := tr.Entries[4].Notes
	require.Len(t, flushed, 3)
	assert.Equal(t, "G4", flushed[2].Name)
	assert.True(t, flushed[2].Held)
	assert.Equal(t, 0.5, flushed[2].Quarters)
	assert.Equal(t, uint64(480), flushed[2].Start)
	assert.Equal(t, uint64(720), tr.Entries[5].Tick)
}

// The gomidi writer is an independent encoder; its output must decode to
// the same notes.
func TestDecodesGomidiOutput(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("Lead"))
	tr.Add(0, smf.MetaTempo(90))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(0, midi.NoteOn(0, 64, 100))
	tr.Add(960, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOff(0, 64))
	tr.Add(240, midi.NoteOn(1, 69, 90))
	tr.Add(240, midi.NoteOff(1, 69))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	f, err := file.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, f.Tracks, 1)

	tracks, err := ParseAll(f)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.True(t, tracks[0].Ended)

	var out bytes.Buffer
	w := NewWriter(&out, nil)
	w.Header(f.Header)
	w.Track(tracks[0])

	assert.Contains(t, out.String(), "Sequence/Track Name: Lead\n")
	assert.Contains(t, out.String(), "MIDI Notes:\nC4 2\nE4 2\nA4 0.5\n")
	assert.Contains(t, out.String(), "End of Track: ---\n")

	var tempo *meta.Event
	for _, e := range tracks[0].Entries {
		if e.Meta != nil && e.Meta.Kind == meta.SetTempo {
			tempo = e.Meta
		}
	}
	require.NotNil(t, tempo)
	assert.InDelta(t, 90.0, tempo.BPM(), 0.01)
}
