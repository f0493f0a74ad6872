package notes

import "strconv"

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func PitchName(pitch uint8) string {
	return pitchNames[pitch%12]
}

func Octave(pitch uint8) int {
	return int(pitch)/12 - 1
}

// Name renders a MIDI note number as pitch class plus octave, 60 -> C4.
func Name(pitch uint8) string {
	return PitchName(pitch) + strconv.Itoa(Octave(pitch))
}

type Note struct {
	Channel uint8
	Pitch   uint8
	// absolute tick of the Note-On
	Start uint64
	// ticks held since creation or since the last flush that saw it open
	Duration uint64
	On       bool
}

func (n Note) Name() string {
	return Name(n.Pitch)
}

// Flushed is one note as it was at flush time.
type Flushed struct {
	Note
	Held bool
}

// Quarters converts the flushed duration to quarter notes.
func (f Flushed) Quarters(ticksPerQuarter uint16) float64 {
	if ticksPerQuarter == 0 {
		return 0
	}
	return float64(f.Duration) / float64(ticksPerQuarter)
}

// Registry keeps every note of a track in creation order. Notes before
// read have been flushed already.
type Registry struct {
	notes []Note
	read  int
	now   uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Len() int {
	return len(r.notes)
}

func (r *Registry) Pending() int {
	return len(r.notes) - r.read
}

// Now is the absolute tick reached so far.
func (r *Registry) Now() uint64 {
	return r.now
}

func (r *Registry) Notes() []Note {
	res := make([]Note, len(r.notes))
	copy(res, r.notes)
	return res
}

func (r *Registry) NoteOn(channel, pitch uint8) {
	r.notes = append(r.notes, Note{
		Channel: channel & 0x0F,
		Pitch:   pitch,
		Start:   r.now,
		On:      true,
	})
}

// NoteOff closes the earliest-created open note on channel with pitch. It
// reports false when no such note is sounding.
func (r *Registry) NoteOff(channel, pitch uint8) bool {
	channel &= 0x0F
	for i := range r.notes {
		n := &r.notes[i]
		if n.On && n.Channel == channel && n.Pitch == pitch {
			n.On = false
			return true
		}
	}
	return false
}

// AddDelta advances time; every open note is held for the extra ticks.
func (r *Registry) AddDelta(ticks uint32) {
	r.now += uint64(ticks)
	for i := range r.notes {
		if r.notes[i].On {
			r.notes[i].Duration += uint64(ticks)
		}
	}
}

// Flush hands back every note created since the previous flush. Notes still
// sounding are tied over: their duration restarts at 0. Returns nil when
// nothing new was created.
func (r *Registry) Flush() []Flushed {
	if r.read == len(r.notes) {
		return nil
	}
	res := make([]Flushed, 0, len(r.notes)-r.read)
	for ; r.read < len(r.notes); r.read++ {
		n := &r.notes[r.read]
		res = append(res, Flushed{Note: *n, Held: n.On})
		if n.On {
			n.Duration = 0
		}
	}
	return res
}
