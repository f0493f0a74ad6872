package model

type Notes = []uint8

type FileNumToMidiPath = map[uint32]string

// Chord is a set of pitches that start on the same tick of one track.
type Chord struct {
	Tick    uint64
	Notes   Notes
	FileNum uint32
	Track   int
}
