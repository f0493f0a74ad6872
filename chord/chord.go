package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/smfnotes/model"
	"github.com/jsphweid/smfnotes/notes"
)

func CreateChordKey(notes []uint8) string {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i] < notes[j]
	})
	var res string
	for i, note := range notes {
		res += fmt.Sprintf("%v", note)
		if i < len(notes)-1 {
			res += "-"
		}
	}
	return res
}

// GetChords groups the notes of one track by start tick. Single notes and
// repeated pitches on the same tick do not make a chord.
func GetChords(ns []notes.Note, fileNum uint32, track int) []model.Chord {
	byTick := make(map[uint64]map[uint8]bool)
	for _, n := range ns {
		if byTick[n.Start] == nil {
			byTick[n.Start] = make(map[uint8]bool)
		}
		byTick[n.Start][n.Pitch] = true
	}

	var chords []model.Chord
	for tick, pitches := range byTick {
		if len(pitches) < 2 {
			continue
		}
		c := model.Chord{Tick: tick, FileNum: fileNum, Track: track}
		for p := range pitches {
			c.Notes = append(c.Notes, p)
		}
		sort.Slice(c.Notes, func(i, j int) bool {
			return c.Notes[i] < c.Notes[j]
		})
		chords = append(chords, c)
	}

	sort.Slice(chords, func(i, j int) bool {
		return chords[i].Tick < chords[j].Tick
	})
	return chords
}

// Name renders a chord as note names, "C4 E4 G4".
func Name(c model.Chord) string {
	var res string
	for i, p := range c.Notes {
		if i > 0 {
			res += " "
		}
		res += notes.Name(p)
	}
	return res
}

type Count struct {
	Key   string
	Name  string
	Count int
}

// Top counts chords by key and returns the n most frequent, ties broken by
// key.
func Top(chords []model.Chord, n int) []Count {
	counts := make(map[string]*Count)
	for _, c := range chords {
		key := CreateChordKey(c.Notes)
		if counts[key] == nil {
			counts[key] = &Count{Key: key, Name: Name(c)}
		}
		counts[key].Count++
	}

	res := make([]Count, 0, len(counts))
	for _, c := range counts {
		res = append(res, *c)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Key < res[j].Key
	})
	if n > 0 && len(res) > n {
		res = res[:n]
	}
	return res
}
