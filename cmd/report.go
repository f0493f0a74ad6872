package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/smfnotes/chord"
	"github.com/jsphweid/smfnotes/constants"
	"github.com/jsphweid/smfnotes/file"
	"github.com/jsphweid/smfnotes/model"
	"github.com/jsphweid/smfnotes/transcript"
	"github.com/jsphweid/smfnotes/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	reportMax    int
	reportChords int
)

func init() {
	reportCmd.Flags().IntVar(&reportMax, "max", 0, "stop after this many files (0 for all)")
	reportCmd.Flags().IntVar(&reportChords, "chords", 10, "number of most common chords to list")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Creates a report",
	Long:  `Transcribes every MIDI file under dir (MEDIA_PATH by default) and reports note counts, failures and the most common chords.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := constants.GetMediaDir()
		if len(args) == 1 {
			dir = args[0]
		}
		paths, err := util.GatherAllMidiPaths(dir, reportMax)
		if err != nil {
			return err
		}
		report(cmd.OutOrStdout(), file.CreateFileNumMap(paths), reportChords)
		return nil
	},
}

type fileReport struct {
	tracks int
	notes  int
	chords []model.Chord
	err    error
}

func processMidiFile(fileNum uint32, path string) fileReport {
	var res fileReport
	f, err := file.Open(path)
	if err != nil {
		res.err = err
		return res
	}

	tracks, err := transcript.ParseAll(f)
	res.err = err
	res.tracks = len(tracks)
	for i, tr := range tracks {
		res.notes += len(tr.Notes)
		res.chords = append(res.chords, chord.GetChords(tr.Notes, fileNum, i)...)
	}
	return res
}

func report(w io.Writer, m model.FileNumToMidiPath, topN int) {
	var noteCounts []int
	var allChords []model.Chord
	var failed int

	keys := util.GetSortedKeys(m)
	for i, num := range keys {
		logrus.Debugf("Processing %v of %v midi files", i+1, len(keys))
		r := processMidiFile(num, m[num])
		if r.err != nil {
			failed++
			fmt.Fprintf(w, "Skipping %v because: %v\n", m[num], r.err)
			continue
		}
		noteCounts = append(noteCounts, r.notes)
		allChords = append(allChords, r.chords...)
		fmt.Fprintf(w, "%v: %d tracks, %d notes, %d chords\n", m[num], r.tracks, r.notes, len(r.chords))
	}

	fmt.Fprintf(w, "\nfiles: %d\n", len(keys))
	fmt.Fprintf(w, "failed: %d\n", failed)
	fmt.Fprintf(w, "notes: %d\n", util.Sum(noteCounts))
	fmt.Fprintf(w, "chords: %d\n", len(allChords))

	top := chord.Top(allChords, topN)
	if len(top) > 0 {
		fmt.Fprintf(w, "\nmost common chords:\n")
		for _, c := range top {
			fmt.Fprintf(w, "  %-20s %6d  (%s)\n", c.Name, c.Count, c.Key)
		}
	}
}
