package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/smfnotes/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Summarizes a MIDI file with gomidi",
	Long:  `Summarizes a MIDI file with the gomidi reader, for cross-checking a transcript.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), args[0], midi.Summarize(s))
		return nil
	},
}

func printSummary(w io.Writer, path string, sum midi.Summary) {
	fmt.Fprintf(w, "MIDI File: %s\n", path)
	fmt.Fprintf(w, "Format: %d\n", sum.Format)
	if sum.TimeFormat == "" {
		fmt.Fprintf(w, "Ticks per quarter note: %d\n", sum.TicksPerQuarter)
	} else {
		fmt.Fprintf(w, "Time format: %s\n", sum.TimeFormat)
	}
	fmt.Fprintf(w, "Number of tracks: %d\n\n", len(sum.Tracks))

	for i, tr := range sum.Tracks {
		if tr.Name != "" {
			fmt.Fprintf(w, "Track %d: %s\n", i, tr.Name)
		} else {
			fmt.Fprintf(w, "Track %d:\n", i)
		}
		fmt.Fprintf(w, "  Events: %d\n", tr.Events)
		fmt.Fprintf(w, "  Meta events: %d\n", tr.Meta)
		fmt.Fprintf(w, "  Note on/off: %d/%d\n", tr.NoteOns, tr.NoteOffs)
		fmt.Fprintf(w, "  Length: %d ticks\n", tr.LastTicks)
		if len(tr.Channels) > 0 {
			fmt.Fprintf(w, "  Channels used: %v\n", tr.Channels)
		}
	}
}
