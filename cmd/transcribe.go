package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/smfnotes/file"
	"github.com/jsphweid/smfnotes/transcript"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
)

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>...",
	Short: "Prints the note transcript of MIDI files",
	Long: `Prints the header summary of each file, then for every track the meta
events in order and, ahead of each one, the notes started since the previous
meta event. Notes still sounding are shown in parentheses and tied over.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc, err := textEncoding()
		if err != nil {
			return err
		}
		for _, path := range args {
			if err := transcribeFile(cmd.OutOrStdout(), path, enc); err != nil {
				return err
			}
		}
		return nil
	},
}

func transcribeFile(w io.Writer, path string, enc encoding.Encoding) error {
	f, err := file.Open(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nReading MIDI file: %s\n\n", path)
	if err := transcript.Write(w, f, enc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
