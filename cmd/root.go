package cmd

import (
	"os"

	"github.com/jsphweid/smfnotes/charset"
	"github.com/jsphweid/smfnotes/constants"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
)

var (
	logLevel    string
	charsetName string
)

var rootCmd = &cobra.Command{
	Use:   "smfnotes",
	Short: "Transcribes Standard MIDI Files",
	Long: `Decodes the tracks of a Standard MIDI File and prints the notes of each
track with their lengths in quarter notes, interleaved with the file's meta
events (tempo, time and key signature, text, end of track).`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", constants.GetLogLevel(), "panic, fatal, error, warn, info, debug or trace")
	rootCmd.PersistentFlags().StringVar(&charsetName, "charset", "utf8", "encoding of meta text events: utf8, latin1, cp1252 or shiftjis")
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

func textEncoding() (encoding.Encoding, error) {
	return charset.Lookup(charsetName)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
