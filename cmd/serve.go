package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/smfnotes/charset"
	"github.com/jsphweid/smfnotes/constants"
	"github.com/jsphweid/smfnotes/file"
	"github.com/jsphweid/smfnotes/model"
	"github.com/jsphweid/smfnotes/transcript"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var servePort string

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", constants.GetPort(), "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves transcripts over HTTP",
	Long: `Serves POST /transcribe: the request body is a MIDI file, the response
is the transcript as JSON. The charset query parameter overrides --charset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logrus.Infof("listening on :%s", servePort)
		return http.ListenAndServe(":"+servePort, NewHandler())
	},
}

func NewHandler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transcribe", HandleTranscribe).Methods("POST")
	router.HandleFunc("/health", handleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	log := logrus.WithField("id", id)

	name := charsetName
	if q := r.URL.Query().Get("charset"); q != "" {
		name = q
	}
	enc, err := charset.Lookup(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Could not read request body: "+err.Error())
		return
	}

	f, err := file.Parse(bytes.NewReader(body))
	if err != nil {
		log.WithError(err).Info("rejected upload")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := transcript.Build(id, f, enc)
	log.WithField("tracks", len(res.Tracks)).Debug("transcribed upload")
	writeJSON(w, http.StatusOK, res)
}
