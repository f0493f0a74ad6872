package model

type TranscriptNote struct {
	Name     string  `json:"name"`
	Channel  uint8   `json:"channel"`
	Pitch    uint8   `json:"pitch"`
	Start    uint64  `json:"start_tick"`
	Quarters float64 `json:"quarters"`
	Held     bool    `json:"held"`
}

type TranscriptEntry struct {
	Tick  uint64           `json:"tick"`
	Label string           `json:"label,omitempty"`
	Value string           `json:"value,omitempty"`
	Notes []TranscriptNote `json:"notes,omitempty"`
}

type TranscriptTrack struct {
	Index   int               `json:"index"`
	Entries []TranscriptEntry `json:"entries"`
	Ended   bool              `json:"ended"`
	Error   string            `json:"error,omitempty"`
}

type TranscriptResponse struct {
	ID              string            `json:"id"`
	Format          uint16            `json:"format"`
	NumTracks       uint16            `json:"num_tracks"`
	TicksPerQuarter uint16            `json:"ticks_per_quarter"`
	Tracks          []TranscriptTrack `json:"tracks"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
