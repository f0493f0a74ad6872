package constants

import "os"

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}
	return "."
}

func GetLogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		return level
	}
	return "warn"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

const HeaderChunkID = "MThd"
const TrackChunkID = "MTrk"

// MThd body is 6 bytes: format, ntrks, division
const HeaderLength = 6

// 4 bytes at most, giving 28 significant bits
const MaxVLQBytes = 4

// largest request body accepted by serve
const MaxUploadSize = 16 * 1024 * 1024
