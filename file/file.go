package file

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/smfnotes/constants"
	"github.com/jsphweid/smfnotes/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrNotMIDI = errors.New("not a standard MIDI file")
var ErrSMPTEDivision = errors.New("cannot convert from time-code-based time")
var ErrZeroDivision = errors.New("division of 0 ticks per quarter note")

type Header struct {
	Format    uint16
	NumTracks uint16
	Division  uint16
}

func (h Header) TicksPerQuarter() uint16 {
	return h.Division & 0x7FFF
}

func (h Header) FormatDescription() string {
	switch h.Format {
	case 0:
		return "single multi-channel track"
	case 1:
		return "one or more simultaneous tracks of a sequence"
	default:
		return "one or more sequentially independent single-track patterns"
	}
}

type File struct {
	Header Header
	// body of each MTrk chunk, in file order
	Tracks [][]byte
}

func CreateFileNumMap(paths []string) model.FileNumToMidiPath {
	res := make(model.FileNumToMidiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s could not be opened for reading", path)
	}
	defer f.Close()

	return Parse(bufio.NewReader(f))
}

func readChunkHeader(r io.Reader) (string, uint32, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return "", 0, err
	}
	return string(buf[:4]), binary.BigEndian.Uint32(buf[4:]), nil
}

// readChunkBody grows the buffer only as bytes actually arrive, so a chunk
// header cannot make it allocate more than the input holds.
func readChunkBody(r io.Reader, length uint32) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, err
	}
	if len(buf) != int(length) {
		return nil, errors.Wrapf(ErrNotMIDI, "chunk declares %d bytes, only %d present", length, len(buf))
	}
	return buf, nil
}

func ParseHeader(r io.Reader) (Header, error) {
	var h Header
	id, length, err := readChunkHeader(r)
	if err != nil {
		return h, errors.Wrap(ErrNotMIDI, err.Error())
	}
	if id != constants.HeaderChunkID || length < constants.HeaderLength {
		return h, errors.Wrapf(ErrNotMIDI, "header chunk %q of length %d", id, length)
	}

	body, err := readChunkBody(r, length)
	if err != nil {
		return h, errors.Wrap(err, "reading header")
	}
	h.Format = binary.BigEndian.Uint16(body[0:2])
	h.NumTracks = binary.BigEndian.Uint16(body[2:4])
	h.Division = binary.BigEndian.Uint16(body[4:6])

	if h.Division&0x8000 != 0 {
		return h, ErrSMPTEDivision
	}
	if h.Division == 0 {
		return h, ErrZeroDivision
	}
	return h, nil
}

// Parse reads the header and every track chunk. Chunks that are not MTrk
// are skipped.
func Parse(r io.Reader) (*File, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	res := &File{Header: h}

	for {
		id, length, err := readChunkHeader(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.Wrapf(err, "chunk header after track %d", len(res.Tracks))
		}

		if id != constants.TrackChunkID {
			logrus.WithField("chunk", id).Warnf("skipping %d bytes of unknown chunk", length)
			if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
				return res, errors.Wrapf(err, "skipping chunk %q", id)
			}
			continue
		}

		buf, err := readChunkBody(r, length)
		if err != nil {
			return res, errors.Wrapf(err, "track %d", len(res.Tracks))
		}
		res.Tracks = append(res.Tracks, buf)
	}

	if len(res.Tracks) != int(h.NumTracks) {
		logrus.Warnf("header declares %d tracks, found %d", h.NumTracks, len(res.Tracks))
	}
	return res, nil
}

func (h Header) String() string {
	return fmt.Sprintf("format %d, %d tracks, %d ticks per quarter note", h.Format, h.NumTracks, h.TicksPerQuarter())
}
