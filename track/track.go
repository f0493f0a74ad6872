package track

import (
	"github.com/jsphweid/smfnotes/channel"
	"github.com/jsphweid/smfnotes/cursor"
	"github.com/jsphweid/smfnotes/meta"
	"github.com/jsphweid/smfnotes/notes"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type State int

const (
	ExpectEvent State = iota
	InSysEx
	InMeta
	InChannelEvent
	EndOfTrack
)

func (s State) String() string {
	switch s {
	case ExpectEvent:
		return "expect-event"
	case InSysEx:
		return "sysex"
	case InMeta:
		return "meta"
	case InChannelEvent:
		return "channel-event"
	case EndOfTrack:
		return "end-of-track"
	}
	return "unknown"
}

// Entry is one line group of the transcript: either the notes flushed ahead
// of a meta event or the meta event itself.
type Entry struct {
	Tick   uint64
	Offset int
	Notes  []notes.Flushed
	Meta   *meta.Event
}

type Track struct {
	Entries []Entry
	// every note in creation order, as it stood when parsing stopped
	Notes []notes.Note
	// false when the buffer ran out without an end-of-track event
	Ended bool

	ChannelEvents int
	SysExEvents   int
	MetaEvents    int
}

type Parser struct {
	c       *cursor.Cursor
	reg     *notes.Registry
	state   State
	running byte
	started bool
	track   Track
	log     *logrus.Entry
}

// NewParser takes ownership of buf, the body of one MTrk chunk.
func NewParser(buf []byte) *Parser {
	return &Parser{
		c:   cursor.New(buf),
		reg: notes.NewRegistry(),
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
}

func (p *Parser) WithFields(fields logrus.Fields) *Parser {
	p.log = p.log.WithFields(fields)
	return p
}

func (p *Parser) State() State {
	return p.state
}

// RunningStatus returns the status byte a data byte would be read against,
// or 0 when none is in effect.
func (p *Parser) RunningStatus() byte {
	return p.running
}

func (p *Parser) Pos() int {
	return p.c.Pos()
}

func (p *Parser) Done() bool {
	return p.state == EndOfTrack
}

func (p *Parser) flush() {
	flushed := p.reg.Flush()
	if len(flushed) == 0 {
		return
	}
	p.track.Entries = append(p.track.Entries, Entry{
		Tick:   p.reg.Now(),
		Offset: p.c.Pos(),
		Notes:  flushed,
	})
}

func (p *Parser) delta() error {
	if p.c.Done() {
		return p.finishWithoutEnd()
	}
	d, err := p.c.VLQ()
	if err != nil {
		return errors.Wrap(err, "delta time")
	}
	if d > 0 {
		p.reg.AddDelta(d)
	}
	p.state = ExpectEvent
	return nil
}

// Step decodes one event and the delta time after it. The first call reads
// the leading delta time of the track.
func (p *Parser) Step() error {
	if p.state == EndOfTrack {
		return nil
	}
	if !p.started {
		p.started = true
		return p.delta()
	}
	if p.c.Done() {
		return p.finishWithoutEnd()
	}

	offset := p.c.Pos()
	b, err := p.c.Peek()
	if err != nil {
		return err
	}

	if b < 0x80 {
		// b is the first data byte of a message reusing the previous status
		if p.running == 0 {
			return &cursor.OffsetError{Offset: offset, Err: channel.ErrNoRunningStatus}
		}
		if err := p.channelEvent(p.running, true); err != nil {
			return err
		}
		return p.delta()
	}

	p.c.Next()
	switch {
	case b == 0xF0 || b == 0xF7:
		p.state = InSysEx
		n, err := p.c.VLQ()
		if err != nil {
			return errors.Wrap(err, "sysex length")
		}
		if _, err := p.c.Take(int(n)); err != nil {
			return errors.Wrap(err, "sysex payload")
		}
		p.track.SysExEvents++

	case b == 0xFF:
		p.state = InMeta
		p.flush()
		typ, err := p.c.Next()
		if err != nil {
			return errors.Wrap(err, "meta type")
		}
		ev, err := meta.Decode(p.c, typ)
		if err != nil {
			return errors.Wrapf(err, "meta event 0x%02X", typ)
		}
		p.track.MetaEvents++
		p.track.Entries = append(p.track.Entries, Entry{Tick: p.reg.Now(), Offset: offset, Meta: &ev})
		if ev.Kind == meta.EndOfTrack {
			p.flush()
			p.state = EndOfTrack
			p.track.Ended = true
			if p.c.Remaining() > 0 {
				p.log.WithField("offset", p.c.Pos()).Debugf("%d bytes after end of track ignored", p.c.Remaining())
			}
			return nil
		}

	case b <= 0xEF:
		p.running = b
		if err := p.channelEvent(b, false); err != nil {
			return err
		}

	default:
		// system common cancels running status
		p.running = 0
		if err := p.channelEvent(b, false); err != nil {
			return err
		}
	}

	return p.delta()
}

func (p *Parser) channelEvent(status byte, running bool) error {
	p.state = InChannelEvent
	offset := p.c.Pos()
	msg, err := channel.Decode(p.c, status, running)
	if err != nil {
		return err
	}
	p.track.ChannelEvents++
	channel.Apply(msg, loggedSink{reg: p.reg, log: p.log.WithField("offset", offset)})
	return nil
}

type loggedSink struct {
	reg *notes.Registry
	log *logrus.Entry
}

func (s loggedSink) NoteOn(ch, pitch uint8) {
	s.reg.NoteOn(ch, pitch)
}

func (s loggedSink) NoteOff(ch, pitch uint8) bool {
	if !s.reg.NoteOff(ch, pitch) {
		s.log.WithField("channel", ch).Debugf("note off for %s which is not sounding", notes.Name(pitch))
		return false
	}
	return true
}

func (p *Parser) finishWithoutEnd() error {
	p.log.WithField("offset", p.c.Pos()).Warn("track ended without an end-of-track event")
	p.flush()
	p.state = EndOfTrack
	return nil
}

// Run steps until end of track or the first decode error. The returned Track
// holds everything decoded up to that point.
func (p *Parser) Run() (*Track, error) {
	var err error
	for p.state != EndOfTrack {
		if err = p.Step(); err != nil {
			// notes decoded before the failure still reach the transcript
			p.flush()
			break
		}
	}
	p.track.Notes = p.reg.Notes()
	t := p.track
	return &t, err
}

func Parse(buf []byte) (*Track, error) {
	return NewParser(buf).Run()
}
