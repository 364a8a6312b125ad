package audio

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/sdbox/internal/app/playback"
	"github.com/osa030/sdbox/internal/domain/track"
)

// ErrUnsupportedFormat is returned for files the decoder has no codec for.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// resampleQuality is passed to beep.Resample.
const resampleQuality = 4

// Decoder opens MP3 and WAV files and streams them into an output.
type Decoder struct {
	out           Output
	bufferSamples int
}

var _ playback.Decoder = (*Decoder)(nil)

// NewDecoder creates a decoder writing at most bufferSamples per step to out.
func NewDecoder(out Output, bufferSamples int) *Decoder {
	if bufferSamples < 1 {
		bufferSamples = 512
	}
	return &Decoder{out: out, bufferSamples: bufferSamples}
}

// Open decodes t by its extension.
func (d *Decoder) Open(t track.Track) (playback.Session, error) {
	f, err := os.Open(t.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", t.Path)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch t.Ext() {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, errors.Wrapf(ErrUnsupportedFormat, "extension %q", t.Ext())
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to decode %s", t.Name)
	}

	s := &session{
		name:   t.Name,
		file:   f,
		stream: stream,
		format: format,
		out:    d.out,
		buf:    make([][2]float64, d.bufferSamples),
	}
	s.rewire()

	zlog.Debug().Msgf("audio: opened track=%s sample_rate=%d channels=%d length=%d",
		t.Name, format.SampleRate, format.NumChannels, stream.Len())
	return s, nil
}

// session streams one decoded file. Positions are in source samples.
type session struct {
	name     string
	file     *os.File
	stream   beep.StreamSeekCloser
	format   beep.Format
	out      Output
	streamer beep.Streamer // stream, resampled to the output rate if needed
	buf      [][2]float64
	ended    bool
}

// rewire rebuilds the resampler, dropping any samples it buffered.
func (s *session) rewire() {
	s.streamer = s.stream
	if rate := s.out.SampleRate(); rate != s.format.SampleRate {
		s.streamer = beep.Resample(resampleQuality, s.format.SampleRate, rate, s.stream)
	}
}

// Step moves at most one buffer of samples into the output, and nothing when
// the output is full.
func (s *session) Step() (playback.Step, error) {
	if s.ended {
		return playback.StepEnded, nil
	}

	n := min(s.out.Free(), len(s.buf))
	if n <= 0 {
		return playback.StepContinue, nil
	}

	got, ok := s.streamer.Stream(s.buf[:n])
	if got > 0 {
		if err := s.out.Write(s.buf[:got]); err != nil {
			return playback.StepContinue, err
		}
	}
	if err := s.streamer.Err(); err != nil {
		return playback.StepEnded, err
	}
	if !ok {
		s.ended = true
		return playback.StepEnded, nil
	}
	return playback.StepContinue, nil
}

func (s *session) PositionSamples() uint32 {
	return uint32(s.stream.Position())
}

func (s *session) SampleRate() int {
	return int(s.format.SampleRate)
}

// Seek moves to sample, clamped to the stream length, and drops queued output.
func (s *session) Seek(sample uint32) error {
	target := int(sample)
	if l := s.stream.Len(); target > l {
		target = l
	}
	if err := s.stream.Seek(target); err != nil {
		return errors.Wrapf(err, "failed to seek %s to sample %d", s.name, target)
	}
	s.out.Reset()
	s.rewire()
	s.ended = false
	return nil
}

// Close releases the decoder and the file. Unplayed output is dropped unless
// the track ran to its end.
func (s *session) Close() error {
	if !s.ended {
		s.out.Reset()
	}
	err := s.stream.Close()
	if ferr := s.file.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) && err == nil {
		err = ferr
	}
	return err
}
