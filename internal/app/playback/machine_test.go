package playback

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/sdbox/internal/domain/track"
)

const testBufferSamples = 512

type fakeSession struct {
	rate     int
	position uint32
	length   uint32
	closed   int
	seekErr  error
	stepErr  error
}

func (s *fakeSession) Step() (Step, error) {
	if s.stepErr != nil {
		return StepContinue, s.stepErr
	}
	s.position += testBufferSamples
	if s.length > 0 && s.position >= s.length {
		s.position = s.length
		return StepEnded, nil
	}
	return StepContinue, nil
}

func (s *fakeSession) PositionSamples() uint32 { return s.position }
func (s *fakeSession) SampleRate() int         { return s.rate }

func (s *fakeSession) Seek(sample uint32) error {
	if s.seekErr != nil {
		return s.seekErr
	}
	s.position = sample
	return nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type fakeDecoder struct {
	rate     int
	length   uint32
	reject   map[string]bool
	seekErr  error
	sessions []*fakeSession
}

func (d *fakeDecoder) Open(t track.Track) (Session, error) {
	if d.reject[t.Path] {
		return nil, errors.New("malformed file")
	}
	s := &fakeSession{rate: d.rate, length: d.length, seekErr: d.seekErr}
	d.sessions = append(d.sessions, s)
	return s, nil
}

func (d *fakeDecoder) last() *fakeSession {
	return d.sessions[len(d.sessions)-1]
}

func newTestMachine(dec *fakeDecoder) *Machine {
	return NewMachine(dec, Config{Timing: Timing{BitrateKbps: 128}, Resume: true})
}

var (
	songA = track.New("/playlist/A_One.mp3", 0)
	songB = track.New("/playlist/B_Two.mp3", 0)
)

func TestMachine_Play_FromIdle(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := newTestMachine(dec)

	resumed, err := m.Play(songA)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, StatePlaying, m.State())

	active, ok := m.ActiveTrack()
	require.True(t, ok)
	assert.Equal(t, songA.Path, active.Path)
}

func TestMachine_Play_WhilePlaying(t *testing.T) {
	m := newTestMachine(&fakeDecoder{rate: 44100})
	_, err := m.Play(songA)
	require.NoError(t, err)

	_, err = m.Play(songB)
	assert.ErrorIs(t, err, ErrAlreadyPlaying)
}

func TestMachine_Play_DecodeStartError(t *testing.T) {
	dec := &fakeDecoder{rate: 44100, reject: map[string]bool{songB.Path: true}}
	m := newTestMachine(dec)

	_, err := m.Play(songB)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecodeStart))
	assert.Equal(t, StateIdle, m.State())
	_, ok := m.ActiveTrack()
	assert.False(t, ok)
}

func TestMachine_Play_DecodeStartErrorFromStopped(t *testing.T) {
	dec := &fakeDecoder{rate: 44100, reject: map[string]bool{songB.Path: true}}
	m := newTestMachine(dec)
	_, err := m.Play(songA)
	require.NoError(t, err)
	_, _ = m.Tick()
	require.NoError(t, m.Stop())

	_, err = m.Play(songB)
	assert.True(t, errors.Is(err, ErrDecodeStart))
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, uint32(0), m.ElapsedMs())
}

func TestMachine_Stop(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := newTestMachine(dec)

	assert.ErrorIs(t, m.Stop(), ErrNotPlaying)

	_, err := m.Play(songA)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		_, err := m.Tick()
		require.NoError(t, err)
	}

	require.NoError(t, m.Stop())
	assert.Equal(t, StateStopped, m.State())
	assert.Equal(t, 1, dec.last().closed, "session released")

	// 100 * 512 samples at 44.1 kHz
	assert.Equal(t, uint32(1160), m.ElapsedMs())

	active, ok := m.ActiveTrack()
	require.True(t, ok)
	assert.Equal(t, songA.Path, active.Path)

	assert.ErrorIs(t, m.Stop(), ErrNotPlaying)
}

func TestMachine_Resume(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := newTestMachine(dec)

	_, err := m.Play(songA)
	require.NoError(t, err)
	require.NoError(t, m.Seek(30_000))
	require.NoError(t, m.Stop())
	offset := m.ElapsedMs()
	assert.Equal(t, uint32(30_000), offset)

	resumed, err := m.Play(songA)
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, offset, m.ElapsedMs())
	assert.Len(t, dec.sessions, 2)
}

func TestMachine_Resume_Disabled(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := NewMachine(dec, Config{Resume: false})

	_, err := m.Play(songA)
	require.NoError(t, err)
	require.NoError(t, m.Seek(10_000))
	require.NoError(t, m.Stop())

	resumed, err := m.Play(songA)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, uint32(0), m.ElapsedMs())
}

func TestMachine_Resume_DifferentTrackStartsFresh(t *testing.T) {
	m := newTestMachine(&fakeDecoder{rate: 44100})

	_, err := m.Play(songA)
	require.NoError(t, err)
	require.NoError(t, m.Seek(10_000))
	require.NoError(t, m.Stop())

	resumed, err := m.Play(songB)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, uint32(0), m.ElapsedMs())
}

func TestMachine_Resume_SeekFailureStartsOver(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := newTestMachine(dec)

	_, err := m.Play(songA)
	require.NoError(t, err)
	require.NoError(t, m.Seek(5_000))
	require.NoError(t, m.Stop())

	dec.seekErr = errors.New("not seekable")
	resumed, err := m.Play(songA)
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, StatePlaying, m.State())
	assert.Equal(t, uint32(0), m.ElapsedMs())
}

func TestMachine_Tick_NaturalEnd(t *testing.T) {
	dec := &fakeDecoder{rate: 44100, length: 3 * testBufferSamples}
	m := newTestMachine(dec)
	_, err := m.Play(songA)
	require.NoError(t, err)

	var steps []Step
	for m.State() == StatePlaying {
		step, err := m.Tick()
		require.NoError(t, err)
		steps = append(steps, step)
	}

	assert.Equal(t, []Step{StepContinue, StepContinue, StepEnded}, steps)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 1, dec.last().closed)
	_, ok := m.ActiveTrack()
	assert.False(t, ok)
}

func TestMachine_Tick_DecodeError(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := newTestMachine(dec)
	_, err := m.Play(songA)
	require.NoError(t, err)

	dec.last().stepErr = errors.New("corrupt frame")
	step, err := m.Tick()
	assert.Equal(t, StepEnded, step)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 1, dec.last().closed)
}

func TestMachine_Tick_NotPlaying(t *testing.T) {
	m := newTestMachine(&fakeDecoder{rate: 44100})
	_, err := m.Tick()
	assert.ErrorIs(t, err, ErrNotPlaying)
}

func TestMachine_SeekRoundTrip(t *testing.T) {
	rates := []int{8000, 22050, 44100, 48000}
	targets := []uint32{0, 1, 999, 12_345, 61_000, 3_600_000}

	for _, rate := range rates {
		dec := &fakeDecoder{rate: rate}
		m := newTestMachine(dec)
		_, err := m.Play(songA)
		require.NoError(t, err)

		resolution := uint32(testBufferSamples*1000/rate) + 1
		for _, target := range targets {
			require.NoError(t, m.Seek(target))
			assert.InDelta(t, target, m.ElapsedMs(), 1, "rate=%d target=%d", rate, target)

			_, err := m.Tick()
			require.NoError(t, err)
			assert.InDelta(t, target, m.ElapsedMs(), float64(resolution), "rate=%d target=%d", rate, target)
		}
	}
}

func TestMachine_Seek_NotPlaying(t *testing.T) {
	m := newTestMachine(&fakeDecoder{rate: 44100})
	assert.ErrorIs(t, m.Seek(1000), ErrNotPlaying)
}

func TestMachine_Close(t *testing.T) {
	dec := &fakeDecoder{rate: 44100}
	m := newTestMachine(dec)
	_, err := m.Play(songA)
	require.NoError(t, err)

	m.Close()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 1, dec.last().closed)

	m.Close()
	assert.Equal(t, 1, dec.last().closed)
}
