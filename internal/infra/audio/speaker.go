package audio

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	zlog "github.com/rs/zerolog/log"
)

// The speaker package can be initialized once per process.
var (
	speakerOnce sync.Once
	speakerErr  error
)

// SpeakerOutput plays samples on the default sound device. Writes go to a
// bounded queue that the speaker goroutine drains in real time.
type SpeakerOutput struct {
	rate  beep.SampleRate
	queue *queue
}

// NewSpeakerOutput initializes the speaker at rate with buffer worth of queued audio.
func NewSpeakerOutput(rate beep.SampleRate, buffer time.Duration) (*SpeakerOutput, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	if speakerErr != nil {
		return nil, errors.Wrap(speakerErr, "failed to initialize speaker")
	}

	q := newQueue(rate.N(buffer))
	speaker.Play(q)
	zlog.Debug().Msgf("audio: speaker ready sample_rate=%d buffer=%s", rate, buffer)

	return &SpeakerOutput{rate: rate, queue: q}, nil
}

func (o *SpeakerOutput) SampleRate() beep.SampleRate {
	return o.rate
}

func (o *SpeakerOutput) Free() int {
	return o.queue.free()
}

func (o *SpeakerOutput) Write(samples [][2]float64) error {
	return o.queue.push(samples)
}

func (o *SpeakerOutput) Reset() {
	o.queue.reset()
}

// Close stops playback. The device stays open for the life of the process.
func (o *SpeakerOutput) Close() error {
	speaker.Clear()
	return nil
}
