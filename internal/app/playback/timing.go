package playback

import "time"

// DefaultBitrateKbps is the bitrate assumed when none is configured.
const DefaultBitrateKbps = 128

// Timing converts between sample positions, byte offsets and milliseconds.
//
// The bitrate conversions assume a constant bitrate and are approximate;
// variable-bitrate files drift.
type Timing struct {
	BitrateKbps int
}

// bytesPerSecond returns the assumed stream rate.
func (t Timing) bytesPerSecond() uint64 {
	kbps := t.BitrateKbps
	if kbps <= 0 {
		kbps = DefaultBitrateKbps
	}
	return uint64(kbps) * 1024 / 8
}

// SamplesToMs converts a sample position to milliseconds.
// Without a known sample rate the bitrate estimate is used instead.
func (t Timing) SamplesToMs(samples uint32, sampleRate int) uint32 {
	if sampleRate <= 0 {
		return t.BytesToMs(uint64(samples))
	}
	return uint32(uint64(samples) * 1000 / uint64(sampleRate))
}

// MsToSamples converts milliseconds to a sample position.
func (t Timing) MsToSamples(ms uint32, sampleRate int) uint32 {
	if sampleRate <= 0 {
		return uint32(uint64(ms) * t.bytesPerSecond() / 1000)
	}
	return uint32(uint64(ms) * uint64(sampleRate) / 1000)
}

// BytesToMs estimates the play time of a byte offset in the compressed stream.
func (t Timing) BytesToMs(bytes uint64) uint32 {
	return uint32(bytes * 1000 / t.bytesPerSecond())
}

// EstimateDuration estimates the duration of a file of the given size.
func (t Timing) EstimateDuration(size int64) time.Duration {
	if size <= 0 {
		return 0
	}
	return time.Duration(t.BytesToMs(uint64(size))) * time.Millisecond
}
