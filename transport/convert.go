package transport

// BeatsToSamples converts a beat-domain duration to samples at the given
// tempo and sample rate: one beat = sampleRate*60/bpm samples.
func BeatsToSamples(beats, bpm float64, sampleRate int) int64 {
	samplesPerBeat := float64(sampleRate) * 60 / bpm
	return int64(beats*samplesPerBeat + 0.5)
}

// SamplesToBeats is the inverse of BeatsToSamples: it converts a sample
// position to a fractional beat position at the given tempo and sample
// rate.
func SamplesToBeats(samples int64, bpm float64, sampleRate int) float64 {
	samplesPerBeat := float64(sampleRate) * 60 / bpm
	return float64(samples) / samplesPerBeat
}
