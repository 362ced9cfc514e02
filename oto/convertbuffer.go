package oto

import (
	"encoding/binary"
	"math"
)

// InterleaveFloat32LE appends left/right into buf as little-endian
// stereo float32 samples, the wire format oto.FormatFloat32LE expects.
// buf is reused (not reallocated) when it has enough capacity.
func InterleaveFloat32LE(left, right []float32, buf []byte) []byte {
	for i := range left {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(left[i]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(right[i]))
	}
	return buf
}

// FloatBufferTo16BitLE converts interleaved float32 samples to 16-bit
// signed little-endian PCM. Nothing in this module calls it;
// cmd/riffd-play only plays float32 blocks live. Out-of-range samples
// clip rather than wrap.
func FloatBufferTo16BitLE(buff []float32, buf []byte) []byte {
	for _, v := range buff {
		var uv int16
		switch {
		case v < -1.0:
			uv = -math.MaxInt16
		case v > 1.0:
			uv = math.MaxInt16
		default:
			uv = int16(v * math.MaxInt16)
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(uv))
	}
	return buf
}
