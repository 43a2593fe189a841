package hex

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseSample holds four independent noise channels, each in [0, 1]
type NoiseSample struct {
	X, Y, Z, W float64
}

// NoiseSource samples perturbation noise at a world position
type NoiseSource interface {
	Sample(position Vec3) NoiseSample
}

// SimplexNoise is a NoiseSource backed by four seeded opensimplex generators
type SimplexNoise struct {
	channels [4]opensimplex.Noise
	scale    float64
}

// NewSimplexNoise creates a noise source whose channels are seeded from seed..seed+3
func NewSimplexNoise(seed int64) *SimplexNoise {
	n := &SimplexNoise{scale: NoiseScale}
	for i := range n.channels {
		n.channels[i] = opensimplex.NewNormalized(seed + int64(i))
	}
	return n
}

// Sample evaluates every channel at the scaled XZ position
func (n *SimplexNoise) Sample(position Vec3) NoiseSample {
	x := position.X * n.scale
	z := position.Z * n.scale
	return NoiseSample{
		X: n.channels[0].Eval2(x, z),
		Y: n.channels[1].Eval2(x, z),
		Z: n.channels[2].Eval2(x, z),
		W: n.channels[3].Eval2(x, z),
	}
}

// Octave sums several frequencies of channel 0, normalised to [0, 1]
func (n *SimplexNoise) Octave(x, z float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += n.channels[0].Eval2(x*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	if maxVal == 0 {
		return 0
	}
	return total / maxVal
}
