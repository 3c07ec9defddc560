package acquisition

import "github.com/specs-group/kreiosd/internal/analyzer"

// Frame is the single N-D detector frame emitted at acquisition
// completion: ndims 1/2/3 with dims (S), (S,V) or (S,V,N).
type Frame struct {
	NDims int
	Dims  []int64
	Data  []float64
}

// Accumulator holds the three flat accumulator buffers for one
// acquisition session, per the flat index contract: flat_index =
// n*S*V + s*V + p, reinterpreted here as a single combined address
// space addr = n*S+s so that flat = addr*V+p uniformly, and sample
// s = addr % S.
//
// image is allocated iff V>1 and N==1; volume iff V>1 and N>1.
// spectrum is always allocated and always receives += regardless of
// iteration, integrating over pixels and slices.
type Accumulator struct {
	Shape analyzer.Shape

	spectrum []float64
	image    []float64
	volume   []float64
}

// NewAccumulator allocates the buffers required by shape.
func NewAccumulator(shape analyzer.Shape) *Accumulator {
	a := &Accumulator{
		Shape:    shape,
		spectrum: make([]float64, shape.S),
	}
	switch {
	case shape.V > 1 && shape.N > 1:
		a.volume = make([]float64, shape.S*shape.V*shape.N)
	case shape.V > 1 && shape.N == 1:
		a.image = make([]float64, shape.S*shape.V)
	}
	return a
}

// EffectiveAddressSpace is the size of the combined (slice, sample)
// address space that GetAcquisitionStatus/GetAcquisitionData address
// within one iteration: S for a single slice, S*N for multi-slice.
func (a *Accumulator) EffectiveAddressSpace() int64 {
	if a.Shape.N > 1 {
		return a.Shape.S * a.Shape.N
	}
	return a.Shape.S
}

// ApplyChunk writes a chunk of raw doubles received at combined address
// addrStart (inclusive) for the given iteration (0-indexed). iteration 0
// assigns into image/volume; iterations >= 1 sum. spectrum always sums.
// It returns the number of complete V-wide samples it could place; a
// caller comparing this against the expected count detects a short read.
func (a *Accumulator) ApplyChunk(iteration int, addrStart int64, values []float64) int64 {
	v := a.Shape.V
	if v <= 0 {
		v = 1
	}
	n := int64(len(values)) / v

	for i := int64(0); i < n; i++ {
		addr := addrStart + i
		s := addr % a.Shape.S
		for p := int64(0); p < v; p++ {
			value := values[i*v+p]
			a.spectrum[s] += value

			flat := addr*v + p
			switch {
			case a.volume != nil:
				if iteration == 0 {
					a.volume[flat] = value
				} else {
					a.volume[flat] += value
				}
			case a.image != nil:
				if iteration == 0 {
					a.image[flat] = value
				} else {
					a.image[flat] += value
				}
			}
		}
	}
	return n
}

// Spectrum returns a copy of the 1-D accumulator.
func (a *Accumulator) Spectrum() []float64 { return cloneFloat64(a.spectrum) }

// Image returns a copy of the 2-D accumulator, or nil if not allocated.
func (a *Accumulator) Image() []float64 { return cloneFloat64(a.image) }

// Volume returns a copy of the 3-D accumulator, or nil if not allocated.
func (a *Accumulator) Volume() []float64 { return cloneFloat64(a.volume) }

// Frame builds the final N-D frame per the session's allocated
// dimensionality.
func (a *Accumulator) Frame() Frame {
	switch {
	case a.volume != nil:
		return Frame{NDims: 3, Dims: []int64{a.Shape.S, a.Shape.V, a.Shape.N}, Data: a.Volume()}
	case a.image != nil:
		return Frame{NDims: 2, Dims: []int64{a.Shape.S, a.Shape.V}, Data: a.Image()}
	default:
		return Frame{NDims: 1, Dims: []int64{a.Shape.S}, Data: a.Spectrum()}
	}
}

func cloneFloat64(s []float64) []float64 {
	if s == nil {
		return nil
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
