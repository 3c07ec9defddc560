package analyzer

import (
	"context"
	"strconv"

	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
)

// DefaultMaxValuesPerRead is the default cap on the number of raw doubles
// requested in a single GetAcquisitionData exchange.
const DefaultMaxValuesPerRead = 1_000_000

// Reader is the Data Reader (C6).
type Reader struct {
	broker           *prodigy.Broker
	maxValuesPerRead int
}

// NewReader creates a Reader with the default chunking cap.
func NewReader(broker *prodigy.Broker) *Reader {
	return &Reader{broker: broker, maxValuesPerRead: DefaultMaxValuesPerRead}
}

// SetMaxValuesPerRead overrides the chunking cap (primarily for tests).
func (r *Reader) SetMaxValuesPerRead(n int) {
	if n > 0 {
		r.maxValuesPerRead = n
	}
}

// MaxSamplesPerRead returns how many sample-index steps a single readRange
// may span for the given V, per the chunking policy: maxValuesPerRead/V,
// floored to at least one sample.
func (r *Reader) MaxSamplesPerRead(v int64) int64 {
	if v <= 0 {
		v = 1
	}
	n := int64(r.maxValuesPerRead) / v
	if n < 1 {
		n = 1
	}
	return n
}

// ReadRange issues GetAcquisitionData FromIndex:a ToIndex:b and returns
// the parsed Data array. The returned count may be smaller than expected;
// callers (C7) interpret short reads.
func (r *Reader) ReadRange(ctx context.Context, from, to int64) ([]float64, error) {
	reply, err := r.broker.Exchange(ctx, "GetAcquisitionData",
		prodigy.Int("FromIndex", from),
		prodigy.Int("ToIndex", to),
	)
	if err != nil {
		return nil, err
	}
	return reply.FloatArray("Data")
}

// FormatDataArray is exposed for tests that need to synthesize a reply
// payload from raw doubles.
func FormatDataArray(values []float64) string {
	s := "["
	for i, v := range values {
		if i > 0 {
			s += ","
		}
		s += strconv.FormatFloat(v, 'f', -1, 64)
	}
	return s + "]"
}
