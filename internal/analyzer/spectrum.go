package analyzer

import (
	"context"
	"math"

	"github.com/specs-group/kreiosd/internal/protocol/prodigy"
)

// RunMode is one of the five spectrum acquisition modes.
type RunMode string

const (
	ModeFAT  RunMode = "FAT"
	ModeSFAT RunMode = "SFAT"
	ModeFRR  RunMode = "FRR"
	ModeFE   RunMode = "FE"
	ModeLVS  RunMode = "LVS"
)

// ValidModes lists every supported run mode, in enum read-back order.
var ValidModes = []RunMode{ModeFAT, ModeSFAT, ModeFRR, ModeFE, ModeLVS}

// SpectrumInputs carries every scalar the five run modes might read.
// Definer picks only the fields relevant to the requested mode.
type SpectrumInputs struct {
	StartEnergy    float64
	EndEnergy      float64
	StepWidth      float64
	PassEnergy     float64
	KineticEnergy  float64
	RetardingRatio float64
	DwellTime      float64
	SampleCount    int64
	LensMode       string
	ScanRange      string
}

// Shape is the validated spectrum shape (S, V, N) returned by
// ValidateSpectrum.
type Shape struct {
	S int64
	V int64
	N int64
}

// Definer is the Spectrum Definer (C5).
type Definer struct {
	broker *prodigy.Broker
}

// NewDefiner creates a Definer bound to broker.
func NewDefiner(broker *prodigy.Broker) *Definer {
	return &Definer{broker: broker}
}

// DefineAndValidate emits DefineSpectrum<Mode> with the mode-specific key
// set, then ValidateSpectrum, returning the resulting Shape. For SFAT the
// returned S is the locally recomputed value, regardless of what the
// server reports.
func (d *Definer) DefineAndValidate(ctx context.Context, mode RunMode, in SpectrumInputs) (Shape, error) {
	if err := d.define(ctx, mode, in); err != nil {
		return Shape{}, err
	}

	reply, err := d.broker.Exchange(ctx, "ValidateSpectrum")
	if err != nil {
		return Shape{}, err
	}

	samples, err := reply.Int64("Samples")
	if err != nil {
		return Shape{}, &prodigy.Error{Kind: prodigy.KindValidationFailed, Message: "ValidateSpectrum reply missing Samples"}
	}
	valuesPerSample := optionalInt(reply, "ValuesPerSample", 1)
	numberOfSlices := optionalInt(reply, "NumberOfSlices", 1)

	shape := Shape{S: samples, V: valuesPerSample, N: numberOfSlices}

	if mode == ModeSFAT {
		shape.S = sfatSampleCount(in.StartEnergy, in.EndEnergy, in.StepWidth)
	}

	if shape.S < 1 || shape.V < 1 || shape.N < 1 {
		return Shape{}, &prodigy.Error{Kind: prodigy.KindValidationFailed, Message: "validated shape has a non-positive dimension"}
	}

	return shape, nil
}

// sfatSampleCount implements the SFAT override formula from the data
// model: floor((end-start)/step + 0.5) + 1.
func sfatSampleCount(start, end, step float64) int64 {
	return int64(math.Floor((end-start)/step+0.5)) + 1
}

func optionalInt(reply *prodigy.Reply, key string, def int64) int64 {
	v, err := reply.Int64(key)
	if err != nil {
		return def
	}
	return v
}

func (d *Definer) define(ctx context.Context, mode RunMode, in SpectrumInputs) error {
	var args []prodigy.Arg

	switch mode {
	case ModeFAT, ModeSFAT:
		args = []prodigy.Arg{
			prodigy.Num("StartEnergy", in.StartEnergy),
			prodigy.Num("EndEnergy", in.EndEnergy),
			prodigy.Num("StepWidth", in.StepWidth),
			prodigy.Num("PassEnergy", in.PassEnergy),
			prodigy.Num("DwellTime", in.DwellTime),
			prodigy.Enum("LensMode", in.LensMode),
			prodigy.Enum("ScanRange", in.ScanRange),
		}
	case ModeFRR:
		args = []prodigy.Arg{
			prodigy.Num("StartEnergy", in.StartEnergy),
			prodigy.Num("EndEnergy", in.EndEnergy),
			prodigy.Num("StepWidth", in.StepWidth),
			prodigy.Num("RetardingRatio", in.RetardingRatio),
			prodigy.Num("DwellTime", in.DwellTime),
			prodigy.Enum("LensMode", in.LensMode),
			prodigy.Enum("ScanRange", in.ScanRange),
		}
	case ModeFE:
		args = []prodigy.Arg{
			prodigy.Num("KineticEnergy", in.KineticEnergy),
			prodigy.Num("PassEnergy", in.PassEnergy),
			prodigy.Num("DwellTime", in.DwellTime),
			prodigy.Int("SampleCount", in.SampleCount),
			prodigy.Enum("LensMode", in.LensMode),
			prodigy.Enum("ScanRange", in.ScanRange),
		}
	case ModeLVS:
		args = []prodigy.Arg{
			prodigy.Num("DwellTime", in.DwellTime),
			prodigy.Enum("LensMode", in.LensMode),
			prodigy.Enum("ScanRange", in.ScanRange),
		}
	default:
		return &prodigy.Error{Kind: prodigy.KindValidationFailed, Message: "unknown run mode " + string(mode)}
	}

	_, err := d.broker.Exchange(ctx, "DefineSpectrum"+string(mode), args...)
	return err
}
