package spatial

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"github.com/cwbudde/algo-stereoimager/dsp/core"
)

// Parameter ranges and defaults.
const (
	MinGainDB     = -96.0
	MaxGainDB     = 12.0
	DefaultGainDB = 0.0

	MinWidth     = 0.0
	MaxWidth     = 1.0
	DefaultWidth = 0.5

	MinRotation     = -1.0
	MaxRotation     = 1.0
	DefaultRotation = 0.0

	MinLPFCutoffHz     = 20.0
	MaxLPFCutoffHz     = 20000.0
	DefaultLPFCutoffHz = 2000.0
)

// WidthAlgorithm selects how the width control is applied.
type WidthAlgorithm int32

const (
	// WidthTrigonometric scales mid and side with complementary sine/cosine
	// gains. Width 0.5 is unity, 0 is mono, 1 is side only.
	WidthTrigonometric WidthAlgorithm = iota
	// WidthDelayBased mixes two differently delayed copies of mid into the
	// left and right outputs, with width as the mix amount.
	WidthDelayBased
)

// String returns the algorithm name.
func (a WidthAlgorithm) String() string {
	switch a {
	case WidthTrigonometric:
		return "trigonometric"
	case WidthDelayBased:
		return "delay"
	default:
		return "WidthAlgorithm(" + strconv.Itoa(int(a)) + ")"
	}
}

// Snapshot is the set of control values used for one processing call.
type Snapshot struct {
	MasterBypass   bool
	GainDB         float64
	Width          float64
	WidthAlgorithm WidthAlgorithm
	WidthBypass    bool
	Rotation       float64
	RotationBypass bool
	LPFLinked      bool
	LPFCutoffHz    float64
}

// DefaultSnapshot returns the control values of a freshly created processor:
// unity gain, neutral width, centered rotation, linked filter off.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		GainDB:         DefaultGainDB,
		Width:          DefaultWidth,
		WidthAlgorithm: WidthTrigonometric,
		Rotation:       DefaultRotation,
		LPFCutoffHz:    DefaultLPFCutoffHz,
	}
}

// Clamped returns s with every value forced into its valid range. NaN and
// infinite values fall back to the defaults; an unknown width algorithm
// falls back to WidthTrigonometric.
func (s Snapshot) Clamped() Snapshot {
	s.GainDB = core.ClampFinite(s.GainDB, MinGainDB, MaxGainDB, DefaultGainDB)
	s.Width = core.ClampFinite(s.Width, MinWidth, MaxWidth, DefaultWidth)
	s.Rotation = core.ClampFinite(s.Rotation, MinRotation, MaxRotation, DefaultRotation)
	s.LPFCutoffHz = core.ClampFinite(s.LPFCutoffHz, MinLPFCutoffHz, MaxLPFCutoffHz, DefaultLPFCutoffHz)

	if s.WidthAlgorithm != WidthDelayBased {
		s.WidthAlgorithm = WidthTrigonometric
	}

	return s
}

// ParamID addresses one control of an ImagerParams store.
type ParamID int

const (
	ParamMasterBypass ParamID = iota
	ParamGain
	ParamWidth
	ParamWidthAlgorithm
	ParamWidthBypass
	ParamRotation
	ParamRotationBypass
	ParamLPFLink
	ParamLPFFreq

	numParams
)

var paramNames = [numParams]string{
	ParamMasterBypass:   "master_bypass",
	ParamGain:           "gain",
	ParamWidth:          "width",
	ParamWidthAlgorithm: "width_algorithm",
	ParamWidthBypass:    "width_bypass",
	ParamRotation:       "rotation",
	ParamRotationBypass: "rotation_bypass",
	ParamLPFLink:        "lpf_link",
	ParamLPFFreq:        "lpf_freq",
}

// String returns the parameter name used by ParamIDByName.
func (id ParamID) String() string {
	if id < 0 || id >= numParams {
		return "ParamID(" + strconv.Itoa(int(id)) + ")"
	}

	return paramNames[id]
}

// ParamIDs returns all parameter IDs in declaration order.
func ParamIDs() []ParamID {
	ids := make([]ParamID, numParams)
	for i := range ids {
		ids[i] = ParamID(i)
	}

	return ids
}

// ParamIDByName looks up a parameter by its String name.
func ParamIDByName(name string) (ParamID, bool) {
	for i, n := range paramNames {
		if n == name {
			return ParamID(i), true
		}
	}

	return 0, false
}

// ImagerParams is the lock-free control store shared between a control
// thread and the audio thread. Each control is a single atomic word that
// is only ever replaced, so any number of writers and one reader may use it
// concurrently without locks.
//
// The zero value is not ready for use; call NewImagerParams.
type ImagerParams struct {
	masterBypass   atomic.Bool
	gainDB         atomic.Uint64
	width          atomic.Uint64
	widthAlgorithm atomic.Int32
	widthBypass    atomic.Bool
	rotation       atomic.Uint64
	rotationBypass atomic.Bool
	lpfLinked      atomic.Bool
	lpfCutoffHz    atomic.Uint64
}

// NewImagerParams returns a store holding DefaultSnapshot values.
func NewImagerParams() *ImagerParams {
	p := &ImagerParams{}
	p.Store(DefaultSnapshot())

	return p
}

// Store replaces every control with the clamped values of s.
func (p *ImagerParams) Store(s Snapshot) {
	s = s.Clamped()

	p.masterBypass.Store(s.MasterBypass)
	p.gainDB.Store(math.Float64bits(s.GainDB))
	p.width.Store(math.Float64bits(s.Width))
	p.widthAlgorithm.Store(int32(s.WidthAlgorithm))
	p.widthBypass.Store(s.WidthBypass)
	p.rotation.Store(math.Float64bits(s.Rotation))
	p.rotationBypass.Store(s.RotationBypass)
	p.lpfLinked.Store(s.LPFLinked)
	p.lpfCutoffHz.Store(math.Float64bits(s.LPFCutoffHz))
}

// Snapshot reads every control once and returns the clamped result.
func (p *ImagerParams) Snapshot() Snapshot {
	s := Snapshot{
		MasterBypass:   p.masterBypass.Load(),
		GainDB:         math.Float64frombits(p.gainDB.Load()),
		Width:          math.Float64frombits(p.width.Load()),
		WidthAlgorithm: WidthAlgorithm(p.widthAlgorithm.Load()),
		WidthBypass:    p.widthBypass.Load(),
		Rotation:       math.Float64frombits(p.rotation.Load()),
		RotationBypass: p.rotationBypass.Load(),
		LPFLinked:      p.lpfLinked.Load(),
		LPFCutoffHz:    math.Float64frombits(p.lpfCutoffHz.Load()),
	}

	return s.Clamped()
}

// SetMasterBypass enables or disables the whole processor.
func (p *ImagerParams) SetMasterBypass(v bool) { p.masterBypass.Store(v) }

// SetGainDB sets the output gain in dB, clamped to [MinGainDB, MaxGainDB].
func (p *ImagerParams) SetGainDB(db float64) {
	p.gainDB.Store(math.Float64bits(core.ClampFinite(db, MinGainDB, MaxGainDB, DefaultGainDB)))
}

// SetWidth sets the width control, clamped to [0, 1].
func (p *ImagerParams) SetWidth(w float64) {
	p.width.Store(math.Float64bits(core.ClampFinite(w, MinWidth, MaxWidth, DefaultWidth)))
}

// SetWidthAlgorithm selects the width algorithm.
func (p *ImagerParams) SetWidthAlgorithm(a WidthAlgorithm) {
	if a != WidthDelayBased {
		a = WidthTrigonometric
	}

	p.widthAlgorithm.Store(int32(a))
}

// SetWidthBypass disables the width stage.
func (p *ImagerParams) SetWidthBypass(v bool) { p.widthBypass.Store(v) }

// SetRotation sets the rotation control, clamped to [-1, 1]. Positive
// values rotate the image toward the left channel.
func (p *ImagerParams) SetRotation(r float64) {
	p.rotation.Store(math.Float64bits(core.ClampFinite(r, MinRotation, MaxRotation, DefaultRotation)))
}

// SetRotationBypass disables the rotation stage.
func (p *ImagerParams) SetRotationBypass(v bool) { p.rotationBypass.Store(v) }

// SetLPFLinked enables the rotation-linked low-pass filter.
func (p *ImagerParams) SetLPFLinked(v bool) { p.lpfLinked.Store(v) }

// SetLPFCutoffHz sets the linked filter cutoff reached at full rotation,
// clamped to [MinLPFCutoffHz, MaxLPFCutoffHz].
func (p *ImagerParams) SetLPFCutoffHz(hz float64) {
	p.lpfCutoffHz.Store(math.Float64bits(
		core.ClampFinite(hz, MinLPFCutoffHz, MaxLPFCutoffHz, DefaultLPFCutoffHz)))
}

// Set assigns a control by ID. Boolean controls treat v >= 0.5 as on;
// the width algorithm rounds v to the nearest algorithm index.
func (p *ImagerParams) Set(id ParamID, v float64) error {
	switch id {
	case ParamMasterBypass:
		p.SetMasterBypass(v >= 0.5)
	case ParamGain:
		p.SetGainDB(v)
	case ParamWidth:
		p.SetWidth(v)
	case ParamWidthAlgorithm:
		p.SetWidthAlgorithm(WidthAlgorithm(math.Round(core.ClampFinite(v, 0, 1, 0))))
	case ParamWidthBypass:
		p.SetWidthBypass(v >= 0.5)
	case ParamRotation:
		p.SetRotation(v)
	case ParamRotationBypass:
		p.SetRotationBypass(v >= 0.5)
	case ParamLPFLink:
		p.SetLPFLinked(v >= 0.5)
	case ParamLPFFreq:
		p.SetLPFCutoffHz(v)
	default:
		return fmt.Errorf("stereo imager: unknown parameter id %d", id)
	}

	return nil
}

// Get returns the current value of a control as a float. Booleans read as
// 0 or 1.
func (p *ImagerParams) Get(id ParamID) (float64, error) {
	s := p.Snapshot()

	switch id {
	case ParamMasterBypass:
		return boolValue(s.MasterBypass), nil
	case ParamGain:
		return s.GainDB, nil
	case ParamWidth:
		return s.Width, nil
	case ParamWidthAlgorithm:
		return float64(s.WidthAlgorithm), nil
	case ParamWidthBypass:
		return boolValue(s.WidthBypass), nil
	case ParamRotation:
		return s.Rotation, nil
	case ParamRotationBypass:
		return boolValue(s.RotationBypass), nil
	case ParamLPFLink:
		return boolValue(s.LPFLinked), nil
	case ParamLPFFreq:
		return s.LPFCutoffHz, nil
	default:
		return 0, fmt.Errorf("stereo imager: unknown parameter id %d", id)
	}
}

// Text formats a control for display: bypasses as BYPASS/EFFECT or ON/OFF,
// width as a percentage where 100% is neutral, rotation as -100..100.
func (p *ImagerParams) Text(id ParamID) string {
	s := p.Snapshot()

	switch id {
	case ParamMasterBypass:
		if s.MasterBypass {
			return "BYPASS"
		}

		return "EFFECT"
	case ParamGain:
		return strconv.FormatFloat(s.GainDB, 'f', 1, 64) + "dB"
	case ParamWidth:
		return strconv.FormatFloat(s.Width*200, 'f', 0, 64) + "%"
	case ParamWidthAlgorithm:
		return s.WidthAlgorithm.String()
	case ParamRotation:
		return strconv.FormatFloat(s.Rotation*100, 'f', 0, 64)
	case ParamLPFFreq:
		return strconv.FormatFloat(s.LPFCutoffHz, 'f', 0, 64) + "Hz"
	case ParamWidthBypass, ParamRotationBypass, ParamLPFLink:
		v, _ := p.Get(id)
		if v != 0 {
			return "ON"
		}

		return "OFF"
	default:
		return ""
	}
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}

	return 0
}
