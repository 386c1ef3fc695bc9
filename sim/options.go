// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the pipeflow solver: derivative computation,
// sparse system assembly, connectivity reduction and the damped
// Newton-Raphson driver
package sim

// solve modes
const (
	ModeHydraulics    = "hydraulics"
	ModeHeat          = "heat"
	ModeSequential    = "sequential"
	ModeBidirectional = "bidirectional"
)

// friction models
const (
	FrictionNikuradse  = "nikuradse"
	FrictionSwameeJain = "swamee-jain"
	FrictionColebrook  = "colebrook"
)

// nonlinear (damping) methods
const (
	NonlinConstant  = "constant"
	NonlinAutomatic = "automatic"
)

// physical constants
const (
	Grav  = 9.80665 // [m/s²] gravity acceleration
	PConv = 1e5     // [Pa/bar] pressure unit conversion
)

// ZeroFlow is the mass-flow magnitude below which a branch counts as
// not flowing; it also floors the Reynolds-number computation so that
// zero-flow branches never produce NaN/Inf friction terms.
const ZeroFlow = 1e-10

// Options holds pipeflow solver data
type Options struct {

	// mode and models
	Mode          string // solve mode: hydraulics, heat, sequential or bidirectional
	FrictionModel string // nikuradse, swamee-jain or colebrook
	NonlinMethod  string // damping method: constant or automatic

	// tolerances
	TolP   float64 // pressure tolerance [bar]
	TolM   float64 // mass-flow tolerance [kg/s]
	TolT   float64 // temperature tolerance [K]
	TolRes float64 // residual norm tolerance

	// iteration caps
	MaxIterHyd      int // hydraulic Newton iterations
	MaxIterTherm    int // thermal Newton iterations
	MaxIterBidirect int // outer bidirectional steps

	// damping
	Alpha    float64 // initial damping factor
	AlphaMin float64 // damping floor for the automatic method

	// environment and initial state
	AmbientTemp float64 // [K] ambient temperature
	MdotInit    float64 // [kg/s] initial branch mass-flow guess

	// connectivity
	CheckConnectivity   bool // run the reachability reduction before solving
	QuitOnInconsistency bool // reachable-but-out-of-service nodes are fatal

	// matrix handling
	OnlyUpdateHydMatrix bool   // reuse the symbolic structure between iterations
	LinSolName          string // sparse linear solver name

	// transient thermal stepping
	Transient bool    // backward-Euler thermal stepping
	Dt        float64 // [s] time step

	// extras
	CalcCompressionPower bool // compute compressor power during extraction
	Verbose              bool // show iteration messages

	// Colebrook-White root finding
	ColebrookTol     float64 // friction-factor tolerance
	ColebrookMaxIter int     // iteration budget per solve
}

// NewOptions returns options with default values
func NewOptions() (o *Options) {
	o = new(Options)
	o.SetDefault()
	return
}

// SetDefault sets default values
func (o *Options) SetDefault() {
	o.Mode = ModeHydraulics
	o.FrictionModel = FrictionNikuradse
	o.NonlinMethod = NonlinConstant
	o.TolP = 1e-5
	o.TolM = 1e-5
	o.TolT = 1e-4
	o.TolRes = 1e-4
	o.MaxIterHyd = 100
	o.MaxIterTherm = 100
	o.MaxIterBidirect = 10
	o.Alpha = 1.0
	o.AlphaMin = 1.0 / 64.0
	o.AmbientTemp = 293.15
	o.MdotInit = 0.1
	o.CheckConnectivity = true
	o.QuitOnInconsistency = false
	o.LinSolName = "umfpack"
	o.Dt = 60
	o.ColebrookTol = 1e-7
	o.ColebrookMaxIter = 100
}
