package nn

import "math"

/*
Schedule maps an epoch index to a learning rate
*/
type Schedule interface {
	Rate(epoch int) float64
}

/*
Constant keeps the same rate for the whole training
*/
type Constant float64

func (s Constant) Rate(int) float64 { return float64(s) }

/*
ConstantThenExponential keeps the initial rate for the first After
epochs and decays it exponentially afterwards
*/
type ConstantThenExponential struct {
	Initial float64 // 0.001 if unset
	Decay   float64 // per-epoch decay exponent, 0.1 if unset
	After   int     // epochs at the initial rate, 10 if unset
}

func (s ConstantThenExponential) Rate(epoch int) float64 {
	initial, decay, after := s.Initial, s.Decay, s.After
	if initial == 0 {
		initial = 0.001
	}
	if decay == 0 {
		decay = 0.1
	}
	if after == 0 {
		after = 10
	}
	if epoch < after {
		return initial
	}
	return initial * math.Exp(-decay*float64(epoch-after))
}

/*
StepDecay multiplies the rate by Factor every Every epochs
*/
type StepDecay struct {
	Initial float64 // 0.02 if unset
	Factor  float64 // 0.9 if unset
	Every   int     // 10 if unset
}

func (s StepDecay) Rate(epoch int) float64 {
	initial, factor, every := s.Initial, s.Factor, s.Every
	if initial == 0 {
		initial = 0.02
	}
	if factor == 0 {
		factor = 0.9
	}
	if every == 0 {
		every = 10
	}
	return initial * math.Pow(factor, float64(epoch/every))
}
