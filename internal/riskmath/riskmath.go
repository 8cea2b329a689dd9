// Package riskmath provides the numerical primitives shared by the risk
// engines: interpolation, discounting, extreme-value statistics, and the
// logistic reduction curve. All functions are pure.
package riskmath

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Euler-Mascheroni constant, used in the Gumbel method-of-moments fit.
const eulerMascheroni = 0.5772156649015329

// Point is one (x, y) calibration point of a piecewise-linear curve.
type Point struct {
	X float64
	Y float64
}

// Interpolate evaluates a piecewise-linear curve at x. Points must be in
// ascending X order. Outside the calibration range the nearest endpoint is
// returned; there is no extrapolation.
func Interpolate(points []Point, x float64) float64 {
	if len(points) == 0 {
		return 0
	}
	if x <= points[0].X {
		return points[0].Y
	}
	last := points[len(points)-1]
	if x >= last.X {
		return last.Y
	}
	for i := 1; i < len(points); i++ {
		if x <= points[i].X {
			lo, hi := points[i-1], points[i]
			if hi.X == lo.X {
				return hi.Y
			}
			frac := (x - lo.X) / (hi.X - lo.X)
			return lo.Y + frac*(hi.Y-lo.Y)
		}
	}
	return last.Y
}

// NPV discounts a cash-flow series at the given rate. The first flow is one
// period out, so NPV([f], r) = f / (1+r).
func NPV(flows []float64, rate float64) float64 {
	npv := 0.0
	for i, f := range flows {
		npv += f / math.Pow(1+rate, float64(i+1))
	}
	return npv
}

// ScenarioWACC composes the discount rate from the base WACC and the
// scenario credit spread.
func ScenarioWACC(base, spread float64) float64 {
	return base + spread
}

// LogisticReduction evaluates the S-curve r(t) = ceiling / (1 + exp(-k(t-t0))).
func LogisticReduction(k, t0, ceiling, t float64) float64 {
	return ceiling / (1 + math.Exp(-k*(t-t0)))
}

// GumbelQuantile returns the value whose return period is T years under a
// Gumbel Type I (maximum) distribution: the (1 - 1/T) quantile.
func GumbelQuantile(mu, sigma, returnPeriod float64) float64 {
	if returnPeriod <= 1 {
		return mu
	}
	g := distuv.GumbelRight{Mu: mu, Beta: sigma}
	return g.Quantile(1 - 1/returnPeriod)
}

// FitGumbel fits Gumbel Type I parameters to annual maxima by the method of
// moments: sigma = s·sqrt(6)/pi, mu = mean - gamma·sigma.
// Reference: Coles (2001), An Introduction to Statistical Modeling of
// Extreme Values.
func FitGumbel(annualMaxima []float64) (mu, sigma float64) {
	if len(annualMaxima) < 2 {
		if len(annualMaxima) == 1 {
			return annualMaxima[0], 0
		}
		return 0, 0
	}
	mean := stat.Mean(annualMaxima, nil)
	std := stat.StdDev(annualMaxima, nil)
	sigma = std * math.Sqrt(6) / math.Pi
	mu = mean - eulerMascheroni*sigma
	return mu, sigma
}

// ExceedanceProbability converts a return period in years to the annual
// probability of at least one exceedance, P = 1 - exp(-1/R).
func ExceedanceProbability(returnPeriod float64) float64 {
	if returnPeriod <= 0 {
		return 1
	}
	return 1 - math.Exp(-1/returnPeriod)
}

// StrikeProbability is the annual probability of at least one event when
// the event count is Poisson with the given rate.
func StrikeProbability(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	p := distuv.Poisson{Lambda: lambda}
	return 1 - p.Prob(0)
}
