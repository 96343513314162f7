// internal/rating/glicko2.go
package rating

import "math"

const (
	// scale converts between the 1500-based scale and Glicko-2's internal mu/phi.
	scale = 173.7178

	BaseValue      = 1500.0
	BaseDeviation  = 350.0
	BaseVolatility = 0.06

	// tau constrains how fast volatility may move.
	tau     = 0.5
	epsilon = 0.000001
)

// Rating is a Glicko-2 rating expressed on the familiar 1500-based scale.
type Rating struct {
	Value      float64 `json:"value"`
	Deviation  float64 `json:"deviation"`
	Volatility float64 `json:"volatility"`
}

// Default is the rating of a seat that has not finished a game yet.
func Default() Rating {
	return Rating{Value: BaseValue, Deviation: BaseDeviation, Volatility: BaseVolatility}
}

// glicko is a rating in Glicko-2 space.
type glicko struct {
	mu, phi, sigma float64
}

func (r Rating) toGlicko() glicko {
	return glicko{
		mu:    (r.Value - BaseValue) / scale,
		phi:   r.Deviation / scale,
		sigma: r.Volatility,
	}
}

func (g glicko) toRating() Rating {
	return Rating{
		Value:      g.mu*scale + BaseValue,
		Deviation:  g.phi * scale,
		Volatility: g.sigma,
	}
}

// Update1v1 rates one decisive game. Both updates use the pre-game ratings.
func Update1v1(winner, loser Rating) (Rating, Rating) {
	w, l := winner.toGlicko(), loser.toGlicko()
	return update(w, l, 1).toRating(), update(l, w, 0).toRating()
}

// Expected is a's expected score against b, in [0, 1].
func Expected(a, b Rating) float64 {
	ga, gb := a.toGlicko(), b.toGlicko()
	return expected(ga.mu, gb.mu, gb.phi)
}

// update applies a single-game Glicko-2 step for r against opp with the given
// score (1 win, 0 loss).
func update(r, opp glicko, score float64) glicko {
	gOpp := gFactor(opp.phi)
	e := expected(r.mu, opp.mu, opp.phi)

	v := 1.0 / (gOpp * gOpp * e * (1 - e))
	delta := v * gOpp * (score - e)

	// New volatility by the Illinois method.
	a := math.Log(r.sigma * r.sigma)
	f := func(x float64) float64 {
		ex := math.Exp(x)
		d := r.phi*r.phi + v + ex
		return ex*(delta*delta-r.phi*r.phi-v-ex)/(2*d*d) - (x-a)/(tau*tau)
	}
	A := a
	var B float64
	if delta*delta > r.phi*r.phi+v {
		B = math.Log(delta*delta - r.phi*r.phi - v)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 {
			k++
		}
		B = a - k*tau
	}
	fA, fB := f(A), f(B)
	for i := 0; i < 100 && math.Abs(B-A) > epsilon; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}
	sigma := math.Exp(A / 2)

	phiStar := math.Sqrt(r.phi*r.phi + sigma*sigma)
	phi := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	mu := r.mu + phi*phi*gOpp*(score-e)
	return glicko{mu: mu, phi: phi, sigma: sigma}
}

// gFactor is 1/sqrt(1+3phi^2/pi^2).
func gFactor(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/(math.Pi*math.Pi))
}

func expected(mu, muOpp, phiOpp float64) float64 {
	return 1.0 / (1.0 + math.Exp(-gFactor(phiOpp)*(mu-muOpp)))
}
