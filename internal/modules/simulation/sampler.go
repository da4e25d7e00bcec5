package simulation

import (
	"math/rand/v2"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"gonum.org/v1/gonum/stat/distuv"
)

// sampler draws one value of an uncertain variable per trial.
type sampler interface {
	Rand() float64
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }

// clamped keeps a normal draw inside the configured range.
type clamped struct {
	dist     distuv.Normal
	min, max float64
}

func (c clamped) Rand() float64 {
	x := c.dist.Rand()
	if x < c.min {
		return c.min
	}
	if x > c.max {
		return c.max
	}
	return x
}

// newSampler builds the sampler for r. A range with min == max always yields that value.
// The normal distribution is centred on the most likely value with σ = (max − min)/6 so that
// the range spans ±3σ.
func newSampler(r domain.VariableRange, src rand.Source) sampler {
	if r.Max == r.Min {
		return constant(r.Min)
	}

	switch r.Distribution {
	case domain.DistributionUniform:
		return distuv.Uniform{Min: r.Min, Max: r.Max, Src: src}
	case domain.DistributionTriangular:
		return distuv.NewTriangle(r.Min, r.Max, r.MostLikely, src)
	default:
		return clamped{
			dist: distuv.Normal{Mu: r.MostLikely, Sigma: (r.Max - r.Min) / 6, Src: src},
			min:  r.Min,
			max:  r.Max,
		}
	}
}
