package sim

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Source is everything the game simulator draws from. It is satisfied by
// *RNG; tests may substitute scripted sources.
type Source interface {
	Float64() float64
	IntN(n int) int
	Normal(mu, sigma float64) float64
	Uniform(lo, hi float64) float64
}

// RNG is a seeded, non-global random source. One RNG belongs to one
// season run and is not safe for concurrent use.
type RNG struct {
	src *rand.PCG
	r   *rand.Rand
}

func NewRNG(seed uint64) *RNG {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &RNG{src: src, r: rand.New(src)}
}

// NewRandomRNG seeds from the runtime's entropy source.
func NewRandomRNG() *RNG {
	return NewRNG(rand.Uint64())
}

func (g *RNG) Float64() float64 { return g.r.Float64() }

func (g *RNG) IntN(n int) int { return g.r.IntN(n) }

func (g *RNG) Uint64() uint64 { return g.r.Uint64() }

func (g *RNG) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: g.src}.Rand()
}

func (g *RNG) Uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: g.src}.Rand()
}

// DeriveSeed spreads a batch seed into independent per-run seeds so run i
// draws the same numbers no matter which worker executes it.
func DeriveSeed(base uint64, run int) uint64 {
	z := base + uint64(run+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
