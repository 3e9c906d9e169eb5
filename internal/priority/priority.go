// Package priority ranks agents by how far their observed latency
// distribution sits from an ideal (zero-latency) baseline, using a
// pairwise Wasserstein distance matrix and a 1-D classical MDS
// embedding, the same two-stage approach as the original
// agent_wasserstein_mds_sort.
package priority

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

const idealAgentName = "Ideal"
const idealSampleCount = 50

// Rank groups samples by agent, adds a synthetic zero-latency "Ideal"
// agent, computes the Wasserstein distance matrix between every pair and
// embeds it in one dimension, then returns agent names ordered by
// ascending distance from Ideal's position (closest-to-ideal first).
func Rank(samples []contracts.LatencySample) []string {
	byAgent := groupByAgent(samples)
	if len(byAgent) == 0 {
		return nil
	}

	names := make([]string, 0, len(byAgent)+1)
	for name := range byAgent {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic matrix ordering

	byAgent[idealAgentName] = make([]float64, idealSampleCount)
	names = append(names, idealAgentName)

	n := len(names)
	dist := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := wasserstein1D(byAgent[names[i]], byAgent[names[j]])
			dist.SetSym(i, j, d)
		}
	}

	positions := classicalMDS1D(dist, n)

	idealIdx := indexOf(names, idealAgentName)
	idealPos := positions[idealIdx]

	type scored struct {
		name string
		gap  float64
	}
	var scoredAgents []scored
	for i, name := range names {
		if name == idealAgentName {
			continue
		}
		scoredAgents = append(scoredAgents, scored{name: name, gap: math.Abs(positions[i] - idealPos)})
	}
	sort.SliceStable(scoredAgents, func(i, j int) bool { return scoredAgents[i].gap < scoredAgents[j].gap })

	out := make([]string, len(scoredAgents))
	for i, s := range scoredAgents {
		out[i] = s.name
	}
	return out
}

func groupByAgent(samples []contracts.LatencySample) map[string][]float64 {
	out := make(map[string][]float64)
	for _, s := range samples {
		out[s.Agent] = append(out[s.Agent], s.LatencySeconds)
	}
	return out
}

func indexOf(names []string, target string) int {
	for i, n := range names {
		if n == target {
			return i
		}
	}
	return -1
}

// wasserstein1D computes the 1-Wasserstein (earth mover's) distance
// between two empirical samples by integrating the absolute difference of
// their empirical CDFs over the merged sample points, matching
// scipy.stats.wasserstein_distance for unweighted samples.
func wasserstein1D(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	sa := append([]float64(nil), a...)
	sb := append([]float64(nil), b...)
	sort.Float64s(sa)
	sort.Float64s(sb)

	all := append(append([]float64(nil), sa...), sb...)
	sort.Float64s(all)

	var total float64
	for i := 1; i < len(all); i++ {
		width := all[i] - all[i-1]
		if width <= 0 {
			continue
		}
		mid := (all[i] + all[i-1]) / 2
		cdfA := empiricalCDF(sa, mid)
		cdfB := empiricalCDF(sb, mid)
		total += math.Abs(cdfA-cdfB) * width
	}
	return total
}

func empiricalCDF(sorted []float64, x float64) float64 {
	idx := sort.SearchFloat64s(sorted, x)
	return float64(idx) / float64(len(sorted))
}

// classicalMDS1D performs Torgerson/classical MDS, returning a
// deterministic 1-D embedding: double-center the squared distance
// matrix, then take the top eigenvector scaled by sqrt(eigenvalue).
// Unlike the original's SMACOF-based sklearn.manifold.MDS (which needs a
// fixed random seed to be reproducible), this is deterministic by
// construction.
func classicalMDS1D(dist *mat.SymDense, n int) []float64 {
	d2 := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := dist.At(i, j)
			d2.SetSym(i, j, v*v)
		}
	}

	// J = I - 1/n * ones*ones^T
	j := mat.NewDense(n, n, nil)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := -1.0 / float64(n)
			if r == c {
				v += 1.0
			}
			j.Set(r, c, v)
		}
	}

	var jd mat.Dense
	jd.Mul(j, d2)
	var b mat.Dense
	b.Mul(&jd, j)
	b.Scale(-0.5, &b)

	bSym := mat.NewSymDense(n, nil)
	for r := 0; r < n; r++ {
		for c := r; c < n; c++ {
			bSym.SetSym(r, c, b.At(r, c))
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(bSym, true)
	if !ok {
		return make([]float64, n)
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	lambda := values[best]
	if lambda < 0 {
		lambda = 0
	}
	scale := math.Sqrt(lambda)

	positions := make([]float64, n)
	for i := 0; i < n; i++ {
		positions[i] = vectors.At(i, best) * scale
	}
	return positions
}
