package workload

import (
	"math"
	"math/rand"
	"testing"
)

func TestPoissonSampler_MeanIAT_MatchesRate(t *testing.T) {
	// GIVEN a Poisson sampler at 0.01 packets per tick
	rng := rand.New(rand.NewSource(42))
	sampler := NewArrivalSampler(ArrivalSpec{Process: "poisson"}, 0.01)

	// WHEN 10000 IATs are sampled
	n := 10000
	sum := int64(0)
	for i := 0; i < n; i++ {
		sum += sampler.SampleIAT(rng)
	}
	meanIAT := float64(sum) / float64(n)

	// THEN mean IAT ≈ 1/rate = 100 ticks (within 5%)
	expected := 100.0
	if math.Abs(meanIAT-expected)/expected > 0.05 {
		t.Errorf("mean IAT = %.1f ticks, want ≈ %.0f (within 5%%)", meanIAT, expected)
	}
}

func TestGammaSampler_HighCV_ProducesBurstierArrivals(t *testing.T) {
	// GIVEN a Gamma sampler with CV=3.5 and a Poisson sampler at same rate
	rng1 := rand.New(rand.NewSource(42))
	rng2 := rand.New(rand.NewSource(42))
	cv := 3.5
	rate := 0.001
	gamma := NewArrivalSampler(ArrivalSpec{Process: "gamma", CV: &cv}, rate)
	poisson := NewArrivalSampler(ArrivalSpec{Process: "poisson"}, rate)

	// WHEN 10000 IATs sampled from each
	n := 10000
	gammaIATs := make([]float64, n)
	poissonIATs := make([]float64, n)
	for i := 0; i < n; i++ {
		gammaIATs[i] = float64(gamma.SampleIAT(rng1))
		poissonIATs[i] = float64(poisson.SampleIAT(rng2))
	}

	// THEN Gamma CV > 2.0 and Poisson CV ≈ 1.0
	gammaCV := coefficientOfVariation(gammaIATs)
	poissonCV := coefficientOfVariation(poissonIATs)
	if gammaCV < 2.0 {
		t.Errorf("gamma CV = %.2f, want > 2.0", gammaCV)
	}
	if poissonCV < 0.8 || poissonCV > 1.2 {
		t.Errorf("poisson CV = %.2f, want ≈ 1.0", poissonCV)
	}
}

func TestConstantArrivalSampler_FixedSpacing(t *testing.T) {
	sampler := NewArrivalSampler(ArrivalSpec{Process: "constant"}, 0.25)
	for i := 0; i < 5; i++ {
		if got := sampler.SampleIAT(nil); got != 4 {
			t.Fatalf("IAT = %d, want 4", got)
		}
	}
}

func TestArrivalSamplers_NeverReturnLessThanOneTick(t *testing.T) {
	// GIVEN rates far above one packet per tick
	rng := rand.New(rand.NewSource(7))
	cv := 0.5
	samplers := map[string]ArrivalSampler{
		"poisson":  NewArrivalSampler(ArrivalSpec{Process: "poisson"}, 50),
		"gamma":    NewArrivalSampler(ArrivalSpec{Process: "gamma", CV: &cv}, 50),
		"constant": NewArrivalSampler(ArrivalSpec{Process: "constant"}, 50),
	}
	for name, s := range samplers {
		for i := 0; i < 1000; i++ {
			if iat := s.SampleIAT(rng); iat < 1 {
				t.Fatalf("%s: IAT = %d, want >= 1", name, iat)
			}
		}
	}
}

func TestNewArrivalSampler_TinyGammaShape_FallsBackToPoisson(t *testing.T) {
	cv := 20.0
	if _, ok := NewArrivalSampler(ArrivalSpec{Process: "gamma", CV: &cv}, 0.1).(*PoissonSampler); !ok {
		t.Error("expected Poisson fallback for CV=20")
	}
}

func meanAndVariance(vals []float64) (float64, float64) {
	n := float64(len(vals))
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	ss := 0.0
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return mean, ss / n
}

func coefficientOfVariation(vals []float64) float64 {
	mean, variance := meanAndVariance(vals)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}
