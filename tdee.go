package main

import "math"

// Energy-balance model constants. The 7700 kcal/kg body-mass equivalent and
// the 0.7–1.3 trust region are heuristics, kept as named constants so they
// can be tuned without touching the estimator.
const (
	kcalPerKgBodyMass = 7700.0
	tdeeClampLow      = 0.7
	tdeeClampHigh     = 1.3
	tdeeWindow        = 7
	tdeeMinRows       = 10
)

// estimateTDEE recalibrates the daily energy-expenditure baseline from log
// history using a rolling 7-sample energy-balance model:
//
//	implied 7-day expenditure ≈ 7-day kcal intake − 7700 · Δ(7-day mean weight)
//
// where Δ pairs each window with the window 7 rows ahead. Rows are aligned
// by order, not calendar gaps — missing days are not re-inserted. The raw
// estimate is clamped to [0.7, 1.3]×baseline to guard against noisy
// regression over short histories. Returns ok=false when fewer than 10
// rows carry both kcal_in and weight_kg, or when the lookahead leaves no
// usable pairs.
func estimateTDEE(logs []logEntry, baseline int) (int, bool) {
	var kcal, weight []float64
	for _, l := range logs {
		if l.KcalIn != nil && l.WeightKG != nil {
			kcal = append(kcal, float64(*l.KcalIn))
			weight = append(weight, *l.WeightKG)
		}
	}
	n := len(kcal)
	if n < tdeeMinRows {
		return 0, false
	}

	// Trailing rolling aggregates: index i holds the window ending at i,
	// valid from i = tdeeWindow-1 onward.
	kcalSum7 := make([]float64, n)
	wtMean7 := make([]float64, n)
	var kcalAcc, wtAcc float64
	for i := 0; i < n; i++ {
		kcalAcc += kcal[i]
		wtAcc += weight[i]
		if i >= tdeeWindow {
			kcalAcc -= kcal[i-tdeeWindow]
			wtAcc -= weight[i-tdeeWindow]
		}
		if i >= tdeeWindow-1 {
			kcalSum7[i] = kcalAcc
			wtMean7[i] = wtAcc / tdeeWindow
		}
	}

	// Pair each window with the one 7 rows ahead; the tail 7 rows have no
	// lookahead and drop out.
	var total float64
	count := 0
	for i := tdeeWindow - 1; i+tdeeWindow < n; i++ {
		deltaW := wtMean7[i+tdeeWindow] - wtMean7[i]
		total += kcalSum7[i] - kcalPerKgBodyMass*deltaW
		count++
	}
	if count == 0 {
		return 0, false
	}

	est := total / float64(count) / float64(tdeeWindow)
	lo := float64(baseline) * tdeeClampLow
	hi := float64(baseline) * tdeeClampHigh
	est = math.Max(lo, math.Min(hi, est))
	return int(math.Round(est)), true
}

/* ─── Adherence tuner ────────────────────────────────────────────────── */

// defaultAdherenceWindow is the tail length inspected by adherenceTune when
// the caller doesn't specify one. 7 is the other value the UI offers.
const defaultAdherenceWindow = 14

// adherenceResult reports how closely recent logs tracked the goals and the
// proposed bounded calorie adjustment.
type adherenceResult struct {
	KcalRate    float64 `json:"kcal_rate"`
	ProteinRate float64 `json:"protein_rate"`
	KcalAdjust  int     `json:"kcal_adjust"`
}

// adherenceTune inspects the most recent `window` log entries against the
// current goals. KcalRate is the fraction of entries with intake within ±5%
// of the kcal target (inclusive); ProteinRate the fraction at ≥90% of the
// protein target. The adjustment is −100 below a 0.4 kcal rate, +100 above
// 0.8, else 0. Returns ok=false when the history is empty, the goals lack a
// kcal or protein target, or no tail entry carries both fields.
//
// Callers apply the adjustment as max(1000, kcal+adjust) — the 1000 kcal
// floor is a hard safety clamp.
func adherenceTune(logs []logEntry, g *goals, window int) (adherenceResult, bool) {
	if len(logs) == 0 || g == nil || g.Kcal == 0 || g.ProteinG == 0 {
		return adherenceResult{}, false
	}
	if window <= 0 {
		window = defaultAdherenceWindow
	}

	tail := logs
	if len(tail) > window {
		tail = tail[len(tail)-window:]
	}

	kcalTarget := float64(g.Kcal)
	proteinTarget := float64(g.ProteinG)
	var kcalHits, proteinHits, count int
	for _, l := range tail {
		if l.KcalIn == nil || l.ProteinG == nil {
			continue
		}
		count++
		in := float64(*l.KcalIn)
		if in >= kcalTarget*0.95 && in <= kcalTarget*1.05 {
			kcalHits++
		}
		if float64(*l.ProteinG) >= proteinTarget*0.9 {
			proteinHits++
		}
	}
	if count == 0 {
		return adherenceResult{}, false
	}

	res := adherenceResult{
		KcalRate:    float64(kcalHits) / float64(count),
		ProteinRate: float64(proteinHits) / float64(count),
	}
	if res.KcalRate < 0.4 {
		res.KcalAdjust -= 100
	}
	if res.KcalRate > 0.8 {
		res.KcalAdjust += 100
	}
	return res, true
}
