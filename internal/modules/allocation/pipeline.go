package allocation

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/praxos/vaults/internal/modules/risk"
	"gonum.org/v1/gonum/floats"
)

// Score weights for the credit/yield blend.
const (
	creditWeight = 0.4
	yieldWeight  = 0.6
	yieldScale   = 10.0
)

// filterCandidates keeps the signatures eligible for a template, preserving pool order.
func filterCandidates(pool []risk.Signature, tmpl StrategyTemplate) []risk.Signature {
	candidates := make([]risk.Signature, 0, len(pool))
	for _, sig := range pool {
		if absInt(sig.RiskTier-tmpl.RiskTier) > 1 {
			continue
		}
		if tmpl.MinCreditScore != nil && sig.CreditScore < *tmpl.MinCreditScore {
			continue
		}
		// PreferredTypes does not participate in filtering or ordering.
		if tmpl.MinYield != nil && sig.AnnualYield < *tmpl.MinYield {
			continue
		}
		if tmpl.TargetDuration > 0 {
			diff := float64(absInt(sig.MaturityDays - tmpl.TargetDuration))
			if diff > float64(tmpl.TargetDuration)*0.5 {
				continue
			}
		}
		candidates = append(candidates, sig)
	}
	return candidates
}

// selectAssets picks up to MaxAssets candidates, one of each asset type first.
func selectAssets(candidates []risk.Signature, tmpl StrategyTemplate) []risk.Signature {
	// A non-positive MaxAssets selects nothing
	maxAssets := max(0, min(tmpl.MaxAssets, len(candidates)))
	minDiv := tmpl.MinDiversificationOrDefault()

	picked := make([]bool, len(candidates))
	selected := make([]risk.Signature, 0, maxAssets)
	seenTypes := make(map[string]struct{})

	for i, sig := range candidates {
		if len(selected) >= maxAssets {
			break
		}
		if _, seen := seenTypes[sig.AssetType]; seen {
			continue
		}
		seenTypes[sig.AssetType] = struct{}{}
		picked[i] = true
		selected = append(selected, sig)
	}

	for i, sig := range candidates {
		if len(selected) >= maxAssets {
			break
		}
		if picked[i] {
			continue
		}
		picked[i] = true
		selected = append(selected, sig)
	}

	if len(selected) < minDiv {
		n := min(max(maxAssets, minDiv), len(candidates))
		selected = append(selected[:0:0], candidates[:n]...)
	}

	if len(selected) > maxAssets {
		selected = selected[:maxAssets]
	}
	return selected
}

// calculateWeights assigns basis-point weights from the credit/yield score and
// normalises them to TotalBasisPoints.
func calculateWeights(assets []risk.Signature) []int {
	n := len(assets)
	if n == 0 {
		return nil
	}

	scores := make([]float64, n)
	for i, sig := range assets {
		scores[i] = sig.CreditScore*creditWeight + sig.AnnualYield*yieldScale*yieldWeight
	}
	totalScore := floats.Sum(scores)

	equal := TotalBasisPoints / n
	raw := make([]int, n)
	for i := range raw {
		if totalScore > 0 {
			raw[i] = int(math.Round(scores[i] / totalScore * TotalBasisPoints))
		} else {
			raw[i] = equal
		}
	}

	total := 0
	for _, w := range raw {
		total += w
	}
	if total <= 0 {
		raw = make([]int, n)
		for i := range raw {
			raw[i] = equal
		}
		total = equal * n
	}

	normalized := make([]int, n)
	sum := 0
	for i, w := range raw {
		normalized[i] = int(math.Floor(float64(w) * TotalBasisPoints / float64(total)))
		sum += normalized[i]
	}
	normalized[0] += TotalBasisPoints - sum
	return normalized
}

// expectedYield is the weight-averaged annual yield in percent. It returns 0
// when assets and weights are not parallel.
func expectedYield(assets []risk.Signature, weights []int) float64 {
	if len(assets) != len(weights) || len(assets) == 0 {
		return 0
	}
	yields := make([]float64, len(assets))
	bps := make([]float64, len(weights))
	for i := range assets {
		yields[i] = assets[i].AnnualYield
		bps[i] = float64(weights[i])
	}
	return floats.Dot(yields, bps) / TotalBasisPoints
}

// diversificationScore rates type variety and tier spread on a 0-100 scale.
func diversificationScore(assets []risk.Signature) float64 {
	if len(assets) == 0 {
		return 0
	}

	types := make(map[string]struct{}, len(assets))
	tiers := make([]float64, len(assets))
	for i, sig := range assets {
		types[sig.AssetType] = struct{}{}
		tiers[i] = float64(sig.RiskTier)
	}

	typeDiversity := float64(len(types)) / float64(max(5, len(assets))) * 50
	tierDiversity := math.Min(50, (floats.Max(tiers)-floats.Min(tiers))*10)
	return math.Min(100, typeDiversity+tierDiversity)
}

// strategyName resolves the display name for id and appends the asset count.
func strategyName(catalog *Catalog, id string, assetCount int) string {
	name := catalog.DisplayName(id)
	if name == "" {
		name = titleCase(strings.ReplaceAll(id, "-", " "))
	}
	if assetCount > 0 {
		name = fmt.Sprintf("%s (%d Assets)", name, assetCount)
	}
	return name
}

// titleCase upper-cases every letter that follows a non-letter and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
