package aggregate

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/agegap/internal/domain/types"
)

// Sentinels that keep FoM plottable on the log axis.
const (
	FoMAbsent   = -100.0 // no female and no male medalist
	FoMNoFemale = 0.01   // males only, or a ratio that rounds to zero
	FoMNoMale   = 100.0  // females only
	ratioScale  = 100
)

// FemaleOverMale returns round(female/male, 2) with sentinel substitution
// for the degenerate cases.
func FemaleOverMale(female, male int) float64 {
	switch {
	case female == 0 && male == 0:
		return FoMAbsent
	case male == 0:
		return FoMNoMale
	}
	r := round2(float64(female) / float64(male))
	if r == 0 {
		return FoMNoFemale
	}
	return r
}

// ShareOfAll returns round(fam/all*100, 2), undefined when all is 0.
func ShareOfAll(fam, all int) types.Number {
	if all == 0 {
		return types.NaN()
	}
	return types.Number(round2(float64(fam) / float64(all) * 100))
}

// round2 rounds to two decimals, halves to even.
func round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return math.RoundToEven(x*ratioScale) / ratioScale
}

// DisplayLabel splits a sport name at its first parenthesis onto two lines.
func DisplayLabel(sport string) string {
	i := strings.IndexByte(sport, '(')
	if i < 0 {
		return sport
	}
	return sport[:i] + "<br>" + sport[i:]
}

// AgeRangeLabel renders the caption of the selected age range, marking an
// open-ended upper bound with "+".
func AgeRangeLabel(lo, hi, ageMax int) string {
	plus := ""
	if hi == ageMax {
		plus = "+"
	}
	return fmt.Sprintf("(%d-%d%s) selected", lo, hi, plus)
}
