// Package sizing computes contract counts for approved recommendations.
// The sizer is a pure function of the recommendation, the base size and a
// psychological factor snapshot; it never writes state.
package sizing

import (
	"github.com/shopspring/decimal"

	"parlay/internal/psych"
	"parlay/internal/types"
)

var (
	decOne     = decimal.NewFromInt(1)
	decTwo     = decimal.NewFromInt(2)
	decHundred = decimal.NewFromInt(100)
	decFifty   = decimal.NewFromInt(50)
	decCrowdW  = decimal.NewFromFloat(0.2)
)

// Size returns the adjusted contract count, floored and never below 1.
//
// Multipliers, all centered at 1.0:
//   - confidence: 1 + (confidence-50)/100, so [0,100] maps to [0.5, 1.5]
//   - sentiment: the factor itself for YES, mirrored (2 - factor) for NO
//   - crowd: 1 + 0.2*(factor-1), a dampened contribution
func Size(rec types.Recommendation, baseSize int, factors psych.Factors) int {
	if baseSize < 1 {
		baseSize = 1
	}

	confidence := decimal.NewFromInt(int64(rec.Confidence))
	confMult := decOne.Add(confidence.Sub(decFifty).Div(decHundred))

	sentiment := decimal.NewFromFloat(factors.Sentiment)
	sentMult := sentiment
	if rec.Side == types.SideNo {
		sentMult = decTwo.Sub(sentiment)
	}

	crowd := decimal.NewFromFloat(factors.Crowd)
	crowdMult := decOne.Add(decCrowdW.Mul(crowd.Sub(decOne)))

	adjusted := decimal.NewFromInt(int64(baseSize)).
		Mul(confMult).
		Mul(sentMult).
		Mul(crowdMult)

	size := int(adjusted.IntPart())
	if size < 1 {
		return 1
	}
	return size
}
