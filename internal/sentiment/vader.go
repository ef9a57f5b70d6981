package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Vader scores text with the VADER lexicon. The lexicon is loaded once when the
// scorer is constructed; scoring only reads it.
type Vader struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVader() *Vader {
	return &Vader{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns VADER's compound score.
func (v *Vader) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return Clamp(v.sia.PolarityScores(text).Compound)
}
