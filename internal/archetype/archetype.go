// Package archetype labels chat participants from their message volume and vibe.
package archetype

import (
	"fmt"

	"github.com/MikeSquared-Agency/vibecheck/internal/stats"
)

// Archetype is a participant's behavioural label.
type Archetype string

const (
	Ghost  Archetype = "ghost"
	Saint  Archetype = "saint"
	Menace Archetype = "menace"
	Yapper Archetype = "yapper"
	NPC    Archetype = "npc"
)

// Rule thresholds.
const (
	ghostMaxMessages  = 5    // fewer than this many messages
	saintMinVibe      = 0.3  // vibe strictly above
	menaceMaxVibe     = -0.1 // vibe strictly below
	menaceMinMessages = 100  // or more messages than this
	yapperPercentile  = 0.9
)

var labels = map[Archetype]string{
	Ghost:  "👻 The Ghost",
	Saint:  "😇 The Saint",
	Menace: "💀 The Menace",
	Yapper: "📢 The Yapper",
	NPC:    "😐 NPC",
}

// Label returns the display label, e.g. "👻 The Ghost".
func (a Archetype) Label() string {
	if l, ok := labels[a]; ok {
		return l
	}
	return string(a)
}

// ParseArchetype converts a name such as "yapper" into an Archetype.
func ParseArchetype(s string) (Archetype, error) {
	a := Archetype(s)
	if _, ok := labels[a]; !ok {
		return "", fmt.Errorf("unknown archetype %q", s)
	}
	return a, nil
}

// Classify applies the rules in priority order; the first match wins.
// yapperThreshold is the 90th percentile of message counts across all authors in the run.
func Classify(messageCount int, vibe float64, yapperThreshold float64) Archetype {
	switch {
	case messageCount < ghostMaxMessages:
		return Ghost
	case vibe > saintMinVibe:
		return Saint
	case vibe < menaceMaxVibe || messageCount > menaceMinMessages:
		return Menace
	case float64(messageCount) > yapperThreshold:
		return Yapper
	default:
		return NPC
	}
}

// YapperThreshold is the 90th percentile of message counts over the whole population.
func YapperThreshold(authors []stats.AuthorStats) float64 {
	return stats.Percentile(stats.Counts(authors), yapperPercentile)
}

// Profile is an author's aggregate together with the label assigned to it.
type Profile struct {
	stats.AuthorStats
	Archetype Archetype `json:"archetype"`
	Label     string    `json:"label"`
}

// ClassifyAll labels every author. The yapper threshold is computed once from
// this population and shared by every classification.
func ClassifyAll(authors []stats.AuthorStats) []Profile {
	threshold := YapperThreshold(authors)

	profiles := make([]Profile, len(authors))
	for i, a := range authors {
		arch := Classify(a.MessageCount, a.VibeScore, threshold)
		profiles[i] = Profile{
			AuthorStats: a,
			Archetype:   arch,
			Label:       arch.Label(),
		}
	}
	return profiles
}
