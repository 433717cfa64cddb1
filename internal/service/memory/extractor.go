package memory

import (
	"regexp"
	"strings"
	"time"

	"github.com/sandevgo/alexbot/internal/core"
)

type factRule struct {
	factType core.FactType
	re       *regexp.Regexp
}

// Rules are independent: every rule is tried against the same message.
var factRules = []factRule{
	{core.FactName, regexp.MustCompile(`(?i)my name is (\w+)|i'm (\w+)|call me (\w+)`)},
	{core.FactLocation, regexp.MustCompile(`(?i)i live in ([^,.!?]+)|i'm from ([^,.!?]+)`)},
	{core.FactInterest, regexp.MustCompile(`(?i)i love ([^,.!?]+)|i like ([^,.!?]+)|i enjoy ([^,.!?]+)`)},
	{core.FactOccupation, regexp.MustCompile(`(?i)i work as ([^,.!?]+)|i'm a ([^,.!?]+)|my job is ([^,.!?]+)`)},
	{core.FactMood, regexp.MustCompile(`(?i)i feel ([^,.!?]+)|i'm feeling ([^,.!?]+)`)},
}

// ExtractFacts pulls candidate personal facts out of a single message.
func ExtractFacts(message string, now time.Time) []core.Fact {
	var facts []core.Fact

	for _, rule := range factRules {
		match := rule.re.FindStringSubmatch(message)
		if match == nil {
			continue
		}

		content := firstGroup(match[1:])
		if content == "" {
			continue
		}

		facts = append(facts, core.Fact{
			Type:       rule.factType,
			Content:    content,
			Confidence: core.DefaultFactConfidence,
			Source:     message,
			Timestamp:  now,
		})
	}

	return facts
}

func firstGroup(groups []string) string {
	for _, g := range groups {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}
