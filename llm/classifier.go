package llm

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// Observation is what one payload contributed to the session.
type Observation struct {
	// Reasoning is text to append to the reasoning buffer.
	Reasoning string
	// Delta is text to append to the generation buffer and the visible delta.
	Delta string
	// Phase is the phase the payload implies, or PhaseNone.
	Phase Phase
	// Done is set by the terminal sentinel.
	Done bool
}

// Classifier routes payloads between the reasoning region and the generated
// content. It holds the per-session working state and is not safe for
// concurrent use; each session owns one.
type Classifier struct {
	accumulated strings.Builder
	inThink     bool
	thinkDone   bool
}

// Accumulated returns the raw generation text seen so far, fences included.
func (c *Classifier) Accumulated() string {
	return c.accumulated.String()
}

func (c *Classifier) InThink() bool   { return c.inThink }
func (c *Classifier) ThinkDone() bool { return c.thinkDone }

// Classify consumes one payload. Markers are found by substring search since
// the backend may fuse them with neighbouring tokens.
func (c *Classifier) Classify(payload string) Observation {
	switch {
	case payload == doneSentinel:
		return Observation{Done: true}

	case strings.Contains(payload, thinkOpen):
		c.inThink = true
		rest := strings.Replace(payload, thinkOpen, "", 1)
		// A whole region in one payload is closed here rather than left open.
		if strings.Contains(rest, thinkClose) {
			return c.closeThink(rest)
		}
		return Observation{Reasoning: rest, Phase: PhaseThinking}

	case strings.Contains(payload, thinkClose):
		return c.closeThink(payload)

	case c.inThink:
		return Observation{Reasoning: payload}

	default:
		if payload == "" {
			return Observation{}
		}
		c.accumulated.WriteString(payload)
		return Observation{Delta: payload, Phase: PhaseGenerating}
	}
}

// closeThink splits payload around the closing marker: text before it still
// belongs to the reasoning region, non-blank text after it is content. A
// stray marker outside any region is simply removed.
func (c *Classifier) closeThink(payload string) Observation {
	before, after, _ := strings.Cut(payload, thinkClose)
	var obs Observation
	if c.inThink {
		obs.Reasoning = before
	} else {
		after = before + after
	}
	c.inThink = false
	c.thinkDone = true
	obs.Phase = PhaseGenerating

	after = strings.TrimLeft(after, " \t\r\n")
	if after != "" {
		c.accumulated.WriteString(after)
		obs.Delta = after
	}
	return obs
}
