// Package spark is a keyword-weight intent classifier. It scores tokenized
// input against per-intent keyword weights learned from a JSONL corpus and
// answers with templated responses. It makes no pretense of being more than
// that.
package spark

import (
	"sort"
	"strings"
	"sync"
)

// Intent is a classification outcome.
type Intent struct {
	Name    string
	Score   float64
	Matched []string
}

// Classifier holds per-intent keyword weights.
type Classifier struct {
	mu      sync.RWMutex
	intents map[string]map[string]float64
	docs    map[string]int
}

// NewClassifier returns an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		intents: make(map[string]map[string]float64),
		docs:    make(map[string]int),
	}
}

// Learn folds one labeled text into the intent's keyword weights.
func (c *Classifier) Learn(intent, text string) {
	tokens := Tokenize(text)
	if intent == "" || len(tokens) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	weights := c.intents[intent]
	if weights == nil {
		weights = make(map[string]float64)
		c.intents[intent] = weights
	}
	for _, tok := range tokens {
		weights[tok]++
	}
	c.docs[intent]++
}

// Intents lists known intent names sorted for determinism.
func (c *Classifier) Intents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.intents))
	for name := range c.intents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Classify scores the input against every intent and returns the best match.
// Scores are normalized by the intent's document count so prolific intents
// do not drown the rest; ties break alphabetically for determinism.
func (c *Classifier) Classify(text string) Intent {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Intent{Name: "unknown"}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	best := Intent{Name: "unknown"}
	names := make([]string, 0, len(c.intents))
	for name := range c.intents {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		weights := c.intents[name]
		norm := float64(c.docs[name])
		if norm == 0 {
			norm = 1
		}
		var score float64
		var matched []string
		for _, tok := range tokens {
			if w, ok := weights[tok]; ok {
				score += w / norm
				matched = append(matched, tok)
			}
		}
		if score > best.Score {
			best = Intent{Name: name, Score: score, Matched: matched}
		}
	}
	return best
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "i": {}, "you": {},
	"me": {}, "my": {}, "do": {}, "what": {}, "how": {},
}

// Tokenize lowercases, strips non-alphanumerics, and drops stopwords.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
