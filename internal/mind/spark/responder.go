package spark

import (
	"fmt"
	"math/rand"
	"sync"
)

// Responder maps intents to response templates. Templates may carry one %s
// verb which is filled with the strongest matched keyword.
type Responder struct {
	mu        sync.RWMutex
	templates map[string][]string
	fallback  string
	rng       *rand.Rand
}

// NewResponder returns a responder with a deterministic template picker.
func NewResponder(seed int64) *Responder {
	return &Responder{
		templates: make(map[string][]string),
		fallback:  "I don't have a pattern for that yet.",
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Register adds templates for an intent.
func (r *Responder) Register(intent string, templates ...string) {
	if intent == "" || len(templates) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[intent] = append(r.templates[intent], templates...)
}

// SetFallback replaces the reply used for unknown intents.
func (r *Responder) SetFallback(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = text
}

// Respond renders a reply for the classified intent.
func (r *Responder) Respond(in Intent) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tpls := r.templates[in.Name]
	if len(tpls) == 0 {
		return r.fallback
	}
	tpl := tpls[r.rng.Intn(len(tpls))]
	if len(in.Matched) > 0 {
		return fmt.Sprintf(tpl, in.Matched[0])
	}
	return tpl
}
