package engine

import "kalushael-go/internal/mind/spark"

// Built-in intents the engine can always answer, even before the corpus has
// any samples. Corpus samples layer on top of these.
var builtinSamples = []spark.Sample{
	{Intent: "greeting", Text: "hello hey hi good morning greetings"},
	{Intent: "status", Text: "status account balance cash equity portfolio holdings"},
	{Intent: "risk", Text: "risk drawdown kill switch cooldown losses limit halted"},
	{Intent: "trades", Text: "trades fills orders executions last trade history"},
	{Intent: "help", Text: "help commands usage available options"},
}

func seedClassifier(c *spark.Classifier) {
	for _, s := range builtinSamples {
		c.Learn(s.Intent, s.Text)
	}
}

func defaultResponder(seed int64) *spark.Responder {
	r := spark.NewResponder(seed)
	r.Register("greeting",
		"hey. the engine is running, ask me about status, risk, or trades",
		"hello. markets never sleep, apparently neither do you")
	r.Register("help",
		"i answer questions about status, risk, and trades. everything else i remember and learn from")
	r.SetFallback("not sure what you mean yet. it went into memory, ask again later")
	return r
}
