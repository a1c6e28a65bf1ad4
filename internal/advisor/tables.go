package advisor

// ============================================================================
// SYMBOL PATTERN TABLES
// ============================================================================

// Symbol names for the four trajectory patterns.
const (
	SymbolDodo         = "DODO"
	SymbolDisruption   = ">•^•"
	SymbolMomentum     = "^••>"
	SymbolBreakthrough = "•"
)

// SymbolPattern pairs a trajectory symbol with the keyword and phrase
// evidence that maps text onto it. Phrases carry double weight.
type SymbolPattern struct {
	Symbol      string
	Description string
	Keywords    []string
	Phrases     []string
}

// Patterns is the fixed symbol table. Order is the ranking tie-break.
var Patterns = []SymbolPattern{
	{
		Symbol:      SymbolDodo,
		Description: "Recursive self-reinforcing loop",
		Keywords: []string{
			"explain", "repeat", "again", "over", "keep", "trying", "push",
			"too hard", "too much", "overwhelm", "frustrated", "stuck", "cycle",
			"loop", "same", "always", "apologize", "sorry", "guilt", "convince",
			"make them understand", "clarify", "defensive", "justify", "insist",
		},
		Phrases: []string{
			"I keep trying to explain",
			"I sent too many messages",
			"I can't stop thinking about",
			"I feel guilty for pushing",
			"I need to make them understand",
			"I apologized multiple times",
		},
	},
	{
		Symbol:      SymbolDisruption,
		Description: "Disruption without transition",
		Keywords: []string{
			"shut down", "closed", "react", "sudden", "abrupt", "backfired",
			"wrong time", "bad timing", "interrupted", "stopped", "wall",
			"defensive", "withdraw", "rejected", "blocked", "mistake",
			"misunderstood", "upset", "offended", "hurt", "triggered",
			"angry", "cold", "distance", "pull away",
		},
		Phrases: []string{
			"they shut down when I",
			"I said the wrong thing",
			"it backfired completely",
			"they got defensive when",
			"hit a wall with them",
			"they pulled away after",
		},
	},
	{
		Symbol:      SymbolMomentum,
		Description: "Progressive momentum",
		Keywords: []string{
			"progress", "better", "opening", "softening", "warming", "responded",
			"answered", "replied", "hopeful", "excited", "forward", "movement",
			"positive", "improving", "connecting", "receptive", "open",
			"responsive", "engaged", "interested", "reaching out", "initiative",
		},
		Phrases: []string{
			"things were getting better",
			"they finally responded",
			"we had a good moment",
			"they seemed more open",
			"conversation was flowing",
			"I feel like we're connecting",
		},
	},
	{
		Symbol:      SymbolBreakthrough,
		Description: "Breakthrough moment",
		Keywords: []string{
			"moment", "special", "deep", "vulnerable", "shared", "opened up",
			"tears", "emotional", "intimate", "confession", "truth", "honest",
			"genuine", "rare", "unique", "meaningful", "significant", "breakthrough",
			"different", "trust", "connection", "real", "authentic", "close",
		},
		Phrases: []string{
			"they opened up about",
			"we had a real connection",
			"they shared something personal",
			"it was a vulnerable moment",
			"they cried when talking about",
			"it felt different from our usual",
		},
	},
}

// ============================================================================
// EXECUTION MODES
// ============================================================================

// Mode selects how a directive is framed.
type Mode string

const (
	ModeReflect  Mode = "reflect"
	ModeRealTime Mode = "real-time"
	ModeSimulate Mode = "simulate"
)

// ModeInfo describes one execution mode.
type ModeInfo struct {
	Description     string
	DirectivePrefix string
	Prompt          string
}

// Modes maps each execution mode to its framing.
var Modes = map[Mode]ModeInfo{
	ModeReflect: {
		Description:     "Process past interactions to correct trajectory",
		DirectivePrefix: "For healing, ",
		Prompt:          "Describe what happened in the interaction:",
	},
	ModeRealTime: {
		Description:     "Make decisions before acting",
		DirectivePrefix: "Right now, ",
		Prompt:          "What are you considering doing or saying?",
	},
	ModeSimulate: {
		Description:     "Test future actions for symbolic impact",
		DirectivePrefix: "If you proceed, ",
		Prompt:          "What are you planning to do?",
	},
}

// ============================================================================
// DIRECTIVE DATABASE
// ============================================================================

var directives = map[string]map[Mode][]string{
	SymbolDodo: {
		ModeReflect: {
			"Stop explaining. Allow silence to break the recursive loop.",
			"Release the need to make them understand your perspective.",
			"Break the pattern by not engaging in the usual way.",
			"The loop continues because you keep it alive with attention.",
			"Your explanation becomes the problem it tries to solve.",
		},
		ModeRealTime: {
			"Do not send. Your impulse perpetuates the recursive pattern.",
			"Step away from your device. The urge to fix is the pattern.",
			"Delete what you've written. Wait 24 hours minimum.",
			"Your instinct to clarify will deepen the recursion.",
			"Choose decisive silence over more words.",
		},
		ModeSimulate: {
			"High risk of deepening the loop. Choose simpler gesture or silence.",
			"Your planned action will reset you to the beginning of the loop.",
			"What you're planning feeds the pattern you're trying to break.",
			"Complexity will be interpreted as more of the same pattern.",
			"The gesture contains the same energy that created distance.",
		},
	},
	SymbolDisruption: {
		ModeReflect: {
			"Acknowledge briefly without explanation. Then create space.",
			"No fixing needed. Just a simple acknowledgment and then distance.",
			"The disruption needs space, not resolution.",
			"Mark the moment with one clean gesture, then step back completely.",
			"Trying to correct the disruption will only amplify it.",
		},
		ModeRealTime: {
			"Pause. Offer one simple gesture, then step back completely.",
			"One message maximum. No follow-ups regardless of response.",
			"Make your communication brief and without expectation.",
			"Now is not the time for complete resolution. Just acknowledgment.",
			"A single clear gesture has more impact than multiple attempts.",
		},
		ModeSimulate: {
			"Simplify your plan. Less content, more symbolism. Then withdraw.",
			"Cut your planned message by 90%. One symbol is enough.",
			"Your gesture should acknowledge without trying to fix.",
			"The ideal intervention is brief, clear, and without expectation.",
			"Plan to send once, then create genuine space afterward.",
		},
	},
	SymbolMomentum: {
		ModeReflect: {
			"Match tempo but don't accelerate. Allow natural pacing.",
			"Mirror the energy you receive without amplifying it.",
			"Recognize progress without trying to maximize it.",
			"Allow momentum to build organically without pushing.",
			"Celebrate the movement while respecting its natural rhythm.",
		},
		ModeRealTime: {
			"Respond warmly but briefly. Let them set next step and timing.",
			"Acknowledge positively but don't escalate emotionally.",
			"Match the tone and length exactly. Don't exceed it.",
			"Respond with similar energy but leave space for their next move.",
			"Keep the channel open without directing its flow.",
		},
		ModeSimulate: {
			"Gentle acknowledgment that supports momentum without pushing it.",
			"Your response should match what you received, not exceed it.",
			"Plan for equipoise - equal energy, matching not exceeding.",
			"Ensure your planned gesture doesn't rush emerging connection.",
			"Create response that acknowledges progress without expectation.",
		},
	},
	SymbolBreakthrough: {
		ModeReflect: {
			"Honor what happened. Don't try to recreate or explain it.",
			"Let the breakthrough moment exist on its own terms.",
			"Recognize the significance without needing to expand on it.",
			"The moment's power comes from its singularity. Preserve that.",
			"Protect the moment by not overprocessing it.",
		},
		ModeRealTime: {
			"Acknowledge simply. No amplification or analysis needed.",
			"A simple 'thank you' or 'I value that' is sufficient.",
			"Let the weight of the moment speak for itself.",
			"Resist adding interpretation to what naturally occurred.",
			"Minimal response honors the breakthrough more than elaboration.",
		},
		ModeSimulate: {
			"Your planned action risks overshadowing the moment. Simplify.",
			"Reduce your planned response to its essential core.",
			"The breakthrough needs protection, not enhancement.",
			"Create a simple acknowledgment that honors without interpreting.",
			"Plan a response that serves as witness, not commentator.",
		},
	},
}

var reminders = map[string][]string{
	SymbolDodo: {
		"Recursion deepens with each attempt to fix. Trust silence.",
		"Your desire to explain is part of the pattern, not its solution.",
		"The loop feeds on your attention and emotional investment.",
		"Breaking patterns requires doing what feels counterintuitive.",
		"Silence feels like surrender but can break the recursive trap.",
	},
	SymbolDisruption: {
		"Disruptions don't land when over-explained. One gesture is enough.",
		"Space after disruption allows new patterns to emerge.",
		"Intervention should be minimal - a touch, not a push.",
		"What feels incomplete to you may already be too much for them.",
		"The clarity of a single gesture outweighs multiple attempts.",
	},
	SymbolMomentum: {
		"Momentum is fragile. Let it find its own pace and direction.",
		"Growth happens at the edge of comfort, not through forcing.",
		"Progress thrives when given space to develop naturally.",
		"Connection deepens through rhythm, not constant acceleration.",
		"Trust the momentum that exists rather than pushing for more.",
	},
	SymbolBreakthrough: {
		"Singular moments exist in their own time. Preserve, don't explain.",
		"Breakthroughs are self-contained. Their power is in their existence.",
		"Trust the impact of what happened without needing to amplify it.",
		"Deep moments speak for themselves without our interpretation.",
		"The silence after significance is part of its ripple effect.",
	},
}

var journalTemplates = map[string]string{
	SymbolDodo:         "I noticed I was caught in a recursive loop trying to {situation}. The pattern was DODO. Instead of continuing, I {action_taken}. This {outcome}.",
	SymbolDisruption:   "When {situation} created a disruption (>•^•), I responded by {action_taken}. This {outcome}.",
	SymbolMomentum:     "I observed positive momentum (^••>) when {situation}. I maintained this by {action_taken}, which {outcome}.",
	SymbolBreakthrough: "A breakthrough moment (•) occurred when {situation}. I honored this by {action_taken}, which {outcome}.",
}

// JournalTemplate returns the journaling scaffold for a symbol, or an
// empty string for unknown symbols.
func JournalTemplate(symbol string) string {
	return journalTemplates[symbol]
}
