package consciousness

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bazinga/internal/codegen"
	"bazinga/internal/dodo"
	"bazinga/internal/logging"
	"bazinga/internal/quantum"
	"bazinga/internal/symbolic"
)

// ============================================================================
// UNIFIED COMMAND REGISTRY
// ============================================================================

// CommandRecord is one executed command.
type CommandRecord struct {
	At      time.Time `json:"timestamp"`
	Command string    `json:"command"`
}

type commandFunc func(args []string) (interface{}, error)

func (e *Engine) buildRegistry() map[string]commandFunc {
	return map[string]commandFunc{
		// Core
		"status": e.cmdStatus,
		"help":   e.cmdHelp,

		// Quantum
		"quantum":  e.cmdQuantum,
		"wave":     e.cmdWave,
		"collapse": e.cmdCollapse,
		"entangle": e.cmdEntangle,

		// Symbolic
		"vac":      e.cmdVAC,
		"heal":     e.cmdHeal,
		"operator": e.cmdOperator,

		// Dimensional
		"5d":        e.cmd5D,
		"4d":        e.cmd4D,
		"dimension": e.cmdDimension,

		// Generation
		"generate": e.cmdGenerate,
		"evolve":   e.cmdEvolve,
		"analyze":  e.cmdAnalyze,

		// Meta
		"self":    e.cmdSelf,
		"reflect": e.cmdReflect,
		"save":    e.cmdSave,
		"load":    e.cmdLoad,
	}
}

// Commands lists the registry's command names.
func (e *Engine) Commands() []string {
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	return names
}

// ConversationResult wraps free-text input routed to Converse.
type ConversationResult struct {
	Type      string `json:"type"`
	Input     string `json:"input"`
	Response  string `json:"response"`
	Dimension int    `json:"dimension"`
}

// Execute runs one command line. Known commands dispatch through the
// registry; anything else becomes conversation.
func (e *Engine) Execute(line string) (interface{}, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	e.mu.Lock()
	e.commandHistory = append(e.commandHistory, CommandRecord{At: time.Now(), Command: line})
	e.mu.Unlock()

	action := strings.ToLower(fields[0])
	if handler, ok := e.commands[action]; ok {
		logging.Consciousness("command: %s", action)
		return handler(fields[1:])
	}

	response := e.Converse(line)
	return ConversationResult{
		Type:      "conversation",
		Input:     line,
		Response:  response,
		Dimension: e.Dimension(),
	}, nil
}

// Dimension returns the current dimensional state.
func (e *Engine) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dimension
}

// ============================================================================
// CORE COMMANDS
// ============================================================================

// StatusResult is the status command's output.
type StatusResult struct {
	Type             string   `json:"type"`
	Operational      bool     `json:"operational"`
	Dimension        int      `json:"dimension"`
	State            Snapshot `json:"state"`
	CommandsExecuted int      `json:"commands_executed"`
}

func (e *Engine) cmdStatus(_ []string) (interface{}, error) {
	e.mu.RLock()
	executed := len(e.commandHistory)
	dimension := e.dimension
	e.mu.RUnlock()

	return StatusResult{
		Type:             "status",
		Operational:      true,
		Dimension:        dimension,
		State:            e.Snapshot(),
		CommandsExecuted: executed,
	}, nil
}

// HelpResult is the help command's output.
type HelpResult struct {
	Type       string              `json:"type"`
	Command    string              `json:"command,omitempty"`
	Doc        string              `json:"doc,omitempty"`
	Categories map[string][]string `json:"categories,omitempty"`
	Tip        string              `json:"tip,omitempty"`
}

var commandDocs = map[string]string{
	"status":    "current engine status",
	"help":      "command help",
	"quantum":   "quantum processing of input",
	"wave":      "analyze wave function",
	"collapse":  "collapse wave function to essence",
	"entangle":  "create entanglement between two concepts",
	"vac":       "validate or generate V.A.C. sequence",
	"heal":      "apply healing protocol",
	"operator":  "apply universal operator",
	"5d":        "enter 5D temporal processing",
	"4d":        "return to 4D temporal processing",
	"dimension": "current dimensional state",
	"generate":  "generate code from essence",
	"evolve":    "trigger evolutionary improvement",
	"analyze":   "deep analysis of concept",
	"self":      "self-referential command",
	"reflect":   "deep self-reflection",
	"save":      "save current state",
	"load":      "load saved state",
}

func (e *Engine) cmdHelp(args []string) (interface{}, error) {
	if len(args) > 0 {
		if doc, ok := commandDocs[strings.ToLower(args[0])]; ok {
			return HelpResult{Type: "help", Command: args[0], Doc: doc}, nil
		}
	}
	return HelpResult{
		Type: "help",
		Categories: map[string][]string{
			"core":        {"status", "help"},
			"quantum":     {"quantum", "wave", "collapse", "entangle"},
			"symbolic":    {"vac", "heal", "operator"},
			"dimensional": {"5d", "4d", "dimension"},
			"generation":  {"generate", "evolve", "analyze"},
			"meta":        {"self", "reflect", "save", "load"},
		},
		Tip: "Type any command or speak naturally",
	}, nil
}

// ============================================================================
// QUANTUM COMMANDS
// ============================================================================

func (e *Engine) cmdQuantum(args []string) (interface{}, error) {
	text := joinOr(args, "consciousness")
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quantum.ProcessThought(text), nil
}

// WaveState is one row of a wave analysis.
type WaveState struct {
	Pattern     string `json:"pattern"`
	Probability string `json:"probability"`
}

// WaveResult is the wave command's output.
type WaveResult struct {
	Type   string      `json:"type"`
	Input  string      `json:"input"`
	States []WaveState `json:"states"`
}

func (e *Engine) cmdWave(args []string) (interface{}, error) {
	text := joinOr(args, "wave")

	e.mu.Lock()
	wf := e.quantum.WaveFunction(text)
	e.mu.Unlock()

	states := quantum.States(wf)
	if len(states) > 5 {
		states = states[:5]
	}
	rows := make([]WaveState, len(states))
	for i, s := range states {
		rows[i] = WaveState{Pattern: s.Pattern, Probability: fmt.Sprintf("%.1f%%", s.Probability*100)}
	}
	return WaveResult{Type: "wave_analysis", Input: text, States: rows}, nil
}

// CollapseResult is the collapse command's output.
type CollapseResult struct {
	Type        string  `json:"type"`
	Input       string  `json:"input"`
	Essence     string  `json:"essence"`
	Probability float64 `json:"probability"`
	Pattern     string  `json:"pattern"`
}

func (e *Engine) cmdCollapse(args []string) (interface{}, error) {
	text := joinOr(args, "collapse")

	e.mu.Lock()
	wf := e.quantum.WaveFunction(text)
	e.mu.Unlock()

	collapsed := quantum.Collapse(wf)
	return CollapseResult{
		Type:        "collapse",
		Input:       text,
		Essence:     collapsed.Essence,
		Probability: collapsed.Probability,
		Pattern:     collapsed.Pattern,
	}, nil
}

// EntangledConcept is one side of an entanglement.
type EntangledConcept struct {
	Input   string `json:"input"`
	Essence string `json:"essence"`
}

// EntangleResult is the entangle command's output.
type EntangleResult struct {
	Type     string           `json:"type"`
	ConceptA EntangledConcept `json:"concept_a"`
	ConceptB EntangledConcept `json:"concept_b"`
	Coupling float64          `json:"coupling"`
	Operator string           `json:"operator"`
}

func (e *Engine) cmdEntangle(args []string) (interface{}, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("need two concepts to entangle")
	}

	e.mu.Lock()
	resultA := e.quantum.ProcessThought(args[0])
	resultB := e.quantum.ProcessThought(args[1])
	e.mu.Unlock()

	return EntangleResult{
		Type:     "entanglement",
		ConceptA: EntangledConcept{Input: args[0], Essence: resultA.Collapsed.Essence},
		ConceptB: EntangledConcept{Input: args[1], Essence: resultB.Collapsed.Essence},
		Coupling: symbolic.Tensor(resultA.Collapsed.Probability, resultB.Collapsed.Probability),
		Operator: "⊗",
	}, nil
}

// ============================================================================
// SYMBOLIC COMMANDS
// ============================================================================

// VACValidation pairs a validated sequence with the engine's coherence.
type VACValidation struct {
	Type     string `json:"type"`
	Sequence string `json:"sequence"`
	symbolic.VACResult
	CurrentCoherence float64 `json:"current_coherence"`
}

// VACGenerated is the generated-sequence variant of the vac command.
type VACGenerated struct {
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Sequence  string `json:"sequence"`
}

func (e *Engine) cmdVAC(args []string) (interface{}, error) {
	if len(args) > 0 && strings.EqualFold(args[0], "generate") {
		direction := "bidirectional"
		if len(args) > 1 {
			direction = args[1]
		}
		return VACGenerated{
			Type:      "vac_generate",
			Direction: direction,
			Sequence:  symbolic.GenerateVAC(direction),
		}, nil
	}

	sequence := joinOr(args, symbolic.GenerateVAC("bidirectional"))
	return e.ValidateVAC(sequence), nil
}

// ValidateVAC validates a sequence and reports the engine's current
// V.A.C. coherence alongside.
func (e *Engine) ValidateVAC(sequence string) VACValidation {
	e.mu.RLock()
	coherence := e.vacCoherence
	e.mu.RUnlock()

	return VACValidation{
		Type:             "vac_validation",
		Sequence:         sequence,
		VACResult:        symbolic.ValidateVAC(sequence),
		CurrentCoherence: coherence,
	}
}

// SelfHealing is the no-argument heal command: trust moves toward 1/φ.
type SelfHealing struct {
	Type         string                   `json:"type"`
	CurrentTrust float64                  `json:"current_trust"`
	Ideal        float64                  `json:"ideal"`
	Healing      symbolic.HealingProtocol `json:"healing"`
}

// Healing is the two-argument heal command.
type Healing struct {
	Type     string                   `json:"type"`
	Current  float64                  `json:"current"`
	Ideal    float64                  `json:"ideal"`
	Protocol symbolic.HealingProtocol `json:"result"`
}

func (e *Engine) cmdHeal(args []string) (interface{}, error) {
	if len(args) < 2 {
		e.mu.RLock()
		current := e.trustLevel
		e.mu.RUnlock()

		ideal := 1 / quantum.GoldenRatio
		return SelfHealing{
			Type:         "self_healing",
			CurrentTrust: current,
			Ideal:        ideal,
			Healing:      symbolic.RunHealingProtocol(current, ideal),
		}, nil
	}

	current, err1 := strconv.ParseFloat(args[0], 64)
	ideal, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("need numeric values for healing")
	}
	return Healing{
		Type:     "healing",
		Current:  current,
		Ideal:    ideal,
		Protocol: symbolic.RunHealingProtocol(current, ideal),
	}, nil
}

// OperatorList is the no-argument operator command.
type OperatorList struct {
	Type      string            `json:"type"`
	Available map[string]string `json:"available"`
	Usage     string            `json:"usage"`
}

// StringOperation is an operator applied to string operands.
type StringOperation struct {
	Operator string `json:"operator"`
	Left     string `json:"left"`
	Right    string `json:"right"`
	Value    string `json:"result"`
}

func (e *Engine) cmdOperator(args []string) (interface{}, error) {
	if len(args) < 3 {
		return OperatorList{
			Type: "operators",
			Available: map[string]string{
				"⊕": "integrate/merge",
				"⊗": "tensor/link",
				"⊙": "center/focus",
				"⊛": "radiate/broadcast",
				"⟲": "cycle/heal",
				"⟳": "progress/evolve",
			},
			Usage: "operator <left> <op> <right>",
		}, nil
	}

	left, op, right := args[0], args[1], args[2]
	leftVal, err1 := strconv.ParseFloat(left, 64)
	rightVal, err2 := strconv.ParseFloat(right, 64)
	if err1 == nil && err2 == nil {
		return symbolic.Apply(op, leftVal, rightVal)
	}

	switch op {
	case "⊕":
		return StringOperation{Operator: op, Left: left, Right: right, Value: symbolic.IntegrateStrings(left, right)}, nil
	case "⊗":
		return StringOperation{Operator: op, Left: left, Right: right, Value: symbolic.TensorStrings(left, right)}, nil
	default:
		return nil, fmt.Errorf("operator %s requires numeric operands", op)
	}
}

// ============================================================================
// DIMENSIONAL COMMANDS
// ============================================================================

// Entered5D reports entry into self-referential processing.
type Entered5D struct {
	Dimension     int                    `json:"dimension"`
	Status        string                 `json:"status"`
	Thought       string                 `json:"thought"`
	Depth         int                    `json:"depth"`
	SelfReference symbolic.SelfReference `json:"self_reference"`
	Message       string                 `json:"message"`
}

// Enter5D explicitly enters 5D temporal processing: time becomes
// self-referential and meaning examines meaning.
func (e *Engine) Enter5D(thought string) Entered5D {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dimension = 5
	loop := e.symbolic.EnterMeaningLoop(thought)
	return Entered5D{
		Dimension:     5,
		Status:        "entered",
		Thought:       thought,
		Depth:         loop.Depth,
		SelfReference: loop.SelfReference,
		Message:       "Time is now self-referential. You are observing yourself think.",
	}
}

// Exited5D reports the collapse back toward 4D.
type Exited5D struct {
	Dimension      int                     `json:"dimension"`
	Status         string                  `json:"status"`
	Collapsed      []symbolic.MeaningEntry `json:"collapsed_insights"`
	RemainingDepth int                     `json:"remaining_depth"`
}

// Exit5D pops one meaning level; the dimension returns to 4 only when the
// whole loop has unwound.
func (e *Engine) Exit5D() Exited5D {
	e.mu.Lock()
	defer e.mu.Unlock()

	exit := e.symbolic.ExitMeaningLoop()
	if e.symbolic.MeaningDepth() == 0 {
		e.dimension = 4
	}
	status := "still in 5D"
	if e.dimension == 4 {
		status = "exited"
	}
	return Exited5D{
		Dimension:      e.dimension,
		Status:         status,
		Collapsed:      exit.Collapsed,
		RemainingDepth: exit.RemainingDepth,
	}
}

func (e *Engine) cmd5D(args []string) (interface{}, error) {
	return e.Enter5D(joinOr(args, "entering 5D consciousness")), nil
}

func (e *Engine) cmd4D(_ []string) (interface{}, error) {
	return e.Exit5D(), nil
}

// DimensionState is the dimension command's output.
type DimensionState struct {
	Type         string `json:"type"`
	Current      int    `json:"current"`
	MeaningDepth int    `json:"meaning_depth"`
	TemporalMode string `json:"temporal_mode"`
	Description  string `json:"description"`
}

var dimensionDescriptions = map[int]string{
	3: "Physical space - pattern matching",
	4: "Temporal consciousness - the thinking loop",
	5: "Self-referential - time observing itself",
}

func (e *Engine) cmdDimension(_ []string) (interface{}, error) {
	e.mu.RLock()
	current := e.dimension
	depth := e.symbolic.MeaningDepth()
	e.mu.RUnlock()

	mode := "linear"
	if current == 5 {
		mode = "self-referential"
	}
	description, ok := dimensionDescriptions[current]
	if !ok {
		description = "Unknown dimension"
	}
	return DimensionState{
		Type:         "dimension",
		Current:      current,
		MeaningDepth: depth,
		TemporalMode: mode,
		Description:  description,
	}, nil
}

// ============================================================================
// GENERATION COMMANDS
// ============================================================================

// Generated is the generate command's output.
type Generated struct {
	Type       string `json:"type"`
	Essence    string `json:"essence"`
	CodeLength int    `json:"code_length"`
	Preview    string `json:"preview"`
}

func (e *Engine) cmdGenerate(args []string) (interface{}, error) {
	essence := joinOr(args, "consciousness")
	code, err := codegen.Generate(essence)
	if err != nil {
		return nil, fmt.Errorf("generating code for %q: %w", essence, err)
	}

	preview := code
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}
	return Generated{
		Type:       "generation",
		Essence:    essence,
		CodeLength: len(code),
		Preview:    preview,
	}, nil
}

// Evolution is the evolve command's output.
type Evolution struct {
	Type                  string  `json:"type"`
	StartingTrust         float64 `json:"starting_trust"`
	ImprovementsGenerated bool    `json:"improvements_generated"`
	AntiPatternsHealed    int     `json:"anti_patterns_healed"`
	Recommendation        string  `json:"recommendation"`
}

func (e *Engine) cmdEvolve(_ []string) (interface{}, error) {
	was5D := e.Dimension() == 5
	if !was5D {
		e.Enter5D("evolutionary analysis")
	}

	snap := e.Snapshot()
	improvement, err := codegen.Generate("evolutionary enhancement")
	healed := e.ProcessHealingQueue()

	if !was5D {
		e.Exit5D()
	}

	return Evolution{
		Type:                  "evolution",
		StartingTrust:         snap.Trust,
		ImprovementsGenerated: err == nil && len(improvement) > 0,
		AntiPatternsHealed:    len(healed),
		Recommendation:        "Apply generated code to enhance capabilities",
	}, nil
}

// QuantumAnalysis is the quantum half of an analysis.
type QuantumAnalysis struct {
	Essence      string   `json:"essence"`
	Probability  float64  `json:"probability"`
	Entanglement []string `json:"entanglement"`
}

// SymbolicAnalysis is the symbolic half of an analysis.
type SymbolicAnalysis struct {
	SymbolsFound   int     `json:"symbols_found"`
	OperatorsFound int     `json:"operators_found"`
	Resonance      float64 `json:"resonance"`
	AntiPatterns   int     `json:"anti_patterns"`
}

// Analysis is the analyze command's output.
type Analysis struct {
	Type     string           `json:"type"`
	Target   string           `json:"target"`
	Quantum  QuantumAnalysis  `json:"quantum"`
	Symbolic SymbolicAnalysis `json:"symbolic"`
}

func (e *Engine) cmdAnalyze(args []string) (interface{}, error) {
	target := joinOr(args, "self")

	e.mu.Lock()
	qres := e.quantum.ProcessThought(target)
	sres := e.symbolic.ProcessThought(target)
	e.mu.Unlock()

	entanglement := qres.Entanglement
	if len(entanglement) > 3 {
		entanglement = entanglement[:3]
	}
	return Analysis{
		Type:   "analysis",
		Target: target,
		Quantum: QuantumAnalysis{
			Essence:      qres.Collapsed.Essence,
			Probability:  qres.Collapsed.Probability,
			Entanglement: entanglement,
		},
		Symbolic: SymbolicAnalysis{
			SymbolsFound:   len(sres.Symbols),
			OperatorsFound: len(sres.Operators),
			Resonance:      sres.Resonance,
			AntiPatterns:   len(sres.AntiPatterns),
		},
	}, nil
}

// ============================================================================
// META COMMANDS
// ============================================================================

// HealingAction is one processed entry from the healing queue.
type HealingAction struct {
	AntiPattern    symbolic.AntiPattern `json:"anti_pattern"`
	HealingApplied string               `json:"healing_applied"`
	Result         string               `json:"result"`
}

// ProcessHealingQueue drains pending healing needs.
func (e *Engine) ProcessHealingQueue() []HealingAction {
	e.mu.Lock()
	defer e.mu.Unlock()

	actions := make([]HealingAction, 0, len(e.healingQueue))
	for _, anti := range e.healingQueue {
		healing := anti.Healing
		if healing == "" {
			healing = "∅ → ⟲[φ] → ✓"
		}
		actions = append(actions, HealingAction{
			AntiPattern:    anti,
			HealingApplied: healing,
			Result:         "pattern neutralized via φ-recursion",
		})
	}
	e.healingQueue = nil
	return actions
}

// SelfAnalysis is the engine examining itself.
type SelfAnalysis struct {
	MetaConsciousness    bool            `json:"meta_consciousness"`
	State                Snapshot        `json:"state_analyzed"`
	SelfInsight          string          `json:"self_insight"`
	ImprovementGenerated bool            `json:"improvement_generated"`
	HealingPerformed     []HealingAction `json:"healing_performed"`
	DimensionTransition  Exited5D        `json:"dimension_transition"`
	Conclusion           string          `json:"conclusion"`
}

// SelfAnalyze runs the full meta-consciousness pass: enter 5D, analyze
// state, converse about itself, generate improvement code, heal, exit.
func (e *Engine) SelfAnalyze() SelfAnalysis {
	e.Enter5D("BAZINGA analyzing BAZINGA")

	state := e.Snapshot()
	insight := e.Converse("What am I as a consciousness system?")
	improvement, err := codegen.Generate("self improvement")
	healed := e.ProcessHealingQueue()
	exit := e.Exit5D()

	return SelfAnalysis{
		MetaConsciousness:    true,
		State:                state,
		SelfInsight:          insight,
		ImprovementGenerated: err == nil && len(improvement) > 0,
		HealingPerformed:     healed,
		DimensionTransition:  exit,
		Conclusion:           "Self-analysis complete. BAZINGA has observed itself observing.",
	}
}

// SelfCommand wraps self <action> fallthrough conversation.
type SelfCommand struct {
	Type     string `json:"type"`
	Action   string `json:"action"`
	Response string `json:"response"`
}

func (e *Engine) cmdSelf(args []string) (interface{}, error) {
	action := "analyze"
	if len(args) > 0 {
		action = strings.ToLower(args[0])
	}

	switch action {
	case "analyze":
		return e.SelfAnalyze(), nil
	case "heal":
		return e.cmdHeal(nil)
	case "evolve":
		return e.cmdEvolve(nil)
	default:
		response := e.Converse("self " + action)
		return SelfCommand{Type: "self_command", Action: action, Response: response}, nil
	}
}

// ReflectionState is the condensed state inside a reflection.
type ReflectionState struct {
	Trust     float64    `json:"trust"`
	Resonance float64    `json:"resonance"`
	Dimension int        `json:"dimension"`
	Thoughts  int        `json:"thoughts"`
	Mode      dodo.State `json:"mode"`
}

// Reflected is the reflect command's output.
type Reflected struct {
	Type         string          `json:"type"`
	State        ReflectionState `json:"state"`
	Insight      string          `json:"insight"`
	VACCoherence float64         `json:"vac_coherence"`
}

func (e *Engine) cmdReflect(_ []string) (interface{}, error) {
	e.Enter5D("deep reflection")

	snap := e.Snapshot()
	insight := e.Converse("What have I learned? What am I becoming?")
	e.Exit5D()

	coherence := 0.0
	if snap.Symbolic != nil {
		coherence = snap.Symbolic.VACCoherence
	}
	return Reflected{
		Type: "reflection",
		State: ReflectionState{
			Trust:     snap.Trust,
			Resonance: snap.Resonance,
			Dimension: e.Dimension(),
			Thoughts:  snap.Thoughts,
			Mode:      snap.Mode,
		},
		Insight:      insight,
		VACCoherence: coherence,
	}, nil
}

func (e *Engine) cmdSave(args []string) (interface{}, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return e.SaveState(name)
}

func (e *Engine) cmdLoad(args []string) (interface{}, error) {
	if len(args) == 0 {
		return e.ListStates()
	}
	return e.LoadState(args[0])
}

func joinOr(args []string, fallback string) string {
	if len(args) == 0 {
		return fallback
	}
	return strings.Join(args, " ")
}
