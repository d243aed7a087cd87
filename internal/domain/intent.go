package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentHelp
	IntentStatus
	IntentShow       // show the step under the cursor
	IntentStart      // start the viewed step (or the step named in the payload)
	IntentComplete   // complete the viewed step
	IntentUndo       // revert a completed step to pending
	IntentNext       // move the cursor forward
	IntentPrev       // move the cursor back
	IntentGoTo       // move the cursor to a 1-based step number
	IntentFocus      // jump the cursor to the active step
	IntentFlour      // set flour weight
	IntentHydration  // set hydration
	IntentStarter    // set starter ratio
	IntentSalt       // set salt ratio
	IntentLoaves     // set loaf count
	IntentTemp       // set room temperature
	IntentDuration   // set the viewed step's duration
	IntentNote       // save a note on the viewed step
	IntentTip        // toggle a tip checkbox (1-based)
	IntentIngredient // toggle an ingredient checkbox (1-based)
	IntentCalc       // show ingredient weights
	IntentSchedule   // show the schedule preview
	IntentWeather    // fetch room temperature from the weather provider
	IntentAsk        // free-form question for the assistant
	IntentAdjust     // free-form recipe change handled by the assistant
	IntentRead       // read the viewed step aloud
	IntentFinish     // finalize the bake into the journal
	IntentJournal    // list the journal
	IntentReset
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	for name, t := range intentNames {
		if t == i {
			return name
		}
	}
	return "unknown"
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional argument, e.g. a number or free text
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"help":       IntentHelp,
	"status":     IntentStatus,
	"show":       IntentShow,
	"start":      IntentStart,
	"complete":   IntentComplete,
	"undo":       IntentUndo,
	"next":       IntentNext,
	"prev":       IntentPrev,
	"goto":       IntentGoTo,
	"focus":      IntentFocus,
	"flour":      IntentFlour,
	"hydration":  IntentHydration,
	"starter":    IntentStarter,
	"salt":       IntentSalt,
	"loaves":     IntentLoaves,
	"temp":       IntentTemp,
	"duration":   IntentDuration,
	"note":       IntentNote,
	"tip":        IntentTip,
	"ingredient": IntentIngredient,
	"calc":       IntentCalc,
	"schedule":   IntentSchedule,
	"weather":    IntentWeather,
	"ask":        IntentAsk,
	"adjust":     IntentAdjust,
	"read":       IntentRead,
	"finish":     IntentFinish,
	"journal":    IntentJournal,
	"reset":      IntentReset,
	"quit":       IntentQuit,
	"unknown":    IntentUnknown,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnknown
}
