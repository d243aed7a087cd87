package assistant

// ActionType identifies what kind of recipe change the model wants to make.
type ActionType string

const (
	ActionSetFlour     ActionType = "set_flour"
	ActionSetHydration ActionType = "set_hydration"
	ActionSetStarter   ActionType = "set_starter"
	ActionSetSalt      ActionType = "set_salt"
	ActionSetLoaves    ActionType = "set_loaves"
	ActionSetTemp      ActionType = "set_temp"
	ActionSetDuration  ActionType = "set_duration"
)

// Adjustment is the structured JSON the model returns for change requests.
type Adjustment struct {
	// Actions is the ordered list of changes to apply.
	Actions []Action `json:"actions"`
	// Summary is a short confirmation shown and spoken to the user.
	Summary string `json:"summary"`
}

// Action is a single recipe change. StepID is only used by set_duration.
type Action struct {
	Type   ActionType `json:"type"`
	Value  float64    `json:"value"`
	StepID string     `json:"step_id,omitempty"`
}
