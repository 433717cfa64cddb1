package chat

// TurnState tracks how far a single turn got. FAILED can follow any state after START.
type TurnState int

const (
	StateStart TurnState = iota
	StateContextLoaded
	StateFactsExtracted
	StatePromptBuilt
	StateModelCalled
	StatePersisted
	StateDone
	StateFailed
)

func (s TurnState) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateContextLoaded:
		return "CONTEXT_LOADED"
	case StateFactsExtracted:
		return "FACTS_EXTRACTED"
	case StatePromptBuilt:
		return "PROMPT_BUILT"
	case StateModelCalled:
		return "MODEL_CALLED"
	case StatePersisted:
		return "PERSISTED"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}
