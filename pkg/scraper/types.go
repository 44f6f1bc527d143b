package scraper

// StartResponse is the body returned by the scrape-start endpoint
type StartResponse struct {
	Message string `json:"message"`
}

// TriggerPhase is the display phase of the trigger widget
type TriggerPhase int

const (
	PhaseIdle TriggerPhase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

func (p TriggerPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// TriggerState holds what the trigger widget displays. The zero value is idle.
type TriggerState struct {
	Loading bool
	Message string
	Error   string
}

// Phase derives the display phase from the state fields
func (s TriggerState) Phase() TriggerPhase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseFailure
	case s.Message != "":
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// Begin clears the previous outcome and enters loading
func (s TriggerState) Begin() TriggerState {
	return TriggerState{Loading: true}
}

// Complete applies a request outcome and always leaves loading
func (s TriggerState) Complete(resp *StartResponse, err error) TriggerState {
	s.Loading = false
	if err != nil {
		s.Message = ""
		s.Error = err.Error()
		return s
	}
	s.Error = ""
	if resp != nil {
		s.Message = resp.Message
	}
	return s
}
