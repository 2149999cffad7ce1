package types

// State is a geographic state that groups cities.
type State struct {
	BaseModel
	Name *string `json:"name,omitempty"`
}

var stateFields = []string{"name"}

// NewState returns a State with a fresh id and timestamps.
func NewState() *State {
	s := blankState()
	s.initNew()
	return s
}

func blankState() *State {
	s := &State{}
	s.bind(ClassState, stateFields, s)
	return s
}
