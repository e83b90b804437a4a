package notes

// State is the publication state of a note.
type State int

const (
	StateStub State = iota + 1
	StateDraft
	StateReady
	StatePublic
)

var stateNames = map[State]string{
	StateStub:   "stub",
	StateDraft:  "draft",
	StateReady:  "ready",
	StatePublic: "public",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "stub"
}

// ParseState maps a front matter value to a State. Matching is
// case-sensitive; anything unrecognized is StateStub.
func ParseState(v string) State {
	for s, name := range stateNames {
		if name == v {
			return s
		}
	}
	return StateStub
}
