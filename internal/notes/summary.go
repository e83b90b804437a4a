package notes

// DateLayout is the calendar date format used when printing note dates.
const DateLayout = "2006-01-02"

// Summary is the derived metadata of a note in printable form.
type Summary struct {
	Name     string   `json:"name"`
	State    string   `json:"state"`
	Date     string   `json:"date,omitempty"`
	Location string   `json:"location,omitempty"`
	Tags     []string `json:"tags"`
	Tables   int      `json:"tables"`
}

// Summarize derives every metadata attribute of n.
func Summarize(n *Note) (Summary, error) {
	s := Summary{Name: n.Name(), Tags: []string{}}

	state, err := n.State()
	if err != nil {
		return Summary{}, err
	}
	s.State = state.String()

	date, err := n.Date()
	if err != nil {
		return Summary{}, err
	}
	if date != nil {
		s.Date = date.Format(DateLayout)
	}

	if s.Location, err = n.Location(); err != nil {
		return Summary{}, err
	}

	tags, err := n.Tags()
	if err != nil {
		return Summary{}, err
	}
	for _, t := range tags {
		s.Tags = append(s.Tags, t.String())
	}

	tables, err := n.Tables()
	if err != nil {
		return Summary{}, err
	}
	s.Tables = len(tables)
	return s, nil
}
