package types

// City belongs to a State through StateID.
type City struct {
	BaseModel
	StateID *string `json:"state_id,omitempty"`
	Name    *string `json:"name,omitempty"`
}

var cityFields = []string{"state_id", "name"}

// NewCity returns a City with a fresh id and timestamps.
func NewCity() *City {
	c := blankCity()
	c.initNew()
	return c
}

func blankCity() *City {
	c := &City{}
	c.bind(ClassCity, cityFields, c)
	return c
}
