package types

// Review is a User's text about a Place.
type Review struct {
	BaseModel
	PlaceID *string `json:"place_id,omitempty"`
	UserID  *string `json:"user_id,omitempty"`
	Text    *string `json:"text,omitempty"`
}

var reviewFields = []string{"place_id", "user_id", "text"}

// NewReview returns a Review with a fresh id and timestamps.
func NewReview() *Review {
	r := blankReview()
	r.initNew()
	return r
}

func blankReview() *Review {
	r := &Review{}
	r.bind(ClassReview, reviewFields, r)
	return r
}
