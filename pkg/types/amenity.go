package types

// Amenity is a feature a Place can offer.
type Amenity struct {
	BaseModel
	Name *string `json:"name,omitempty"`
}

var amenityFields = []string{"name"}

// NewAmenity returns an Amenity with a fresh id and timestamps.
func NewAmenity() *Amenity {
	a := blankAmenity()
	a.initNew()
	return a
}

func blankAmenity() *Amenity {
	a := &Amenity{}
	a.bind(ClassAmenity, amenityFields, a)
	return a
}
