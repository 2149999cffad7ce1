package types

// Place is a rentable lodging owned by a User and located in a City.
type Place struct {
	BaseModel
	CityID          *string   `json:"city_id,omitempty"`
	UserID          *string   `json:"user_id,omitempty"`
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	NumberRooms     *int      `json:"number_rooms,omitempty"`
	NumberBathrooms *int      `json:"number_bathrooms,omitempty"`
	MaxGuest        *int      `json:"max_guest,omitempty"`
	PriceByNight    *int      `json:"price_by_night,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	AmenityIDs      *[]string `json:"amenity_ids,omitempty"`
}

var placeFields = []string{
	"city_id",
	"user_id",
	"name",
	"description",
	"number_rooms",
	"number_bathrooms",
	"max_guest",
	"price_by_night",
	"latitude",
	"longitude",
	"amenity_ids",
}

// NewPlace returns a Place with a fresh id and timestamps.
func NewPlace() *Place {
	p := blankPlace()
	p.initNew()
	return p
}

func blankPlace() *Place {
	p := &Place{}
	p.bind(ClassPlace, placeFields, p)
	return p
}
