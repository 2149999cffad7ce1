package types

import (
	"fmt"
	"slices"
)

// Class names, which double as record discriminators.
const (
	ClassBaseModel = "BaseModel"
	ClassUser      = "User"
	ClassState     = "State"
	ClassCity      = "City"
	ClassAmenity   = "Amenity"
	ClassPlace     = "Place"
	ClassReview    = "Review"
)

// classSpec builds an entity of one class without identity; callers either
// initialize it as new or load it from a record.
type classSpec struct {
	blank func() Entity
}

var classes = map[string]classSpec{
	ClassBaseModel: {blank: func() Entity { return blankBaseModel() }},
	ClassUser:      {blank: func() Entity { return blankUser() }},
	ClassState:     {blank: func() Entity { return blankState() }},
	ClassCity:      {blank: func() Entity { return blankCity() }},
	ClassAmenity:   {blank: func() Entity { return blankAmenity() }},
	ClassPlace:     {blank: func() Entity { return blankPlace() }},
	ClassReview:    {blank: func() Entity { return blankReview() }},
}

// classOrder lists class names for help output and error messages.
var classOrder = []string{
	ClassBaseModel,
	ClassUser,
	ClassState,
	ClassCity,
	ClassAmenity,
	ClassPlace,
	ClassReview,
}

// ClassNames returns the valid class names in a stable order.
func ClassNames() []string {
	return slices.Clone(classOrder)
}

// IsClass reports whether name is in the class table.
func IsClass(name string) bool {
	_, ok := classes[name]
	return ok
}

// New constructs an entity of the named class with a fresh id and
// timestamps. The entity is not registered anywhere.
func New(class string) (Entity, error) {
	spec, ok := classes[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	e := spec.blank()
	e.Base().initNew()
	return e, nil
}

// FromRecord rebuilds an entity from its record form, dispatching on the
// discriminator. The entity is not registered anywhere.
func FromRecord(rec Record) (Entity, error) {
	class := rec.Class()
	spec, ok := classes[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	e := spec.blank()
	if err := e.Base().load(rec); err != nil {
		return nil, err
	}
	return e, nil
}

// NewBaseModel returns a BaseModel with a fresh id and timestamps.
func NewBaseModel() *BaseModel {
	b := blankBaseModel()
	b.initNew()
	return b
}

func blankBaseModel() *BaseModel {
	b := &BaseModel{}
	b.bind(ClassBaseModel, nil, nil)
	return b
}
