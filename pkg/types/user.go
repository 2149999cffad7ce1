package types

// User is an account holder.
type User struct {
	BaseModel
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

var userFields = []string{"email", "password", "first_name", "last_name"}

// NewUser returns a User with a fresh id and timestamps.
func NewUser() *User {
	u := blankUser()
	u.initNew()
	return u
}

func blankUser() *User {
	u := &User{}
	u.bind(ClassUser, userFields, u)
	return u
}
