package user

// User is a member of the users collection. Password holds the bcrypt
// hash and is never serialized into a response body.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Firstname string `json:"firstname" db:"firstname"`
	Lastname  string `json:"lastname" db:"lastname"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"-" db:"password"`
}
