package domain

type User struct {
	Username  string `db:"username"`
	Password  string `db:"password"` // bcrypt hashed
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
	IsAdmin   bool   `db:"is_admin"`

	// IDs of jobs the user has an application for
	Jobs []int64 `db:"-"`
}

func NewUser(username, hashedPassword, firstName, lastName, email string, isAdmin bool) *User {
	return &User{
		Username:  username,
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsAdmin:   isAdmin,
	}
}
