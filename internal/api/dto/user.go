package dto

// CreateUserRequest is the admin-only "add user" request. A missing password
// is replaced by a generated one.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"omitempty,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,min=6,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UpdateUserRequest is a partial update; only non-nil fields are written
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Password  *string `json:"password" binding:"omitempty,min=5,max=20"`
	Email     *string `json:"email" binding:"omitempty,email,min=6,max=60"`
}

type ApplyRequest struct {
	State string `json:"state"`
}

type UserResponse struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	IsAdmin   bool    `json:"isAdmin"`
	Jobs      []int64 `json:"jobs"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// UserCreateResponse includes the generated password (only shown once)
type UserCreateResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	TempPassword string       `json:"tempPassword,omitempty"`
}

type ApplyResponse struct {
	Applied int64  `json:"applied"`
	State   string `json:"state"`
}

type UserDeletedResponse struct {
	Deleted string `json:"deleted"`
}
