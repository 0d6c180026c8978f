package dto

// TokenRequest represents the login request
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the self-registration request
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=1,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,min=6,max=60"`
	IsAdmin   bool   `json:"isAdmin"` // only honoured for admin callers
}

// TokenResponse carries a signed bearer token
type TokenResponse struct {
	Token string `json:"token"`
}
