package auth

// TokenResponse is returned by registration and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// LoginRequest is the body accepted by login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"email":    "Please enter a valid email",
	"password": "Password is required",
}
