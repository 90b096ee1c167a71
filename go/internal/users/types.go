package users

// CredentialsRequest is the body of POST /api/register and POST /api/login
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthResponse is returned after a successful register or login
type AuthResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// MessageResponse carries a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
