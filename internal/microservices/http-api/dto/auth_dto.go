package dto

// Data Transfer Objects for the confirmation-code flow

// SignupRequest: payload for POST /auth/email/
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,max=150,username"`
}

// SignupResponse echoes the account the code was sent for
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest: payload for POST /auth/token/
type TokenRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: bearer token issued after a successful exchange
type TokenResponse struct {
	Token string `json:"token"`
}
