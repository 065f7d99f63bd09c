package dto

import "yamdb/internal/microservices/http-api/models"

// CreateUserRequest: payload for admin provisioning on POST /users/
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,max=150,username"`
	Email     string `json:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" binding:"omitempty,role"`
}

// UpdateUserRequest: partial update for PATCH /users/{username}/ and /users/me/
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty" binding:"omitempty,max=150,username"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty" binding:"omitempty,role"`
}

// ApplyProfile copies everything except the role, which only SetRole may change
func (d UpdateUserRequest) ApplyProfile(u *models.User) {
	if d.Username != nil {
		u.Username = *d.Username
	}
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.FirstName != nil {
		u.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		u.LastName = *d.LastName
	}
	if d.Bio != nil {
		u.Bio = *d.Bio
	}
}

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

func FromModelToUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}
