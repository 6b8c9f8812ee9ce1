package request

import "biblio-api/internal/usecase/commands"

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"omitempty,oneof=student librarian"`
	Grade     string `json:"grade"`
	AvatarURL string `json:"avatar_url"`
}

func (r *RegisterRequest) ToInput() commands.RegisterInput {
	return commands.RegisterInput{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Role:      r.Role,
		Grade:     r.Grade,
		AvatarURL: r.AvatarURL,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1"`
	Grade     *string `json:"grade"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}
