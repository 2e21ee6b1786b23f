package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/task-team-service/internal/domain"
	"github.com/spec-kit/task-team-service/internal/service"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the token and the echoed profile.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	UserID    uuid.UUID       `json:"userId"`
	Email     string          `json:"email"`
	FullName  string          `json:"fullName"`
	Role      domain.UserRole `json:"role"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domain.UserRole `json:"role"`
}

// UpdateUserRequest payload.
type UpdateUserRequest struct {
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	FullName  string          `json:"fullName"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (r LoginRequest) Input() service.LoginInput {
	return service.LoginInput{Email: r.Email, Password: r.Password}
}

func (r CreateUserRequest) Input() service.CreateUserInput {
	return service.CreateUserInput{FullName: r.FullName, Email: r.Email, Password: r.Password, Role: r.Role}
}

func (r UpdateUserRequest) Input() service.UpdateUserInput {
	return service.UpdateUserInput{FullName: r.FullName, Email: r.Email, Role: r.Role}
}

func NewLoginResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		UserID:    res.User.ID,
		Email:     res.User.Email,
		FullName:  res.User.FullName,
		Role:      res.User.Role,
	}
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
