package services

import (
	"errors"
	"log"

	"github.com/LumosAcademy/payment_service/internal/helper"
	"github.com/LumosAcademy/payment_service/internal/repository"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(email, password string) (string, error)
}

type authService struct {
	users repository.UserRepository
	auth  helper.Auth
}

func NewAuthService(users repository.UserRepository, auth helper.Auth) AuthService {
	return &authService{users: users, auth: auth}
}

func (s *authService) Login(email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("invalid email or password")
		}
		log.Printf("login lookup error: %v", err)
		return "", errors.New("failed to sign in")
	}

	if user.Status != "active" {
		return "", errors.New("account is not active")
	}

	if err := s.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return "", errors.New("invalid email or password")
	}

	return s.auth.GenerateToken(int(user.ID), user.Email, user.Role)
}
