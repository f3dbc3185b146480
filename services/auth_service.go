package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/galleried/galleria/config"
	"github.com/galleried/galleria/db"
	apiError "github.com/galleried/galleria/errors"
	"github.com/galleried/galleria/models"
	"github.com/galleried/galleria/services/jwt"
)

// AuthService covers signup, credential login, logout and profile lookups.
type AuthService interface {
	SignupUser(request *models.SignupRequest) (*models.UserResponse, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(ctx context.Context, accessToken string) *apiError.Error
	GetUserProfile(userID uint) (*models.UserResponse, *apiError.Error)
	GetUserByName(name string) (*models.UserResponse, *apiError.Error)
	SearchUsers(query string) ([]models.UserResponse, *apiError.Error)
}

type authService struct {
	Config     *config.Config
	authRepo   db.AuthRepository
	tokenStore db.TokenStore
}

func NewAuthService(authRepo db.AuthRepository, tokenStore db.TokenStore, conf *config.Config) AuthService {
	return &authService{
		Config:     conf,
		authRepo:   authRepo,
		tokenStore: tokenStore,
	}
}

func (s *authService) SignupUser(request *models.SignupRequest) (*models.UserResponse, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(request); err != nil {
		log.Printf("SignupUser conform error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(request.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}
	if err := s.authRepo.IsNameExist(request.Name); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	roleName := request.Role
	if roleName == "" {
		roleName = models.RoleViewer
	}
	role, err := s.authRepo.FindRoleByName(roleName)
	if err != nil {
		log.Printf("SignupUser error fetching role %q: %v", roleName, err)
		return nil, apiError.ErrInternalServerError
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	user := &models.User{
		Name:           request.Name,
		Email:          request.Email,
		HashedPassword: string(hashedPassword),
		RoleID:         role.ID,
	}

	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		RoleName: role.Name,
	}, nil
}

// LoginUser checks the credentials and mints an access token.
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrInvalidPassword
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	accessToken, err := jwt.GenerateToken(foundUser.Email, s.Config.JWTSecret, foundUser.Role.Name, foundUser.ID)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", foundUser.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:       foundUser.ID,
			Name:     foundUser.Name,
			Email:    foundUser.Email,
			RoleName: foundUser.Role.Name,
		},
		AccessToken: accessToken,
	}, nil
}

// LogoutUser denylists the presented token until its natural expiry.
func (s *authService) LogoutUser(ctx context.Context, accessToken string) *apiError.Error {
	claims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
	if err != nil {
		return apiError.ErrUnauthorized
	}

	ttl := time.Until(jwt.TokenExpiry(claims))
	if err := s.tokenStore.AddToBlacklist(ctx, accessToken, ttl); err != nil {
		log.Printf("LogoutUser error blacklisting token: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *authService) GetUserProfile(userID uint) (*models.UserResponse, *apiError.Error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("user not found", http.StatusNotFound)
		}
		log.Printf("GetUserProfile error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return userResponse(user), nil
}

func (s *authService) GetUserByName(name string) (*models.UserResponse, *apiError.Error) {
	user, err := s.authRepo.FindUserByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("user not found", http.StatusNotFound)
		}
		log.Printf("GetUserByName error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return userResponse(user), nil
}

func (s *authService) SearchUsers(query string) ([]models.UserResponse, *apiError.Error) {
	users, err := s.authRepo.SearchUsersByName(query)
	if err != nil {
		log.Printf("SearchUsers error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	results := make([]models.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, *userResponse(&users[i]))
	}
	return results, nil
}

func userResponse(user *models.User) *models.UserResponse {
	return &models.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		RoleName: user.Role.Name,
	}
}
