package service

import (
	"context"
	stderrors "errors"
	"strings"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/validation"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/pkg/jwt"
	"StorefrontPlatform/services/storefront/internal/pkg/password"
	"StorefrontPlatform/services/storefront/internal/repository"
)

// RegisterRequest данные регистрации
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// LoginResult результат входа
type LoginResult struct {
	Token          string
	Role           domain.Role
	ExpirationTime string
}

// UserInfo пользователь вместе с историей его позиций заказов
type UserInfo struct {
	User  *domain.User
	Items []domain.OrderItem
}

// UserService интерфейс регистрации, входа и профиля пользователя
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	MyInfo(ctx context.Context, principal *domain.Principal) (*UserInfo, error)
	AllUsers(ctx context.Context) ([]domain.User, error)
}

// AccountService реализация UserService
type AccountService struct {
	users     repository.UserRepository
	orders    repository.OrderRepository
	tokens    jwt.TokenManager
	hasher    password.Hasher
	validator *validation.Validator
	logger    logger.Logger
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(
	users repository.UserRepository,
	orders repository.OrderRepository,
	tokens jwt.TokenManager,
	hasher password.Hasher,
	log logger.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		orders:    orders,
		tokens:    tokens,
		hasher:    hasher,
		validator: validation.NewValidator(),
		logger:    log,
	}
}

// Register создает пользователя. Роль "admin" в любом регистре дает ADMIN, иначе USER.
// Повторный email возвращает CONFLICT.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.ValidateRequiredFields(map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	}); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateStringLength(req.Password, "password", 6, password.MaxLength); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePhone(req.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if stderrors.Is(err, password.ErrTooLong) {
			return nil, errors.InvalidArgument("password is too long")
		}
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to hash password")
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		Role:         domain.ParseRole(req.Role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		logger.CtxField(ctx),
		logger.Int64("user_id", user.ID),
		logger.String("role", string(user.Role)))

	return user, nil
}

// Login проверяет пароль и выпускает bearer токен
func (s *AccountService) Login(ctx context.Context, email, pass string) (*LoginResult, error) {
	if err := s.validator.ValidateRequiredFields(map[string]string{
		"email":    email,
		"password": pass,
	}); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.HasCode(err, errors.ErrNotFound) {
			return nil, errors.NotFound("The email was not found.")
		}
		return nil, err
	}

	if !s.hasher.Check(pass, user.PasswordHash) {
		s.logger.Debug("Login rejected",
			logger.CtxField(ctx),
			logger.Int64("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "The password is incorrect.")
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to issue token")
	}

	return &LoginResult{
		Token:          token,
		Role:           user.Role,
		ExpirationTime: jwt.HumanLifetime(s.tokens.Lifetime()),
	}, nil
}

// MyInfo возвращает текущего пользователя и историю его позиций заказов
func (s *AccountService) MyInfo(ctx context.Context, principal *domain.Principal) (*UserInfo, error) {
	if principal == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}

	user, err := s.users.FindByID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.ItemsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserInfo{User: user, Items: items}, nil
}

// AllUsers возвращает всех зарегистрированных пользователей
func (s *AccountService) AllUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
