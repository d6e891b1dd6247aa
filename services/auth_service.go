package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/HamzaHashone/ecommerce-hijaab-collection/common/errors"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/repository"
	"github.com/HamzaHashone/ecommerce-hijaab-collection/sender"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost          = 10
	defaultAddressLabel = "Home"
	updateAddressLabel  = "home"
)

// AuthService covers the session lifecycle and the caller's own profile.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, *apperrors.Error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *apperrors.Error)
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, *apperrors.Error)
	AddAddress(ctx context.Context, userID primitive.ObjectID, req *models.AddressRequest) (*models.Address, *models.User, *apperrors.Error)
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, req *models.AddressRequest) (*models.User, *apperrors.Error)
	DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (*models.User, *apperrors.Error)
	ForgotPassword(ctx context.Context, email string) *apperrors.Error
	CreatePassword(ctx context.Context, token, password string) *apperrors.Error
}

type authServiceImpl struct {
	users    repository.UserRepo
	tokens   *TokenService
	mailer   sender.Mailer
	resetURL string
	logger   *zap.Logger
}

func NewAuthService(
	users repository.UserRepo,
	tokens *TokenService,
	mailer sender.Mailer,
	resetURL string,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		resetURL: strings.TrimSuffix(resetURL, "/"),
		logger:   logger,
	}
}

func internal(err error) *apperrors.Error {
	return apperrors.Internal("Internal server error", err)
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperrors.BadRequest("User not found")
	}
	if err != nil {
		s.logger.Error("Failed to load user for login", zap.Error(err))
		return nil, "", internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, "", apperrors.BadRequest("Invalid password")
	}

	if !user.IsActive() {
		if err := s.mailer.Send(ctx, user.Email, "Account inactivate", sender.TemplateInactivateAccount, nil); err != nil {
			s.logger.Error("Failed to send inactive account email", zap.String("user_id", user.ID.Hex()), zap.Error(err))
			return nil, "", internal(err)
		}
		return nil, "", apperrors.New(http.StatusPermanentRedirect, "Your account is temporary inactive", nil)
	}

	token, err := s.tokens.IssueSession(user)
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		return nil, "", internal(err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.Hex()))
	return user, token, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *apperrors.Error) {
	switch {
	case req.Email == "":
		return nil, apperrors.BadRequest("Email is required")
	case req.Password == "":
		return nil, apperrors.BadRequest("Password is required")
	case req.FirstName == "":
		return nil, apperrors.BadRequest("First name is required")
	case req.LastName == "":
		return nil, apperrors.BadRequest("Last name is required")
	case req.Phone == "":
		return nil, apperrors.BadRequest("Phone is required")
	case req.Address == nil:
		return nil, apperrors.BadRequest("address is required")
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.BadRequest("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, internal(err)
	}

	legacy := *req.Address
	user := &models.User{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleUser,
		Address:   &legacy,
		Addresses: []models.Address{{
			ID:        primitive.NewObjectID(),
			House:     legacy.House,
			Zip:       legacy.Zip,
			City:      legacy.City,
			IsDefault: true,
			Label:     defaultAddressLabel,
		}},
		Status: models.StatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("Email already exists")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, internal(err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

func (s *authServiceImpl) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error) {
	return s.reload(ctx, userID)
}

// reload fetches the user after a write so responses reflect it.
func (s *authServiceImpl) reload(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return user, nil
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, *apperrors.Error) {
	updates := bson.M{}
	if req.FirstName != "" {
		updates["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		updates["lastName"] = req.LastName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != nil {
		updates["address"] = req.Address
	}

	matched, err := s.users.Update(ctx, userID, updates)
	if err != nil {
		s.logger.Error("Failed to update profile", zap.String("user_id", userID.Hex()), zap.Error(err))
		return nil, internal(err)
	}
	if !matched {
		return nil, apperrors.NotFound("User not found")
	}
	return s.reload(ctx, userID)
}

func validateAddress(req *models.AddressRequest) *apperrors.Error {
	switch {
	case req.House == "":
		return apperrors.BadRequest("House/Street address is required")
	case req.City == "":
		return apperrors.BadRequest("City is required")
	case req.Zip == "":
		return apperrors.BadRequest("ZIP code is required")
	}
	return nil
}

func (s *authServiceImpl) AddAddress(ctx context.Context, userID primitive.ObjectID, req *models.AddressRequest) (*models.Address, *models.User, *apperrors.Error) {
	if appErr := validateAddress(req); appErr != nil {
		return nil, nil, appErr
	}

	user, appErr := s.reload(ctx, userID)
	if appErr != nil {
		return nil, nil, appErr
	}

	label := req.Label
	if label == "" {
		label = defaultAddressLabel
	}
	addr := models.Address{
		ID:        primitive.NewObjectID(),
		House:     req.House,
		City:      req.City,
		Zip:       req.Zip,
		Label:     label,
		IsDefault: req.IsDefault || len(user.Addresses) == 0,
	}

	// Two writes: a concurrent add can leave two defaults.
	if addr.IsDefault {
		if err := s.users.ClearDefaultAddresses(ctx, userID); err != nil {
			return nil, nil, internal(err)
		}
	}
	if err := s.users.PushAddress(ctx, userID, addr); err != nil {
		s.logger.Error("Failed to add address", zap.String("user_id", userID.Hex()), zap.Error(err))
		return nil, nil, internal(err)
	}

	user, appErr = s.reload(ctx, userID)
	if appErr != nil {
		return nil, nil, appErr
	}
	return &addr, user, nil
}

func (s *authServiceImpl) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addressID string, req *models.AddressRequest) (*models.User, *apperrors.Error) {
	if appErr := validateAddress(req); appErr != nil {
		return nil, appErr
	}
	addrID, ok := parseID(addressID)
	if !ok {
		return nil, apperrors.NotFound("Address not found")
	}

	label := req.Label
	if label == "" {
		label = updateAddressLabel
	}

	if req.IsDefault {
		if err := s.users.ClearDefaultAddresses(ctx, userID); err != nil {
			return nil, internal(err)
		}
	}

	found, err := s.users.SetAddress(ctx, userID, models.Address{
		ID:        addrID,
		House:     req.House,
		City:      req.City,
		Zip:       req.Zip,
		Label:     label,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		s.logger.Error("Failed to update address", zap.String("user_id", userID.Hex()), zap.Error(err))
		return nil, internal(err)
	}
	if !found {
		return nil, apperrors.NotFound("Address not found")
	}
	return s.reload(ctx, userID)
}

func (s *authServiceImpl) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addressID string) (*models.User, *apperrors.Error) {
	addrID, ok := parseID(addressID)
	if !ok {
		return nil, apperrors.BadRequest("Address could not be deleted")
	}

	if err := s.users.PullAddress(ctx, userID, addrID); err != nil {
		return nil, internal(err)
	}

	user, appErr := s.reload(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	for _, a := range user.Addresses {
		if a.ID == addrID {
			return nil, apperrors.BadRequest("Address could not be deleted")
		}
	}
	return user, nil
}

func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) *apperrors.Error {
	if email == "" {
		return apperrors.BadRequest("Email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.BadRequest("Email Is Not Registered")
	}
	if err != nil {
		return internal(err)
	}

	token, err := s.tokens.IssueReset(user.Email)
	if err != nil {
		return internal(err)
	}

	data := map[string]interface{}{"link": s.resetURL + "/" + token}
	if err := s.mailer.Send(ctx, user.Email, "Link To Create New Password", sender.TemplateForgotPassword, data); err != nil {
		s.logger.Error("Failed to send reset email", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		return internal(err)
	}
	return nil
}

func (s *authServiceImpl) CreatePassword(ctx context.Context, token, password string) *apperrors.Error {
	email, err := s.tokens.ParseReset(token)
	if err != nil {
		return apperrors.BadRequest("Invalid or expired token")
	}
	if password == "" {
		return apperrors.BadRequest("Password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return internal(err)
	}

	found, err := s.users.UpdatePasswordByEmail(ctx, email, string(hash))
	if err != nil {
		return internal(err)
	}
	if !found {
		return apperrors.NotFound("User not found")
	}
	return nil
}
