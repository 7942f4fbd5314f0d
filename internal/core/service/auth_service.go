package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
)

// DefaultBootstrapEmail is the address promoted to founder on registration
// when no other bootstrap address is configured.
const DefaultBootstrapEmail = "founder@cafeice.shop"

// dummyPassword is hashed once per service so that logins for unknown
// emails spend the same hashing effort as logins with a wrong secret.
const dummyPassword = "dummy-password-for-timing"

// privilegedCreators may use CreateUser.
var privilegedCreators = domain.NewRoleSet(domain.RoleFounder, domain.RoleAdmin)

// AuthService implements registration, login and self-service profile management.
type AuthService struct {
	repo           ports.UserRepository
	hasher         ports.PasswordHasher
	tokens         ports.TokenIssuer
	bootstrapEmail string
	dummyHash      string
	logger         zerolog.Logger
	now            func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	bootstrapEmail string,
	logger zerolog.Logger,
) *AuthService {
	if bootstrapEmail == "" {
		bootstrapEmail = DefaultBootstrapEmail
	}
	s := &AuthService{
		repo:           repo,
		hasher:         hasher,
		tokens:         tokens,
		bootstrapEmail: bootstrapEmail,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
	if h, err := hasher.Hash(dummyPassword); err == nil {
		s.dummyHash = h
	}
	return s
}

// Register creates a self-service account. A requested role is ignored: the
// account is a plain user unless its email is the bootstrap address.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	user, err := s.create(ctx, in, s.assignRole(in.Email, domain.RoleUser))
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return &ports.AuthResult{User: user.Sanitized(), Token: token}, nil
}

// CreateUser is the privileged creation path. Founders and admins may create
// admin, staff or user accounts; nobody may mint a founder here.
func (s *AuthService) CreateUser(ctx context.Context, actor *domain.User, in ports.RegisterInput) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if !domain.Allow(actor.Role, privilegedCreators) {
		return nil, domain.ErrForbidden
	}

	role := in.Role
	switch role {
	case "":
		role = domain.RoleUser
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleUser:
	case domain.RoleFounder:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.ErrInvalidRole
	}

	user, err := s.create(ctx, in, s.assignRole(in.Email, role))
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Str("created_by", actor.ID).
		Msg("user created")
	return user.Sanitized(), nil
}

// assignRole forces founder for the bootstrap address.
func (s *AuthService) assignRole(email string, role domain.Role) domain.Role {
	if email == s.bootstrapEmail {
		return domain.RoleFounder
	}
	return role
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register: find by email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := s.now()
	created, err := s.repo.Insert(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		Phone:        in.Phone,
		Address:      in.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent registration can win between the lookup and the insert;
		// the unique index reports it as ErrEmailExists.
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("register: insert: %w", err)
	}
	return created, nil
}

// Login verifies credentials and issues a token carrying the current role.
// Unknown email, wrong secret and deactivated accounts fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	if _, err := s.repo.UpdateByID(ctx, user.ID, ports.UserPatch{LastLogin: &now}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	token, err := s.tokens.Issue(domain.ClaimsFor(user))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user.Sanitized(), Token: token}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user.Sanitized(), nil
}

// UpdateProfile merges changes into the caller's own account. A new email
// must be free and is left unverified; a new password is always hashed.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, changes ports.ProfileChanges) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	patch := ports.UserPatch{
		FirstName: changes.FirstName,
		LastName:  changes.LastName,
		Phone:     changes.Phone,
		Address:   changes.Address,
	}

	if changes.Email != nil && *changes.Email != user.Email {
		other, err := s.repo.FindByEmail(ctx, *changes.Email)
		if err != nil {
			return nil, fmt.Errorf("update profile: find by email: %w", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailExists
		}
		unverified := false
		patch.Email = changes.Email
		patch.EmailVerified = &unverified
	}

	if changes.Password != nil {
		if err := checkPassword(*changes.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*changes.Password)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.UpdateByID(ctx, user.ID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrUnauthorized
	}

	s.logger.Info().Str("user_id", user.ID).Msg("profile updated")
	return updated.Sanitized(), nil
}

func checkPassword(password string) error {
	if len(password) > domain.MaxPasswordBytes {
		return fmt.Errorf("%w: password longer than %d bytes", domain.ErrInvalidInput, domain.MaxPasswordBytes)
	}
	return nil
}
