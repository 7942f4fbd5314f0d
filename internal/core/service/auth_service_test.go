package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cafeice/shop-api/internal/core/domain"
	"github.com/cafeice/shop-api/internal/core/ports"
	"github.com/cafeice/shop-api/internal/infrastructure/security"
)

// stubUserRepo mirrors the Mongo repository: unique emails, (nil, nil) on
// misses, and copies in and out.
type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	seq       int
	updateErr error
	// hideOnFind makes FindByEmail miss, simulating a concurrent insert
	// that lands between the existence check and the write.
	hideOnFind bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideOnFind {
		return nil, nil
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.byID[id]), nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = "u" + strconv.Itoa(r.seq)
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, p ports.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if p.Email != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Email == *p.Email {
				return nil, domain.ErrEmailExists
			}
		}
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.EmailVerified != nil {
		u.EmailVerified = *p.EmailVerified
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
	if p.LastLogin != nil {
		ts := *p.LastLogin
		u.LastLogin = &ts
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

const testSecret = "test-secret"

func newTestAuthService(repo ports.UserRepository) (*AuthService, *security.JWTManager) {
	tokens := security.NewJWTManager(testSecret, time.Hour)
	svc := NewAuthService(repo, security.NewBcryptHasher(bcrypt.MinCost), tokens, "boss@cafe.test", zerolog.Nop())
	return svc, tokens
}

func registerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{FirstName: "Ana", LastName: "Diaz", Email: email, Password: "Abcdef1!"}
}

func strPtr(s string) *string { return &s }

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), registerInput("a@x.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("expected sanitized user, got hash %q", res.User.PasswordHash)
	}
	if res.User.Role != domain.RoleUser || !res.User.Active || res.User.EmailVerified {
		t.Fatalf("unexpected defaults: %+v", res.User)
	}

	stored, _ := repo.FindByID(context.Background(), res.User.ID)
	if stored.PasswordHash == "Abcdef1!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Abcdef1!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != res.User.ID || claims.Email != "a@x.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_IgnoresRequestedRole(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	in := registerInput("sneaky@x.com")
	in.Role = domain.RoleAdmin
	res, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("self-registration granted %s", res.User.Role)
	}
}

func TestAuthService_Register_BootstrapEmailBecomesFounder(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	res, err := svc.Register(context.Background(), registerInput("boss@cafe.test"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Role != domain.RoleFounder {
		t.Fatalf("expected founder, got %s", res.User.Role)
	}

	// Exact match only.
	res, err = svc.Register(context.Background(), registerInput("Boss@cafe.test"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected user for differently-cased email, got %s", res.User.Role)
	}
}

func TestAuthService_Register_EmptyBootstrapFallsBackToDefault(t *testing.T) {
	tokens := security.NewJWTManager(testSecret, time.Hour)
	svc := NewAuthService(newStubUserRepo(), security.NewBcryptHasher(bcrypt.MinCost), tokens, "", zerolog.Nop())

	res, err := svc.Register(context.Background(), registerInput(DefaultBootstrapEmail))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Role != domain.RoleFounder {
		t.Fatalf("expected founder for %s, got %s", DefaultBootstrapEmail, res.User.Role)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), registerInput("bob@x.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("bob@x.com")); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_LateDuplicateIsConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), registerInput("race@x.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	repo.hideOnFind = true
	if _, err := svc.Register(context.Background(), registerInput("race@x.com")); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists from insert, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentSameEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), registerInput("same@x.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrEmailExists):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}
	users, _ := repo.List(context.Background())
	if len(users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(users))
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	reg, err := svc.Register(context.Background(), registerInput("carol@x.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@x.com", "Abcdef1!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" || res.User.PasswordHash != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.User.LastLogin == nil {
		t.Fatalf("expected last login on returned user")
	}

	stored, _ := repo.FindByID(context.Background(), reg.User.ID)
	if stored.LastLogin == nil {
		t.Fatalf("expected last login to be persisted")
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil || claims.Subject != reg.User.ID {
		t.Fatalf("token invalid: %v %+v", err, claims)
	}
}

func TestAuthService_Login_ReflectsCurrentRole(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	reg, _ := svc.Register(context.Background(), registerInput("dana@x.com"))
	staff := domain.RoleStaff
	_, _ = repo.UpdateByID(context.Background(), reg.User.ID, ports.UserPatch{Role: &staff})

	res, err := svc.Login(context.Background(), "dana@x.com", "Abcdef1!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, _ := tokens.Verify(res.Token)
	if claims.Role != domain.RoleStaff {
		t.Fatalf("expected staff claim, got %s", claims.Role)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	reg, _ := svc.Register(context.Background(), registerInput("dave@x.com"))
	_, _ = svc.Register(context.Background(), registerInput("gone@x.com"))
	gone, _ := repo.FindByEmail(context.Background(), "gone@x.com")
	inactive := false
	_, _ = repo.UpdateByID(context.Background(), gone.ID, ports.UserPatch{Active: &inactive})

	_, wrongSecret := svc.Login(context.Background(), "dave@x.com", "badpass")
	_, unknownEmail := svc.Login(context.Background(), "ghost@x.com", "Abcdef1!")
	_, deactivated := svc.Login(context.Background(), "gone@x.com", "Abcdef1!")

	for name, err := range map[string]error{"wrong secret": wrongSecret, "unknown email": unknownEmail, "deactivated": deactivated} {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
	if wrongSecret.Error() != unknownEmail.Error() || wrongSecret.Error() != deactivated.Error() {
		t.Fatalf("messages differ: %q vs %q vs %q", wrongSecret, unknownEmail, deactivated)
	}

	stored, _ := repo.FindByID(context.Background(), reg.User.ID)
	if stored.LastLogin != nil {
		t.Fatalf("failed login must not record last login")
	}
}

func TestAuthService_Login_LastLoginFailureIsNotFatal(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), registerInput("erin@x.com"))
	repo.updateErr = errors.New("write timeout")

	res, err := svc.Login(context.Background(), "erin@x.com", "Abcdef1!")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
}

func TestAuthService_RegisterThenLogin_ManyUsers(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	for i := 0; i < 5; i++ {
		email := "user" + strconv.Itoa(i) + "@x.com"
		if _, err := svc.Register(context.Background(), registerInput(email)); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
		if _, err := svc.Login(context.Background(), email, "Abcdef1!"); err != nil {
			t.Fatalf("login %s: %v", email, err)
		}
	}
}

func TestAuthService_GetProfile(t *testing.T) {
	svc, tokens := newTestAuthService(newStubUserRepo())

	reg, err := svc.Register(context.Background(), registerInput("a@x.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	claims, err := tokens.Verify(reg.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), claims.Subject)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.FirstName != "Ana" || profile.LastName != "Diaz" {
		t.Fatalf("missing name fields: %+v", profile)
	}
	if profile.PasswordHash != "" {
		t.Fatalf("profile leaks hash")
	}

	if _, err := svc.GetProfile(context.Background(), "missing"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_UpdateProfile_EmailChangeResetsVerification(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	reg, _ := svc.Register(context.Background(), registerInput("a@x.com"))
	verified := true
	_, _ = repo.UpdateByID(context.Background(), reg.User.ID, ports.UserPatch{EmailVerified: &verified})

	updated, err := svc.UpdateProfile(context.Background(), reg.User.ID, ports.ProfileChanges{Email: strPtr("b@x.com")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "b@x.com" {
		t.Fatalf("email not applied: %s", updated.Email)
	}
	if updated.EmailVerified {
		t.Fatalf("expected email verification to be reset")
	}
}

func TestAuthService_UpdateProfile_SameEmailKeepsVerification(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	reg, _ := svc.Register(context.Background(), registerInput("a@x.com"))
	verified := true
	_, _ = repo.UpdateByID(context.Background(), reg.User.ID, ports.UserPatch{EmailVerified: &verified})

	updated, err := svc.UpdateProfile(context.Background(), reg.User.ID, ports.ProfileChanges{
		Email:     strPtr("a@x.com"),
		FirstName: strPtr("Anita"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.EmailVerified || updated.FirstName != "Anita" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	a, _ := svc.Register(context.Background(), registerInput("a@x.com"))
	_, _ = svc.Register(context.Background(), registerInput("b@x.com"))

	if _, err := svc.UpdateProfile(context.Background(), a.User.ID, ports.ProfileChanges{Email: strPtr("b@x.com")}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_UpdateProfile_PasswordIsHashed(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	reg, _ := svc.Register(context.Background(), registerInput("a@x.com"))
	if _, err := svc.UpdateProfile(context.Background(), reg.User.ID, ports.ProfileChanges{Password: strPtr("Newpass9!")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), reg.User.ID)
	if stored.PasswordHash == "Newpass9!" {
		t.Fatalf("plaintext stored")
	}
	if _, err := svc.Login(context.Background(), "a@x.com", "Newpass9!"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", "Abcdef1!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}

func TestAuthService_UpdateProfile_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.UpdateProfile(context.Background(), "nope", ports.ProfileChanges{FirstName: strPtr("X")}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_CreateUser(t *testing.T) {
	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	staff := &domain.User{ID: "staff-1", Role: domain.RoleStaff}

	cases := []struct {
		name     string
		actor    *domain.User
		email    string
		role     domain.Role
		wantRole domain.Role
		wantErr  error
	}{
		{"admin creates admin", admin, "new-admin@x.com", domain.RoleAdmin, domain.RoleAdmin, nil},
		{"admin creates staff", admin, "barista@x.com", domain.RoleStaff, domain.RoleStaff, nil},
		{"empty role defaults to user", admin, "plain@x.com", "", domain.RoleUser, nil},
		{"bootstrap email still forced", admin, "boss@cafe.test", domain.RoleStaff, domain.RoleFounder, nil},
		{"founder cannot be requested", admin, "f@x.com", domain.RoleFounder, "", domain.ErrForbidden},
		{"unknown role", admin, "g@x.com", domain.Role("owner"), "", domain.ErrInvalidRole},
		{"staff is not privileged", staff, "h@x.com", domain.RoleUser, "", domain.ErrForbidden},
		{"anonymous", nil, "i@x.com", domain.RoleUser, "", domain.ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestAuthService(newStubUserRepo())
			in := registerInput(tc.email)
			in.Role = tc.role

			user, err := svc.CreateUser(context.Background(), tc.actor, in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create user: %v", err)
			}
			if user.Role != tc.wantRole {
				t.Fatalf("expected role %s, got %s", tc.wantRole, user.Role)
			}
			if user.PasswordHash != "" {
				t.Fatalf("expected sanitized user")
			}
		})
	}
}

func TestAuthService_PasswordOverHasherLimit(t *testing.T) {
	long := "Aa1!" + strings.Repeat("x", 80)
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	in := registerInput("long@x.com")
	in.Password = long
	if _, err := svc.Register(ctx, in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("register: expected ErrInvalidInput, got %v", err)
	}
	if u, _ := repo.FindByEmail(ctx, "long@x.com"); u != nil {
		t.Fatalf("account persisted despite rejected password")
	}

	founder := &domain.User{ID: "f-1", Role: domain.RoleFounder}
	if _, err := svc.CreateUser(ctx, founder, in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("create user: expected ErrInvalidInput, got %v", err)
	}

	reg, err := svc.Register(ctx, registerInput("a@x.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, reg.User.ID, ports.ProfileChanges{Password: strPtr(long)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("update profile: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "Abcdef1!"); err != nil {
		t.Fatalf("original password should still work: %v", err)
	}

	exact := "Aa1!" + strings.Repeat("x", 68)
	if _, err := svc.UpdateProfile(ctx, reg.User.ID, ports.ProfileChanges{Password: strPtr(exact)}); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}
}
