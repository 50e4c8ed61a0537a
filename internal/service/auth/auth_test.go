package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/hasher"
	"github.com/tanker-union/fleet-system/pkg/logger"
	"github.com/tanker-union/fleet-system/pkg/passhash"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

type fakeRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, rec *models.RefreshTokenRecord) error {
	rec.CreatedAt = time.Now()
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeRefreshRepo) GetByHash(ctx context.Context, hash string) (*models.RefreshTokenRecord, error) {
	for _, rec := range f.records {
		if rec.TokenHash == hash && !rec.Revoked && rec.ExpiresAt.After(time.Now()) {
			return rec, nil
		}
	}
	return nil, types.ErrNotFound
}

func (f *fakeRefreshRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	rec, ok := f.records[id]
	if !ok || rec.Revoked {
		return types.ErrNotFound
	}
	rec.Revoked = true
	return nil
}

type fakeRegistrar struct {
	created []uuid.UUID
}

func (f *fakeRegistrar) CreateForUser(ctx context.Context, userID uuid.UUID, name string) (*models.Driver, error) {
	f.created = append(f.created, userID)
	return &models.Driver{ID: uuid.New(), UserID: userID, Name: name, SerialNumber: len(f.created)}, nil
}

func newTestTokenService(users *fakeUserRepo, tokens *fakeRefreshRepo) *TokenService {
	log := logger.InitLogger("test", logger.LevelError)
	return NewTokenService("test-secret", users, tokens, fakeTx{}, time.Hour, 15*time.Minute, log)
}

func seedUser(t *testing.T, users *fakeUserRepo, email, password string) *models.User {
	t.Helper()

	hash, err := passhash.HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := &models.User{
		ID:    uuid.New(),
		Name:  "Marat",
		Email: email,
		Role:  types.RoleDriver,
	}
	user.SetPassword(hash)
	users.users[user.ID] = user
	return user
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	ts := newTestTokenService(users, refresh)

	user := seedUser(t, users, "marat@example.com", "tanker-pass-1")

	pair, err := ts.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("both tokens should be issued")
	}

	claims, err := ts.Validate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.TokenType != models.AccessToken {
		t.Fatalf("expected access token type, got %q", claims.TokenType)
	}
	if claims.UserID != user.ID {
		t.Fatalf("claims should carry the user id")
	}
	if claims.Role != types.RoleDriver.String() {
		t.Fatalf("claims should carry the role, got %q", claims.Role)
	}

	if len(refresh.records) != 1 {
		t.Fatalf("refresh token should be persisted, got %d records", len(refresh.records))
	}
	for _, rec := range refresh.records {
		if rec.TokenHash == pair.RefreshToken {
			t.Fatalf("refresh token must be stored hashed, not verbatim")
		}
		if rec.TokenHash != hasher.Hash(pair.RefreshToken) {
			t.Fatalf("stored hash does not match the issued token")
		}
	}
}

func TestValidate_RejectsGarbageAndWrongSecret(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	ts := newTestTokenService(users, refresh)

	if _, err := ts.Validate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	user := seedUser(t, users, "marat@example.com", "tanker-pass-1")
	other := NewTokenService("other-secret", users, refresh, fakeTx{}, time.Hour, 15*time.Minute, logger.InitLogger("test", logger.LevelError))
	pair, err := other.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ts.Validate(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with a different secret should be rejected, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	ts := newTestTokenService(users, refresh)

	user := seedUser(t, users, "marat@example.com", "tanker-pass-1")
	pair, err := ts.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rotated, err := ts.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation should issue a fresh refresh token")
	}

	// The old token is revoked, presenting it again must fail.
	if _, err := ts.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("replayed refresh token should be rejected, got %v", err)
	}

	// The rotated token still works.
	if _, err := ts.Refresh(context.Background(), rotated.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	ts := newTestTokenService(users, refresh)

	user := seedUser(t, users, "marat@example.com", "tanker-pass-1")
	pair, err := ts.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ts.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token must not pass as refresh token, got %v", err)
	}
}

func newTestAuthService(users *fakeUserRepo, refresh *fakeRefreshRepo, registrar *fakeRegistrar) *AuthService {
	log := logger.InitLogger("test", logger.LevelError)
	ts := newTestTokenService(users, refresh)
	return NewAuthService(users, refresh, registrar, ts, fakeTx{}, log)
}

func TestRegister_CreatesUserAndDriver(t *testing.T) {
	users := newFakeUserRepo()
	registrar := &fakeRegistrar{}
	s := newTestAuthService(users, newFakeRefreshRepo(), registrar)

	req := &models.UserCreateRequest{Name: "Marat", Email: "marat@example.com", Password: "tanker-pass-1"}
	driver, err := s.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.users) != 1 {
		t.Fatalf("expected one user, got %d", len(users.users))
	}
	if len(registrar.created) != 1 || registrar.created[0] != driver.UserID {
		t.Fatalf("roster row should be created for the new user")
	}
	for _, u := range users.users {
		if u.Role != types.RoleDriver {
			t.Fatalf("self-registered accounts are drivers, got %q", u.Role)
		}
		if u.GetPassword() == req.Password {
			t.Fatalf("password must be stored hashed")
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	s := newTestAuthService(users, newFakeRefreshRepo(), &fakeRegistrar{})

	seedUser(t, users, "marat@example.com", "tanker-pass-1")

	req := &models.UserCreateRequest{Name: "Other", Email: "marat@example.com", Password: "tanker-pass-2"}
	if _, err := s.Register(context.Background(), req); !errors.Is(err, ErrNotUniqueEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	s := newTestAuthService(users, newFakeRefreshRepo(), &fakeRegistrar{})

	seedUser(t, users, "marat@example.com", "tanker-pass-1")

	pair, err := s.Login(context.Background(), "marat@example.com", "tanker-pass-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatalf("login should return tokens")
	}

	if _, err := s.Login(context.Background(), "marat@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := s.Login(context.Background(), "nobody@example.com", "tanker-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should look like bad credentials, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	registrar := &fakeRegistrar{}
	log := logger.InitLogger("test", logger.LevelError)
	ts := newTestTokenService(users, refresh)
	s := NewAuthService(users, refresh, registrar, ts, fakeTx{}, log)

	user := seedUser(t, users, "marat@example.com", "tanker-pass-1")
	pair, err := ts.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := refresh.GetByHash(context.Background(), hasher.Hash(pair.RefreshToken)); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("refresh token should be revoked after logout")
	}

	// Logging out twice is fine.
	if err := s.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRoleCheck(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	ts := newTestTokenService(users, refresh)
	s := NewAuthService(users, refresh, &fakeRegistrar{}, ts, fakeTx{}, logger.InitLogger("test", logger.LevelError))

	user := seedUser(t, users, "marat@example.com", "tanker-pass-1")
	pair, err := ts.GenerateTokens(context.Background(), user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.RoleCheck(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("role check should load the token's user")
	}

	if _, err := s.RoleCheck(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token must not authenticate requests, got %v", err)
	}
}
