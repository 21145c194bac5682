package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	"stockanalyzer/data/repos"
	m "stockanalyzer/service/models"
)

const defaultPlan = "Premium"

// lowered in tests
var passwordCost = bcrypt.DefaultCost

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer signs HS256 tokens, a ttl of zero issues tokens without expiry
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ti *TokenIssuer) Issue(userId string) (string, error) {
	now := ti.now()
	claims := jwt.RegisteredClaims{
		Subject:  userId,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ti.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return token, nil
}

// Verify returns the user id carried by a valid token
func (ti *TokenIssuer) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

type ctxKey int

const userIdKey ctxKey = iota

func userIdFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIdKey).(string)
	return id
}

// Authenticate rejects requests without a valid bearer token and stores the
// token subject for the handlers
func (sc *ServiceContext) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, m.GetServiceResponseError("Missing authorization token"))
			return
		}

		userId, err := sc.Tokens.Verify(token)
		if err != nil {
			sc.logger().Debug("rejected token", "error", err)
			writeJSON(w, http.StatusUnauthorized, m.GetServiceResponseError("Invalid or expired token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIdKey, userId)))
	})
}

func (sc *ServiceContext) Register(ctx context.Context, req m.RegisterRequest) (*m.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, badRequest("All fields are required")
	}

	if taken, err := exists(sc.Store.GetUserByEmail(ctx, email)); err != nil {
		return nil, err
	} else if taken {
		return nil, badRequest("User with this email already exists")
	}
	if taken, err := exists(sc.Store.GetUserByUsername(ctx, username)); err != nil {
		return nil, err
	} else if taken {
		return nil, badRequest("Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &dm.User{
		Id:           ex.NewObjectID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Plan:         defaultPlan,
		Preferences:  map[string]any{},
		CreatedAt:    sc.clock(),
	}
	if err := sc.Store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, badRequest("User with this email or username already exists")
		}
		return nil, err
	}

	sc.logger().Info("user registered", "user_id", user.Id, "username", user.Username)
	return sc.authResponse(user, "User registered successfully")
}

func (sc *ServiceContext) Login(ctx context.Context, req m.LoginRequest) (*m.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, badRequest("Email and password are required")
	}

	user, err := sc.Store.GetUserByEmail(ctx, email)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, unauthorized("Invalid email or password")
	}

	return sc.authResponse(user, "Login successful")
}

func (sc *ServiceContext) CurrentUser(ctx context.Context, userId string) (*m.CurrentUser, error) {
	user, err := sc.user(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &m.CurrentUser{Username: user.Username, Email: user.Email}, nil
}

func (sc *ServiceContext) authResponse(user *dm.User, message string) (*m.AuthResponse, error) {
	token, err := sc.Tokens.Issue(user.Id)
	if err != nil {
		return nil, err
	}
	return &m.AuthResponse{
		Message:     message,
		AccessToken: token,
		Username:    user.Username,
		UserId:      user.Id,
	}, nil
}

// user loads the user, a missing record is a 404
func (sc *ServiceContext) user(ctx context.Context, userId string) (*dm.User, error) {
	user, err := sc.Store.GetUserById(ctx, userId)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, notFound("User not found")
	}
	return user, err
}

// exists turns a single record lookup into a presence check
func exists(user *dm.User, err error) (bool, error) {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return user != nil, nil
}
