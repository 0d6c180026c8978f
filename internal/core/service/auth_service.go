package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/martijn/jobboard/internal/core/domain"
	"github.com/martijn/jobboard/internal/core/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer          = "jobboard"
	DefaultBcryptCost    = 12
	DefaultTokenLifetime = 24 * time.Hour

	tempPasswordLength = 12
)

const (
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*()-_=+?"
)

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtAlgorithm  string
	bcryptCost    int
	tokenLifetime time.Duration

	// compared against when the username is unknown, so a missing user
	// costs the same bcrypt work as a wrong password
	dummyHash []byte
}

type AuthOptions struct {
	JWTSecret     string
	JWTAlgorithm  string
	BcryptCost    int
	TokenLifetime time.Duration
}

func NewAuthService(userRepo repository.UserRepository, opts AuthOptions) *AuthService {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultBcryptCost
	}
	if opts.TokenLifetime == 0 {
		opts.TokenLifetime = DefaultTokenLifetime
	}
	if opts.JWTAlgorithm == "" {
		opts.JWTAlgorithm = jwt.SigningMethodHS256.Alg()
	}

	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), opts.BcryptCost)

	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     opts.JWTSecret,
		jwtAlgorithm:  opts.JWTAlgorithm,
		bcryptCost:    opts.BcryptCost,
		tokenLifetime: opts.TokenLifetime,
		dummyHash:     dummy,
	}
}

// HashPassword hashes a password using bcrypt. bcrypt limits input to 72
// bytes, so a short password in a multi-byte script can still be too long.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", BadRequest("password must be at most 72 bytes")
	}
	if err != nil {
		return "", Internal(err, "failed to hash password")
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords produce the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !IsKind(err, KindNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, Unauthorized("Invalid username/password")
	}

	if !s.VerifyPassword(password, user.Password) {
		return nil, Unauthorized("Invalid username/password")
	}

	user.Password = ""
	return user, nil
}

// IssueToken signs a token carrying the user's identity and role.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}

	var signingMethod jwt.SigningMethod
	switch s.jwtAlgorithm {
	case "HS384":
		signingMethod = jwt.SigningMethodHS384
	case "HS512":
		signingMethod = jwt.SigningMethodHS512
	default:
		signingMethod = jwt.SigningMethodHS256
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.signingAlg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(TokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid && claims.Username != "" {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

func (s *AuthService) signingAlg() string {
	switch s.jwtAlgorithm {
	case "HS384", "HS512":
		return s.jwtAlgorithm
	default:
		return "HS256"
	}
}

// GeneratePassword returns a random temporary password with at least one
// lowercase letter, uppercase letter, digit and symbol.
func GeneratePassword() (string, error) {
	classes := []string{lowerChars, upperChars, digitChars, symbolChars}
	all := lowerChars + upperChars + digitChars + symbolChars

	out := make([]byte, 0, tempPasswordLength)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < tempPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// shuffle so the class-guaranteed characters are not always first
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}

	return string(out), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate password: %w", err)
	}
	return set[n.Int64()], nil
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}
