package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	config "github.com/mkamau56/tutorhub/configs"
	"github.com/mkamau56/tutorhub/models"
	"github.com/mkamau56/tutorhub/notifications"
	"github.com/mkamau56/tutorhub/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const revokedKeyPrefix = "revoked:"

// CredentialRevoked reports whether the credential carrying the given
// token id was signed out before its expiry.
func CredentialRevoked(ctx context.Context, rdb *redis.Client, tokenID string) (bool, error) {
	n, err := rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DBGateway implements Gateway against Postgres and Redis. Postgres
// holds the user rows, Redis the revocation list for signed-out
// credentials that have not yet expired.
type DBGateway struct {
	db       *gorm.DB
	rdb      *redis.Client
	secret   []byte
	tokenTTL time.Duration

	events    chan CredentialEvent
	closeOnce sync.Once
}

func NewDBGateway(db *gorm.DB, rdb *redis.Client, secret string, tokenTTL time.Duration) *DBGateway {
	return &DBGateway{
		db:       db,
		rdb:      rdb,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		events:   make(chan CredentialEvent, 64),
	}
}

func (g *DBGateway) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if in.Role != models.RoleStudent && in.Role != models.RoleTutor {
		return nil, fmt.Errorf("role %q cannot self-register", in.Role)
	}

	profileData, err := models.DecodeProfileData(in.Role, in.ProfileData)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &GatewayError{Op: "sign-up", Err: err}
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, &GatewayError{Op: "sign-up", Err: err}
	}

	user := models.User{
		Email:             in.Email,
		Password:          string(hashed),
		Role:              in.Role,
		ProfileData:       profileData,
		VerificationToken: &token,
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}

		if in.Role == models.RoleTutor {
			application := models.TutorApplication{
				UserID:      user.ID,
				SubmittedAt: time.Now(),
			}
			if bio, ok := profileData["bio"].(string); ok && bio != "" {
				application.Bio = &bio
			}
			if rate, ok := profileData["hourly_rate"].(float64); ok {
				application.HourlyRate = rate
			}
			if err := tx.Create(&application).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, &GatewayError{Op: "sign-up", Err: err}
	}

	verifyLink := fmt.Sprintf("%s/verify-email?token=%s", config.Config("FRONTEND_URL"), token)
	go notifications.SendEmail(
		user.DisplayName(),
		user.Email,
		"Verify your TutorHub account",
		fmt.Sprintf("<h1>Welcome to TutorHub!</h1><p>Click the link below to verify your email address.</p><p><a href='%s'>Verify Email</a></p>", verifyLink),
	)

	return &user, nil
}

func (g *DBGateway) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &GatewayError{Op: "sign-in", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, ErrAccountSuspended
	}

	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(g.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"jti":     tokenID,
		"exp":     expiresAt.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return nil, &GatewayError{Op: "sign-in", Err: err}
	}

	cred := &Credential{
		Token:      signed,
		TokenID:    tokenID,
		IdentityID: user.ID,
		Role:       user.Role,
		ExpiresAt:  expiresAt,
	}

	g.emit(CredentialEvent{Kind: EventSignedIn, IdentityID: user.ID, Credential: cred})
	return cred, nil
}

func (g *DBGateway) SignOut(ctx context.Context, cred *Credential) error {
	if cred == nil {
		return nil
	}

	ttl := time.Until(cred.ExpiresAt)
	if ttl > 0 {
		key := revokedKeyPrefix + cred.TokenID
		if err := g.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
			return &GatewayError{Op: "sign-out", Err: err}
		}
	}

	g.emit(CredentialEvent{Kind: EventSignedOut, IdentityID: cred.IdentityID})
	return nil
}

// ParseCredential restores a credential from a bearer token, rejecting
// expired, malformed, and revoked tokens alike.
func (g *DBGateway) ParseCredential(ctx context.Context, token string) (*Credential, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	identityID, err := uuid.Parse(fmt.Sprint(claims["user_id"]))
	if err != nil {
		return nil, ErrInvalidToken
	}
	tokenID := fmt.Sprint(claims["jti"])
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	revoked, err := CredentialRevoked(ctx, g.rdb, tokenID)
	if err != nil {
		return nil, &GatewayError{Op: "parse-credential", Err: err}
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return &Credential{
		Token:      token,
		TokenID:    tokenID,
		IdentityID: identityID,
		Role:       models.Role(fmt.Sprint(claims["role"])),
		ExpiresAt:  time.Unix(int64(exp), 0),
	}, nil
}

func (g *DBGateway) FetchProfile(ctx context.Context, identityID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("id = ?", identityID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, &GatewayError{Op: "fetch-profile", Err: err}
	}
	return &user, nil
}

func (g *DBGateway) UpdateProfile(ctx context.Context, identityID uuid.UUID, data models.JSONMap) error {
	result := g.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", identityID).
		Updates(map[string]interface{}{"profile_data": data, "updated_at": time.Now()})
	if result.Error != nil {
		return &GatewayError{Op: "update-profile", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (g *DBGateway) Changes() <-chan CredentialEvent {
	return g.events
}

func (g *DBGateway) Close() error {
	g.closeOnce.Do(func() {
		close(g.events)
	})
	return nil
}

func (g *DBGateway) emit(ev CredentialEvent) {
	// The store is the single consumer; a full buffer means it has
	// fallen far behind and the event is dropped rather than blocking
	// the request path.
	select {
	case g.events <- ev:
	default:
	}
}
