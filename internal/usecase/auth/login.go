package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/infra/session"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

const BarberTokenTTL = 24 * time.Hour

// ======================================================
// STAFF (dashboard, Redis session)
// ======================================================

type StaffLogin struct {
	db    *gorm.DB
	store session.Store
}

func NewStaffLogin(db *gorm.DB, store session.Store) *StaffLogin {
	return &StaffLogin{db: db, store: store}
}

func (uc *StaffLogin) Execute(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := uc.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&user).Error; err != nil {
		if httperr.IsNotFound(err) {
			return "", nil, httperr.ErrBusiness("invalid_credentials")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, httperr.ErrBusiness("invalid_credentials")
	}

	id, err := uc.store.Create(ctx, session.Session{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	})
	if err != nil {
		return "", nil, err
	}
	return id, &user, nil
}

func (uc *StaffLogin) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return uc.store.Delete(ctx, sessionID)
}

// ======================================================
// BARBER (mobile app, JWT)
// ======================================================

type BarberLogin struct {
	db     *gorm.DB
	secret string
}

func NewBarberLogin(db *gorm.DB, secret string) *BarberLogin {
	return &BarberLogin{db: db, secret: secret}
}

func (uc *BarberLogin) Execute(ctx context.Context, email, password string) (string, *models.Barber, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var barber models.Barber
	if err := uc.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&barber).Error; err != nil {
		if httperr.IsNotFound(err) {
			return "", nil, httperr.ErrBusiness("invalid_credentials")
		}
		return "", nil, err
	}

	if barber.PasswordHash == "" {
		return "", nil, httperr.ErrBusiness("invalid_credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(barber.PasswordHash), []byte(password)); err != nil {
		return "", nil, httperr.ErrBusiness("invalid_credentials")
	}

	token, err := uc.generateToken(&barber)
	if err != nil {
		return "", nil, err
	}
	return token, &barber, nil
}

func (uc *BarberLogin) generateToken(barber *models.Barber) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  barber.ID,
		"role": middleware.RoleBarber,
		"exp":  now.Add(BarberTokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.secret))
}

// HashPassword is used when creating users and barbers.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
