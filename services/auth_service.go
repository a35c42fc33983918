package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"learnhub/events"
	"learnhub/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 10 * time.Minute

type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	events    *events.Publisher
	jwtSecret string
}

func NewAuthService(db *gorm.DB, redisClient *redis.Client, publisher *events.Publisher, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		events:    publisher,
		jwtSecret: jwtSecret,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=STUDENT INSTRUCTOR"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates the account and issues a one-time code for email
// verification. The code goes to redis with a TTL and onto the event
// exchange; the mail worker that delivers it lives outside this service.
// Without redis (dev setups) the account activates immediately.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	var existing models.User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	status := models.StatusInactive
	if s.redis == nil {
		status = models.StatusActive
	}

	user := models.User{
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		Status:    status,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.redis != nil {
		otp := generateOTP()
		err := s.redis.Set(context.Background(), otpKey(user.Email), otp, otpTTL).Err()
		if err != nil {
			log.Printf("Failed to store OTP for %s: %v", user.Email, err)
		}
		s.publish(events.UserRegisteredKey, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
			"otp":     otp,
		})
	}

	return &user, nil
}

// VerifyOTP activates the account when the submitted code matches.
func (s *AuthService) VerifyOTP(email, code string) error {
	if s.redis == nil {
		return ErrInvalidOTP
	}
	stored, err := s.redis.Get(context.Background(), otpKey(email)).Result()
	if err == redis.Nil || (err == nil && stored != code) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	result := s.db.Model(&models.User{}).
		Where("email = ?", email).
		Update("status", models.StatusActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.redis.Del(context.Background(), otpKey(email))
	return nil
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.StatusInactive {
		return nil, ErrUserInactive
	}

	token, err := s.signToken(&user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers finds chat partners by name or email. The caller is excluded
// and inactive accounts never show up.
func (s *AuthService) SearchUsers(userID uint, query string) ([]models.User, error) {
	var users []models.User
	q := s.db.
		Where("id <> ? AND status = ?", userID, models.StatusActive).
		Order("first_name ASC").
		Limit(20)
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}
	err := q.Find(&users).Error
	return users, err
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"name":    user.FirstName + " " + user.LastName,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) publish(key string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(key, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", key, err)
	}
}

func otpKey(email string) string {
	return "otp:" + email
}

func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failures are not recoverable here
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
