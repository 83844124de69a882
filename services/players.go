package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"region-quest-system/models"
)

type PlayerService struct {
	DB        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewPlayerService(db *gorm.DB, jwtSecret string) *PlayerService {
	return &PlayerService{
		DB:        db,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
	}
}

type SignupInput struct {
	Email      string `json:"email"`
	Nickname   string `json:"nickname"`
	Password   string `json:"password"`
	MBTI       string `json:"mbti"`
	ProfileImg string `json:"profileImg"`
}

type PlayerResult struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Row     *models.Player `json:"row,omitempty"`
	Token   string         `json:"token,omitempty"`
}

// Signup creates a player with a bcrypt-hashed password and hands back a
// bearer token for the quest endpoints.
func (s *PlayerService) Signup(in SignupInput) PlayerResult {
	if in.Email == "" || in.Nickname == "" || in.Password == "" {
		return PlayerResult{OK: false, Message: "이메일, 닉네임, 비밀번호를 입력해주세요."}
	}

	var existing models.Player
	err := s.DB.Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return PlayerResult{OK: false, Message: "이미 가입된 이메일입니다."}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PlayerResult{OK: false, Message: "회원가입에 실패하였습니다."}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return PlayerResult{OK: false, Message: "회원가입에 실패하였습니다."}
	}

	player := models.Player{
		ID:         uuid.NewString(),
		Email:      in.Email,
		Nickname:   in.Nickname,
		Password:   string(hashed),
		MBTI:       in.MBTI,
		ProfileImg: in.ProfileImg,
		Level:      1,
	}
	if err := s.DB.Create(&player).Error; err != nil {
		return PlayerResult{OK: false, Message: "회원가입에 실패하였습니다."}
	}

	token, err := s.issueToken(player.ID)
	if err != nil {
		return PlayerResult{OK: false, Message: "회원가입에 실패하였습니다."}
	}
	return PlayerResult{OK: true, Row: &player, Token: token}
}

// Login verifies the password and issues a fresh token.
func (s *PlayerService) Login(email, password string) PlayerResult {
	var player models.Player
	if err := s.DB.Where("email = ?", email).First(&player).Error; err != nil {
		return PlayerResult{OK: false, Message: "이메일 또는 비밀번호가 올바르지 않습니다."}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(password)); err != nil {
		return PlayerResult{OK: false, Message: "이메일 또는 비밀번호가 올바르지 않습니다."}
	}
	token, err := s.issueToken(player.ID)
	if err != nil {
		return PlayerResult{OK: false, Message: "로그인에 실패하였습니다."}
	}
	return PlayerResult{OK: true, Row: &player, Token: token}
}

func (s *PlayerService) issueToken(playerID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
