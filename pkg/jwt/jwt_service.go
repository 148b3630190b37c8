package jwt

import (
	"errors"
	"fmt"
	"log"
	"time"

	"ghibli-backend/domain"
	"ghibli-backend/internal/utils"

	"github.com/golang-jwt/jwt/v4"
)

type (
	JWTService interface {
		GenerateTokenDevice(deviceID string) string
		ValidateTokenDevice(token string) (*jwt.Token, error)
		GetDeviceIDByToken(token string) (string, error)
	}

	jwtDeviceClaim struct {
		DeviceID string `json:"device_id"`
		Role     string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	secretKey := utils.GetConfig("JWT_SECRET")
	return secretKey
}

func NewJWTService() JWTService {
	return &jwtService{
		secretKey: getSecretKey(),
		issuer:    "GHIBLI",
	}
}

func (j *jwtService) GenerateTokenDevice(deviceID string) string {
	claims := jwtDeviceClaim{
		deviceID,
		domain.RoleDevice,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24 * 30)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		log.Println(err)
	}
	return tx
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenDevice(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtDeviceClaim{}, j.parseToken)
}

func (j *jwtService) GetDeviceIDByToken(token string) (string, error) {
	t_Token, err := j.ValidateTokenDevice(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtDeviceClaim)
	return claims.DeviceID, nil
}
