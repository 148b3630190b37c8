package domain

import (
	"errors"
	"os"
)

const (
	RoleDevice = "device"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenNotFound = errors.New("failed to token not found")
)
