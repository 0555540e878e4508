package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/uscre/auth-service/internal/common"
)

// verificationSalt namespaces the MAC so a verification token can never be
// mistaken for any other token signed with the same secret.
const verificationSalt = "email-verify"

// DefaultVerificationMaxAge bounds how long a verification token stays valid.
const DefaultVerificationMaxAge = 15 * time.Minute

// GenerateVerificationToken signs the given email together with the current
// timestamp. The token is url-safe: base64url(payload).base64url(mac).
func GenerateVerificationToken(email string, secretKey []byte) string {
	return generateVerificationTokenAt(email, secretKey, time.Now())
}

func generateVerificationTokenAt(email string, secretKey []byte, issuedAt time.Time) string {
	payload := email + "|" + strconv.FormatInt(issuedAt.Unix(), 10)
	mac := sign([]byte(payload), secretKey)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) +
		"." + base64.RawURLEncoding.EncodeToString(mac)
}

// VerifyVerificationToken checks the token's MAC and age and returns the
// email it binds. The MAC is verified before expiry is inspected so a forged
// token learns nothing about which check failed. Tokens older than maxAge
// yield common.ErrTokenExpired; any format or signature problem yields
// common.ErrInvalidToken.
func VerifyVerificationToken(token string, secretKey []byte, maxAge time.Duration) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", common.ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", common.ErrInvalidToken
	}
	mac, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !hmac.Equal(mac, sign(payload, secretKey)) {
		return "", common.ErrInvalidToken
	}

	sep := strings.LastIndexByte(string(payload), '|')
	if sep < 0 {
		return "", common.ErrInvalidToken
	}
	email := string(payload[:sep])
	issuedUnix, err := strconv.ParseInt(string(payload[sep+1:]), 10, 64)
	if err != nil || email == "" {
		return "", common.ErrInvalidToken
	}

	if time.Since(time.Unix(issuedUnix, 0)) > maxAge {
		return "", common.ErrTokenExpired
	}

	return email, nil
}

func sign(payload []byte, secretKey []byte) []byte {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(verificationSalt))
	mac.Write(payload)
	return mac.Sum(nil)
}
