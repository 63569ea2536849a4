package util

import (
	"testing"
	"time"

	"opsnexus_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-not-for-production-use"

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{ID: "u1", Username: "devops_ninja", Role: model.RoleAdmin}

	token, err := GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "devops_ninja" || claims.Role != model.RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseJWTRejectsInvalidToken(t *testing.T) {
	user := &model.User{ID: "u1", Username: "devops_ninja", Role: model.RoleUser}

	// 过期令牌
	expired, err := GenerateJWT(user, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if claims, err := ParseJWT(expired, testSecret); err == nil || claims != nil {
		t.Fatalf("expired token: claims=%v err=%v", claims, err)
	}

	// 密钥不匹配
	token, _ := GenerateJWT(user, testSecret, time.Hour)
	if claims, err := ParseJWT(token, "other-secret"); err == nil || claims != nil {
		t.Fatalf("wrong secret: claims=%v err=%v", claims, err)
	}

	// 没有自定义 claims 的令牌：解析失败必须返回错误，绝不返回 (nil, nil)
	bare := jwt.New(jwt.SigningMethodHS256)
	bareString, err := bare.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	claims, err := ParseJWT(bareString, testSecret)
	if claims == nil && err == nil {
		t.Fatal("ParseJWT returned nil claims with nil error")
	}
}
