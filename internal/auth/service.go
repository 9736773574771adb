// Package auth はベアラートークンの発行と検証を提供する。
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/takumi/inventory-api/internal/model"
)

// ServiceConfig はauth.Serviceの設定を保持する。
type ServiceConfig struct {
	Secret   string        // HMAC署名シークレット
	Issuer   string        // issクレームの値
	TokenTTL time.Duration // トークンの有効期間
}

// Service は固定の認証情報ストアを用いたトークン発行・検証サービス。
// 状態を持たず、並行利用できる。
type Service struct {
	credentials []model.Credential
	config      ServiceConfig
	now         func() time.Time
}

// IssueResult はトークン発行の結果。
type IssueResult struct {
	Token     string
	TokenType string
	ExpiresIn int64 // 秒
	Role      model.Role
}

// NewService はServiceを生成する。
// credentialsはviewer → operatorの照合順で渡す。
func NewService(credentials []model.Credential, config ServiceConfig) *Service {
	return &Service{
		credentials: credentials,
		config:      config,
		now:         time.Now,
	}
}

// tokenClaims はJWTペイロードの内部表現。
type tokenClaims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue はユーザー名とパスワードを照合し、一致した場合に署名付きトークンを発行する。
// どの認証情報にも一致しない場合はInvalidCredentialsエラーを返す。
// パスワードの比較は一定時間比較で行う。
func (s *Service) Issue(username, password string) (*IssueResult, error) {
	var matched *model.Credential
	for i := range s.credentials {
		c := &s.credentials[i]
		userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
		if userOK && passOK && matched == nil {
			matched = c
		}
	}

	if matched == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.TokenTTL)

	claims := tokenClaims{
		Role: matched.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}

	return &IssueResult{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.config.TokenTTL.Seconds()),
		Role:      matched.Role,
	}, nil
}

// Authenticate はトークンの署名と有効期限を検証し、Claimsを復元する。
// 欠落・改ざん・期限切れ・未知のロールはすべてUnauthenticatedエラーになる。
func (s *Service) Authenticate(tokenString string) (*model.Claims, error) {
	if tokenString == "" {
		return nil, model.NewUnauthenticatedError()
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("想定外の署名方式です: %v", t.Header["alg"])
			}
			return []byte(s.config.Secret), nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !token.Valid {
		return nil, model.NewUnauthenticatedError()
	}

	if !claims.Role.Valid() {
		return nil, model.NewUnauthenticatedError()
	}

	result := &model.Claims{
		Role:    claims.Role,
		Subject: claims.Subject,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
