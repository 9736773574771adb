// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/takumi/inventory-api/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに認証済みClaimsを格納するためのキー。
var claimsContextKey = contextKey("claims")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenVerifier interface {
	Authenticate(token string) (*model.Claims, error)
}

// NewRequireRoles はベアラートークンを検証し、ロールが許可セットに含まれる
// 場合のみ後続へ進むミドルウェアを返す。
// 許可セットはルート登録時に明示的に宣言する。ロール間に階層はなく、
// operatorがviewer相当として扱われることもない。
// トークン欠落・不正は401、ロール不許可は403を返す。
func NewRequireRoles(verifier TokenVerifier, allowed ...model.Role) func(next http.Handler) http.Handler {
	allowedSet := make(map[model.Role]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				WriteErrorResponse(w, model.NewUnauthenticatedError())
				return
			}

			claims, err := verifier.Authenticate(token)
			if err != nil {
				WriteErrorResponse(w, model.NewUnauthenticatedError())
				return
			}

			if _, ok := allowedSet[claims.Role]; !ok {
				WriteErrorResponse(w, model.NewForbiddenError())
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken はAuthorizationヘッダーからベアラートークンを取り出す。
// スキーム名は大文字小文字を区別しない。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// ClaimsFromContext はリクエストコンテキストから認証済みClaimsを取得する。
// RequireRolesミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*model.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*model.Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("claims not found in context")
	}
	return claims, nil
}

// ContextWithClaims はコンテキストにClaimsを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims *model.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
