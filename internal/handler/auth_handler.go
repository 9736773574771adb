package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/takumi/inventory-api/internal/auth"
	"github.com/takumi/inventory-api/internal/middleware"
	"github.com/takumi/inventory-api/internal/model"
)

// TokenIssuerInterface は認証ハンドラーが必要とするトークン発行インターフェース。
type TokenIssuerInterface interface {
	// Issue は認証情報を照合し、一致した場合に署名付きトークンを発行する。
	Issue(username, password string) (*auth.IssueResult, error)
}

// AuthHandler はトークン発行と認証情報参照のHTTPハンドラー。
type AuthHandler struct {
	issuer TokenIssuerInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(issuer TokenIssuerInterface) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// tokenRequest はトークン発行リクエストのボディ。
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse はトークン発行のレスポンス。
type tokenResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresIn int64      `json:"expires_in"`
	Role      model.Role `json:"role"`
}

// meResponse は認証済みユーザー参照のレスポンス。
type meResponse struct {
	User *model.Claims `json:"user"`
}

// Token はユーザー名とパスワードを照合してベアラートークンを発行する。
// POST /auth/token
// 未知のボディフィールドはスキーマ違反として400を返す。
// 認証失敗時はどのフィールドが誤っているかを漏らさない。
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req tokenRequest
	if err := dec.Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, model.NewValidationError("request body must be a JSON object with username and password"))
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.WriteErrorResponse(w, model.NewValidationError("username and password are required"))
		return
	}

	result, err := h.issuer.Issue(req.Username, req.Password)
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			middleware.WriteErrorResponse(w, apiErr)
			return
		}
		slog.Error("token issuance failed", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{
		Token:     result.Token,
		TokenType: result.TokenType,
		ExpiresIn: result.ExpiresIn,
		Role:      result.Role,
	})
}

// Me は認証済みトークンのClaimsを返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, model.NewUnauthenticatedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(meResponse{User: claims})
}
