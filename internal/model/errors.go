package model

import (
	"fmt"
	"net/http"
)

// APIError はHTTPステータスに対応付けられた型付きエラー。
// Messageはクライアントへ返してよい内容のみを含み、内部詳細はログ側に残す。
type APIError struct {
	Code    string // エラーコード（ログ用）
	Status  int    // 対応するHTTPステータス
	Message string // クライアント向けメッセージ
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUpstreamData       = "UPSTREAM_DATA_ERROR"
)

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// ユーザー名とパスワードのどちらが誤っているかは漏らさない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidCredentials,
		Status:  http.StatusUnauthorized,
		Message: "Invalid credentials",
	}
}

// NewUnauthenticatedError はトークン欠落・不正・期限切れエラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:    ErrCodeUnauthenticated,
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	}
}

// NewForbiddenError はロール不許可エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Status:  http.StatusForbidden,
		Message: "Forbidden",
	}
}

// NewValidationError はリクエストスキーマ違反エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Status:  http.StatusBadRequest,
		Message: reason,
	}
}
