package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/takumi/inventory-api/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 内部詳細を漏らさないよう、クライアント向けメッセージのみを含む。
type ErrorResponseBody struct {
	Message string `json:"message"`
}

// WriteErrorResponse は型付きエラーをHTTPレスポンスとして書き込む。
// すべてのAPIエンドポイントで一貫したエラーフォーマットを提供する。
func WriteErrorResponse(w http.ResponseWriter, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Message: apiErr.Message,
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, &model.APIError{
		Code:    model.ErrCodeUpstreamData,
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	})
}
