package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/takumi/inventory-api/internal/analytics"
	"github.com/takumi/inventory-api/internal/middleware"
	"github.com/takumi/inventory-api/internal/repository"
)

// AnalyticsServiceInterface は分析ハンドラーが必要とするサービスインターフェース。
type AnalyticsServiceInterface interface {
	// ListForecasts はRun解決済みの予測一覧をエンベロープに包んで返す。
	ListForecasts(ctx context.Context, spec repository.FilterSpec, latestOnly bool) (*analytics.ForecastEnvelope, error)
	// ListRecommendations はRun解決済みの補充推奨一覧をエンベロープに包んで返す。
	ListRecommendations(ctx context.Context, spec repository.FilterSpec, latestOnly bool) (*analytics.RecommendationEnvelope, error)
}

// AnalyticsHandler は需要予測と補充推奨のHTTPハンドラー。
type AnalyticsHandler struct {
	service AnalyticsServiceInterface
}

// NewAnalyticsHandler はAnalyticsHandlerを生成する。
func NewAnalyticsHandler(service AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// ListForecasts は需要予測の一覧を取得する。
// GET /forecasts?sku_id=&location_id=&start_week=&end_week=&run_id=&latest_only=&model_name=&model_stage=&limit=&offset=
func (h *AnalyticsHandler) ListForecasts(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseListQuery(r.URL.Query(), true)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}

	envelope, err := h.service.ListForecasts(r.Context(), q.Spec, q.LatestOnly)
	if err != nil {
		// DB層の失敗は詳細をログにのみ残し、クライアントには一般的な500を返す
		slog.Error("failed to list forecasts", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}

// ListRecommendations は補充推奨の一覧を取得する。
// GET /recommendations?sku_id=&location_id=&start_week=&end_week=&run_id=&latest_only=&limit=&offset=
func (h *AnalyticsHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseListQuery(r.URL.Query(), false)
	if apiErr != nil {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}

	envelope, err := h.service.ListRecommendations(r.Context(), q.Spec, q.LatestOnly)
	if err != nil {
		slog.Error("failed to list recommendations", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(envelope)
}
