package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/takumi/inventory-api/internal/middleware"
	"github.com/takumi/inventory-api/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	Verifier           middleware.TokenVerifier
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter

	// 認証
	TokenIssuer TokenIssuerInterface

	// 分析データ
	AnalyticsService AnalyticsServiceInterface

	// /metrics（nilの場合は公開しない）
	MetricsHandler    http.Handler
	MetricsMiddleware func(next http.Handler) http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成した
// chi.Routerを返す。
//
// 保護ルートのミドルウェア実行順序:
//
//	Recovery → CORS → RequireRoles → Logging → RateLimit
//
// ロールの許可セットはここでルートごとに明示的に宣言する。
// 許可セットを宣言しないルート（/health、/auth/token）は公開ルートである。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))
	if deps.MetricsMiddleware != nil {
		r.Use(deps.MetricsMiddleware)
	}

	authHandler := NewAuthHandler(deps.TokenIssuer)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsService)

	requireViewerOrOperator := middleware.NewRequireRoles(
		deps.Verifier, model.RoleViewer, model.RoleOperator,
	)

	// --- 公開ルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))

		r.Get("/health", Health)
		r.Post("/auth/token", authHandler.Token)

		if deps.MetricsHandler != nil {
			r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
		}
	})

	// --- 保護ルート（viewer | operator） ---
	// LoggingをRequireRolesの後に置くことで、アクセスログにサブジェクトと
	// ロールを含める。
	r.Group(func(r chi.Router) {
		r.Use(requireViewerOrOperator)
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		r.Get("/auth/me", authHandler.Me)
		r.Get("/forecasts", analyticsHandler.ListForecasts)
		r.Get("/recommendations", analyticsHandler.ListRecommendations)
	})

	return r
}
