// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/takumi/inventory-api/internal/model"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL    string
	DBPingAttempts int
	DBPingInterval time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Credentials（viewer, operatorの2組のみ）
	Credentials []model.Credential

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigins []string

	// Rate Limit（認証済みサブジェクトごとのreq/min）
	RateLimitPerMin int

	// Query
	// model_stage=None を「ステージフィルタなし」として扱うか。
	// falseの場合はリテラル 'None' への等価フィルタになる（元パイプラインの挙動）。
	ModelStageNoneIsWildcard bool
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envが存在する場合は先に読み込む（既存の環境変数を優先）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// .envはローカル開発用。存在しなくてもエラーにしない。
	_ = godotenv.Load()

	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.DBPingAttempts = getEnvInt("DB_PING_ATTEMPTS", 20)
	cfg.DBPingInterval = getEnvDuration("DB_PING_INTERVAL", time.Second)

	cfg.JWTSecret = getEnvString("JWT_SECRET", "change-me")
	cfg.JWTIssuer = getEnvString("JWT_ISSUER", "smart-inventory")
	cfg.TokenTTL = getEnvDuration("JWT_EXPIRES_IN", 12*time.Hour)

	// ロールごとの固定認証情報。viewer → operator の順で照合される。
	cfg.Credentials = []model.Credential{
		{
			Role:     model.RoleViewer,
			Username: getEnvString("VIEWER_USERNAME", "viewer"),
			Password: getEnvString("VIEWER_PASSWORD", "viewer123"),
		},
		{
			Role:     model.RoleOperator,
			Username: getEnvString("OPERATOR_USERNAME", "operator"),
			Password: getEnvString("OPERATOR_PASSWORD", "operator123"),
		},
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", "3000")
	cfg.CORSAllowedOrigins = splitAndTrim(getEnvString("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3002"))
	cfg.RateLimitPerMin = getEnvInt("RATE_LIMIT_PER_MIN", 120)
	cfg.ModelStageNoneIsWildcard = getEnvBool("MODEL_STAGE_NONE_IS_WILDCARD", false)

	return cfg, nil
}

// splitAndTrim はカンマ区切り文字列を空白除去しつつ分割する。空要素は捨てる。
func splitAndTrim(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
