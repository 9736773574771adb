// Package repository はopsスキーマへの読み取り専用アクセスを提供する。
package repository

import (
	"context"
	"database/sql"

	"github.com/takumi/inventory-api/internal/model"
)

// RunRepository はバッチRunの解決に必要なインターフェース。
type RunRepository interface {
	// LatestSucceededRunID は指定ジョブ種別の最新成功Runのrun_idを返す。
	// 該当Runが存在しない場合は空文字列を返す（エラーではない）。
	LatestSucceededRunID(ctx context.Context, jobType model.JobType) (string, error)
}

// ForecastRepository は需要予測の取得インターフェース。
type ForecastRepository interface {
	// List はフィルタ・ページネーション付きで予測行を返す。
	List(ctx context.Context, spec FilterSpec) ([]model.ForecastRecord, error)
}

// RecommendationRepository は補充推奨の取得インターフェース。
type RecommendationRepository interface {
	// List はフィルタ・ページネーション付きで推奨行を返す。
	List(ctx context.Context, spec FilterSpec) ([]model.RecommendationRecord, error)
}

// nullStringValue はsql.NullStringから値を取り出す。NULLの場合は空文字列を返す。
func nullStringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
