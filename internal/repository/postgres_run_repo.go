package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/inventory-api/internal/model"
)

// PostgresRunRepo はPostgreSQLを使用したバッチRunリポジトリ。
// ops.batch_runはバッチパイプラインが所有し、ここでは読み取りのみ行う。
type PostgresRunRepo struct {
	db *sql.DB
}

// NewPostgresRunRepo はPostgresRunRepoを生成する。
func NewPostgresRunRepo(db *sql.DB) *PostgresRunRepo {
	return &PostgresRunRepo{db: db}
}

// LatestSucceededRunID は指定ジョブ種別で最も新しく開始された成功Runのrun_idを返す。
// 成功Runが1件も存在しない場合は空文字列を返す。これはエラーではなく
// 「Runフィルタを適用しない」ことを意味する。
func (r *PostgresRunRepo) LatestSucceededRunID(ctx context.Context, jobType model.JobType) (string, error) {
	var runID string
	err := r.db.QueryRowContext(ctx,
		`SELECT run_id
		 FROM ops.batch_run
		 WHERE job_type = $1 AND status = 'succeeded'
		 ORDER BY started_at DESC
		 LIMIT 1`,
		string(jobType),
	).Scan(&runID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("最新の成功Runの取得に失敗しました: %w", err)
	}

	return runID, nil
}

// compile-time interface check
var _ RunRepository = (*PostgresRunRepo)(nil)
