package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/inventory-api/internal/model"
)

// forecastSelectSQL は予測行のSELECT本体。
// 数値・日付列は10進表記の精度をそのまま転送するため::textにキャストする。
const forecastSelectSQL = `SELECT
	f.sku_id,
	f.location_id,
	f.horizon_week_start::text,
	f.forecast_units::text,
	f.baseline_units::text,
	f.residual_std::text,
	f.model_name,
	f.model_stage,
	f.generated_at::timestamptz::text
FROM ops.forecast f`

// forecastOrderBySQL は予測一覧の固定の並び順。クライアントからは変更できない。
const forecastOrderBySQL = `ORDER BY f.horizon_week_start DESC, f.sku_id, f.location_id`

// forecastFilterColumns はFilterSpecの各フィールドとops.forecastの列の対応。
var forecastFilterColumns = filterColumns{
	runID:      "f.run_id",
	skuID:      "f.sku_id",
	locationID: "f.location_id",
	week:       "f.horizon_week_start",
	modelName:  "f.model_name",
	modelStage: "f.model_stage",
}

// PostgresForecastRepo はPostgreSQLを使用した需要予測リポジトリ。
type PostgresForecastRepo struct {
	db *sql.DB
}

// NewPostgresForecastRepo はPostgresForecastRepoを生成する。
func NewPostgresForecastRepo(db *sql.DB) *PostgresForecastRepo {
	return &PostgresForecastRepo{db: db}
}

// List はフィルタ・ページネーション付きで予測行を取得する。
// 該当行が存在しない場合は空のスライスを返す。
func (r *PostgresForecastRepo) List(ctx context.Context, spec FilterSpec) ([]model.ForecastRecord, error) {
	query, args := buildFilteredQuery(forecastSelectSQL, forecastFilterColumns, spec, forecastOrderBySQL)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("予測一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	records := []model.ForecastRecord{}
	for rows.Next() {
		var rec model.ForecastRecord
		var baselineUnits, residualStd sql.NullString

		if err := rows.Scan(
			&rec.SKUID, &rec.LocationID, &rec.WeekStart,
			&rec.ForecastUnits, &baselineUnits, &residualStd,
			&rec.ModelName, &rec.ModelStage, &rec.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("予測行の読み取りに失敗しました: %w", err)
		}

		rec.BaselineUnits = nullStringValue(baselineUnits)
		rec.ResidualStd = nullStringValue(residualStd)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("予測一覧の走査に失敗しました: %w", err)
	}

	return records, nil
}

// compile-time interface check
var _ ForecastRepository = (*PostgresForecastRepo)(nil)
