package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/takumi/inventory-api/internal/model"
)

// recommendationSelectSQL は補充推奨行のSELECT本体。
// 数値・日付列は10進表記の精度をそのまま転送するため::textにキャストする。
const recommendationSelectSQL = `SELECT
	r.sku_id,
	r.location_id,
	r.as_of_week_start::text,
	r.lead_time_weeks,
	r.service_level::text,
	r.rop_units::text,
	r.on_hand,
	r.on_order,
	r.order_qty,
	r.mu_lt::text,
	r.sigma_lt::text,
	r.z_value::text,
	r.computed_at::timestamptz::text
FROM ops.replenishment_recommendation r`

// recommendationOrderBySQL は推奨一覧の固定の並び順。クライアントからは変更できない。
const recommendationOrderBySQL = `ORDER BY r.as_of_week_start DESC, r.sku_id, r.location_id`

// recommendationFilterColumns はFilterSpecの各フィールドと
// ops.replenishment_recommendationの列の対応。モデル系フィルタは受け付けない。
var recommendationFilterColumns = filterColumns{
	runID:      "r.run_id",
	skuID:      "r.sku_id",
	locationID: "r.location_id",
	week:       "r.as_of_week_start",
}

// PostgresRecommendationRepo はPostgreSQLを使用した補充推奨リポジトリ。
type PostgresRecommendationRepo struct {
	db *sql.DB
}

// NewPostgresRecommendationRepo はPostgresRecommendationRepoを生成する。
func NewPostgresRecommendationRepo(db *sql.DB) *PostgresRecommendationRepo {
	return &PostgresRecommendationRepo{db: db}
}

// List はフィルタ・ページネーション付きで補充推奨行を取得する。
// 該当行が存在しない場合は空のスライスを返す。
func (r *PostgresRecommendationRepo) List(ctx context.Context, spec FilterSpec) ([]model.RecommendationRecord, error) {
	query, args := buildFilteredQuery(recommendationSelectSQL, recommendationFilterColumns, spec, recommendationOrderBySQL)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("補充推奨一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	records := []model.RecommendationRecord{}
	for rows.Next() {
		var rec model.RecommendationRecord
		var muLT, sigmaLT, zValue sql.NullString

		if err := rows.Scan(
			&rec.SKUID, &rec.LocationID, &rec.WeekStart,
			&rec.LeadTimeWeeks, &rec.ServiceLevel, &rec.ROPUnits,
			&rec.OnHand, &rec.OnOrder, &rec.OrderQty,
			&muLT, &sigmaLT, &zValue, &rec.ComputedAt,
		); err != nil {
			return nil, fmt.Errorf("補充推奨行の読み取りに失敗しました: %w", err)
		}

		rec.MuLT = nullStringValue(muLT)
		rec.SigmaLT = nullStringValue(sigmaLT)
		rec.ZValue = nullStringValue(zValue)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("補充推奨一覧の走査に失敗しました: %w", err)
	}

	return records, nil
}

// compile-time interface check
var _ RecommendationRepository = (*PostgresRecommendationRepo)(nil)
