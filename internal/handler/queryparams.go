// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/takumi/inventory-api/internal/model"
	"github.com/takumi/inventory-api/internal/repository"
)

// ページネーションのデフォルト値と上限。
const (
	defaultLimit = 100
	maxLimit     = 1000
)

// parseLenientBool は寛容な真偽値表記を解釈する。
// {"1","true","yes","y"} → true、{"0","false","no","n"} → false、
// それ以外・空文字列は呼び出し側のデフォルト値を返す。大文字小文字は区別しない。
func parseLenientBool(s string, def bool) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return def
	}
}

// validateQueryKeys はクエリ文字列のキーが許可セットに含まれることを検証する。
// 未知のキーはスキーマ違反として400を返す（additionalProperties: false相当）。
func validateQueryKeys(values url.Values, allowed map[string]struct{}) *model.APIError {
	for key := range values {
		if _, ok := allowed[key]; !ok {
			return model.NewValidationError(fmt.Sprintf("unknown query parameter: %s", key))
		}
	}
	return nil
}

// listQuery は一覧系エンドポイント共通のパース結果。
type listQuery struct {
	Spec       repository.FilterSpec
	LatestOnly bool
}

// forecastQueryKeys はGET /forecastsが受け付けるクエリキー。
var forecastQueryKeys = map[string]struct{}{
	"sku_id": {}, "location_id": {}, "start_week": {}, "end_week": {},
	"run_id": {}, "latest_only": {}, "model_name": {}, "model_stage": {},
	"limit": {}, "offset": {},
}

// recommendationQueryKeys はGET /recommendationsが受け付けるクエリキー。
var recommendationQueryKeys = map[string]struct{}{
	"sku_id": {}, "location_id": {}, "start_week": {}, "end_week": {},
	"run_id": {}, "latest_only": {},
	"limit": {}, "offset": {},
}

// parseListQuery は一覧系エンドポイント共通のクエリパラメータを検証・パースする。
// withModelFiltersがtrueの場合はmodel_name/model_stageも受け付け、
// model_stageにはデフォルトProductionを適用する。
func parseListQuery(values url.Values, withModelFilters bool) (*listQuery, *model.APIError) {
	allowed := recommendationQueryKeys
	if withModelFilters {
		allowed = forecastQueryKeys
	}
	if apiErr := validateQueryKeys(values, allowed); apiErr != nil {
		return nil, apiErr
	}

	q := &listQuery{
		Spec: repository.FilterSpec{
			SKUID:      values.Get("sku_id"),
			LocationID: values.Get("location_id"),
		},
		LatestOnly: parseLenientBool(values.Get("latest_only"), true),
	}

	if runID := values.Get("run_id"); runID != "" {
		if _, err := uuid.Parse(runID); err != nil {
			return nil, model.NewValidationError("run_id must be a valid UUID")
		}
		q.Spec.RunID = runID
	}

	var apiErr *model.APIError
	if q.Spec.StartWeek, apiErr = parseWeekParam(values, "start_week"); apiErr != nil {
		return nil, apiErr
	}
	if q.Spec.EndWeek, apiErr = parseWeekParam(values, "end_week"); apiErr != nil {
		return nil, apiErr
	}

	if withModelFilters {
		q.Spec.ModelName = values.Get("model_name")

		stage := values.Get("model_stage")
		if stage == "" {
			stage = string(model.ModelStageProduction)
		}
		if !model.ModelStage(stage).Valid() {
			return nil, model.NewValidationError("model_stage must be one of Production, Staging, None")
		}
		q.Spec.ModelStage = stage
	}

	if q.Spec.Limit, apiErr = parseIntParam(values, "limit", defaultLimit, 1, maxLimit); apiErr != nil {
		return nil, apiErr
	}
	if q.Spec.Offset, apiErr = parseIntParam(values, "offset", 0, 0, -1); apiErr != nil {
		return nil, apiErr
	}

	return q, nil
}

// parseWeekParam は週開始日パラメータをYYYY-MM-DD形式として検証する。
// 未指定の場合は空文字列（条件なし）を返す。
func parseWeekParam(values url.Values, key string) (string, *model.APIError) {
	v := values.Get(key)
	if v == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return "", model.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", key))
	}
	return v, nil
}

// parseIntParam は整数パラメータを範囲検証付きでパースする。
// maxが負の場合は上限なしとして扱う。
func parseIntParam(values url.Values, key string, def, min, max int) (int, *model.APIError) {
	v := values.Get(key)
	if v == "" {
		return def, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, model.NewValidationError(fmt.Sprintf("%s must be an integer", key))
	}
	if i < min {
		return 0, model.NewValidationError(fmt.Sprintf("%s must be >= %d", key, min))
	}
	if max >= 0 && i > max {
		return 0, model.NewValidationError(fmt.Sprintf("%s must be <= %d", key, max))
	}

	return i, nil
}
