// Package analytics はバッチパイプラインが計算した分析結果の読み取りサービスを提供する。
package analytics

import (
	"context"
	"fmt"

	"github.com/takumi/inventory-api/internal/model"
	"github.com/takumi/inventory-api/internal/repository"
)

// ServiceConfig はanalytics.Serviceの設定を保持する。
type ServiceConfig struct {
	// ModelStageNoneIsWildcard はmodel_stage=Noneを「ステージフィルタなし」
	// として扱うか。falseの場合はリテラル 'None' への等価フィルタになる。
	ModelStageNoneIsWildcard bool
}

// QueryRecorder はクエリ結果のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type QueryRecorder interface {
	RecordQuery(entity string, outcome string)
}

// nopRecorder はメトリクス未設定時のフォールバック。
type nopRecorder struct{}

func (nopRecorder) RecordQuery(string, string) {}

// Service は需要予測と補充推奨の取得サービス。
// Run解決 → フィルタ組み立て → 取得、の一連の流れを担う。
type Service struct {
	runs            repository.RunRepository
	forecasts       repository.ForecastRepository
	recommendations repository.RecommendationRepository
	recorder        QueryRecorder
	config          ServiceConfig
}

// NewService はServiceを生成する。recorderがnilの場合はメトリクスを記録しない。
func NewService(
	runs repository.RunRepository,
	forecasts repository.ForecastRepository,
	recommendations repository.RecommendationRepository,
	recorder QueryRecorder,
	config ServiceConfig,
) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		runs:            runs,
		forecasts:       forecasts,
		recommendations: recommendations,
		recorder:        recorder,
		config:          config,
	}
}

// Meta はレスポンスエンベロープのメタ情報。
// RunIDはRunフィルタが適用されなかった場合にnullになる。
type Meta struct {
	RunID      *string `json:"run_id"`
	LatestOnly bool    `json:"latest_only"`
	ModelStage string  `json:"model_stage,omitempty"`
}

// ForecastEnvelope は予測一覧のレスポンスエンベロープ。
type ForecastEnvelope struct {
	Meta Meta                   `json:"meta"`
	Data []model.ForecastRecord `json:"data"`
}

// RecommendationEnvelope は補充推奨一覧のレスポンスエンベロープ。
type RecommendationEnvelope struct {
	Meta Meta                         `json:"meta"`
	Data []model.RecommendationRecord `json:"data"`
}

// resolveRun は一覧取得に適用するrun_idを決定する。
//
//   - explicitRunIDが指定されていればそれをそのまま使う（存在チェックはしない。
//     存在しないrun_idは下流で空の結果になるだけである）。
//   - latestOnlyがtrueなら、ジョブ種別の最新成功Runを引く。成功Runが
//     存在しない場合は空文字列（＝Runフィルタなし）。
//   - どちらでもなければ空文字列を返し、全Run横断の結果になる。
func (s *Service) resolveRun(ctx context.Context, jobType model.JobType, explicitRunID string, latestOnly bool) (string, error) {
	if explicitRunID != "" {
		return explicitRunID, nil
	}
	if !latestOnly {
		return "", nil
	}
	return s.runs.LatestSucceededRunID(ctx, jobType)
}

// ListForecasts はRun解決を行ったうえで予測一覧を取得し、エンベロープに包んで返す。
// spec.RunIDが空でlatestOnlyがtrueの場合、batch_inferenceジョブの最新成功Runに
// 絞り込む。
func (s *Service) ListForecasts(ctx context.Context, spec repository.FilterSpec, latestOnly bool) (*ForecastEnvelope, error) {
	runID, err := s.resolveRun(ctx, model.JobTypeBatchInference, spec.RunID, latestOnly)
	if err != nil {
		return nil, fmt.Errorf("予測一覧のRun解決に失敗しました: %w", err)
	}
	spec.RunID = runID

	// メタ情報にはリクエストされたステージをそのまま報告する
	requestedStage := spec.ModelStage
	if s.config.ModelStageNoneIsWildcard && spec.ModelStage == string(model.ModelStageNone) {
		spec.ModelStage = ""
	}

	records, err := s.forecasts.List(ctx, spec)
	if err != nil {
		s.recorder.RecordQuery("forecast", "error")
		return nil, err
	}
	s.recorder.RecordQuery("forecast", "success")

	return &ForecastEnvelope{
		Meta: Meta{
			RunID:      optionalRunID(runID),
			LatestOnly: latestOnly,
			ModelStage: requestedStage,
		},
		Data: records,
	}, nil
}

// ListRecommendations はRun解決を行ったうえで補充推奨一覧を取得する。
// spec.RunIDが空でlatestOnlyがtrueの場合、compute_policyジョブの最新成功Runに
// 絞り込む。
func (s *Service) ListRecommendations(ctx context.Context, spec repository.FilterSpec, latestOnly bool) (*RecommendationEnvelope, error) {
	runID, err := s.resolveRun(ctx, model.JobTypeComputePolicy, spec.RunID, latestOnly)
	if err != nil {
		return nil, fmt.Errorf("補充推奨一覧のRun解決に失敗しました: %w", err)
	}
	spec.RunID = runID

	records, err := s.recommendations.List(ctx, spec)
	if err != nil {
		s.recorder.RecordQuery("recommendation", "error")
		return nil, err
	}
	s.recorder.RecordQuery("recommendation", "success")

	return &RecommendationEnvelope{
		Meta: Meta{
			RunID:      optionalRunID(runID),
			LatestOnly: latestOnly,
		},
		Data: records,
	}, nil
}

// optionalRunID は空文字列をnull（Runフィルタなし）として表現する。
func optionalRunID(runID string) *string {
	if runID == "" {
		return nil
	}
	return &runID
}
