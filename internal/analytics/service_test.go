package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/takumi/inventory-api/internal/model"
	"github.com/takumi/inventory-api/internal/repository"
)

// mockRunRepo はRunRepositoryの関数フィールド型モック。
type mockRunRepo struct {
	latestFunc func(ctx context.Context, jobType model.JobType) (string, error)
}

func (m *mockRunRepo) LatestSucceededRunID(ctx context.Context, jobType model.JobType) (string, error) {
	return m.latestFunc(ctx, jobType)
}

// mockForecastRepo はForecastRepositoryの関数フィールド型モック。
type mockForecastRepo struct {
	listFunc func(ctx context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error)
}

func (m *mockForecastRepo) List(ctx context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
	return m.listFunc(ctx, spec)
}

// mockRecommendationRepo はRecommendationRepositoryの関数フィールド型モック。
type mockRecommendationRepo struct {
	listFunc func(ctx context.Context, spec repository.FilterSpec) ([]model.RecommendationRecord, error)
}

func (m *mockRecommendationRepo) List(ctx context.Context, spec repository.FilterSpec) ([]model.RecommendationRecord, error) {
	return m.listFunc(ctx, spec)
}

// recordingRecorder はRecordQueryの呼び出しを記録する。
type recordingRecorder struct {
	entities []string
	outcomes []string
}

func (r *recordingRecorder) RecordQuery(entity, outcome string) {
	r.entities = append(r.entities, entity)
	r.outcomes = append(r.outcomes, outcome)
}

func newTestService(runs *mockRunRepo, forecasts *mockForecastRepo, recs *mockRecommendationRepo, cfg ServiceConfig) *Service {
	if runs == nil {
		runs = &mockRunRepo{latestFunc: func(context.Context, model.JobType) (string, error) {
			return "", nil
		}}
	}
	if forecasts == nil {
		forecasts = &mockForecastRepo{listFunc: func(context.Context, repository.FilterSpec) ([]model.ForecastRecord, error) {
			return []model.ForecastRecord{}, nil
		}}
	}
	if recs == nil {
		recs = &mockRecommendationRepo{listFunc: func(context.Context, repository.FilterSpec) ([]model.RecommendationRecord, error) {
			return []model.RecommendationRecord{}, nil
		}}
	}
	return NewService(runs, forecasts, recs, nil, cfg)
}

func TestService_ListForecasts_LatestOnlyResolvesRun(t *testing.T) {
	var gotJobType model.JobType
	runs := &mockRunRepo{latestFunc: func(_ context.Context, jobType model.JobType) (string, error) {
		gotJobType = jobType
		return "run-latest", nil
	}}

	var gotSpec repository.FilterSpec
	forecasts := &mockForecastRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
		gotSpec = spec
		return []model.ForecastRecord{{SKUID: "SKU-001"}}, nil
	}}

	svc := newTestService(runs, forecasts, nil, ServiceConfig{})
	env, err := svc.ListForecasts(context.Background(), repository.FilterSpec{Limit: 100}, true)
	if err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}

	if gotJobType != model.JobTypeBatchInference {
		t.Errorf("jobType = %q, want %q", gotJobType, model.JobTypeBatchInference)
	}
	if gotSpec.RunID != "run-latest" {
		t.Errorf("spec.RunID = %q, want %q", gotSpec.RunID, "run-latest")
	}
	if env.Meta.RunID == nil || *env.Meta.RunID != "run-latest" {
		t.Errorf("Meta.RunID = %v, want run-latest", env.Meta.RunID)
	}
	if !env.Meta.LatestOnly {
		t.Error("Meta.LatestOnly = false, want true")
	}
	if len(env.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(env.Data))
	}
}

func TestService_ListForecasts_ExplicitRunOverridesLatest(t *testing.T) {
	// 明示的なrun_idが指定された場合、最新Runの解決は行われない
	runs := &mockRunRepo{latestFunc: func(context.Context, model.JobType) (string, error) {
		t.Fatal("LatestSucceededRunID should not be called when run_id is explicit")
		return "", nil
	}}

	var gotSpec repository.FilterSpec
	forecasts := &mockForecastRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
		gotSpec = spec
		return []model.ForecastRecord{}, nil
	}}

	svc := newTestService(runs, forecasts, nil, ServiceConfig{})
	env, err := svc.ListForecasts(context.Background(), repository.FilterSpec{RunID: "run-explicit", Limit: 100}, true)
	if err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}

	if gotSpec.RunID != "run-explicit" {
		t.Errorf("spec.RunID = %q, want %q", gotSpec.RunID, "run-explicit")
	}
	if env.Meta.RunID == nil || *env.Meta.RunID != "run-explicit" {
		t.Errorf("Meta.RunID = %v, want run-explicit", env.Meta.RunID)
	}
}

func TestService_ListForecasts_LatestOnlyFalseSkipsResolution(t *testing.T) {
	runs := &mockRunRepo{latestFunc: func(context.Context, model.JobType) (string, error) {
		t.Fatal("LatestSucceededRunID should not be called when latest_only=false")
		return "", nil
	}}

	var gotSpec repository.FilterSpec
	forecasts := &mockForecastRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
		gotSpec = spec
		return []model.ForecastRecord{}, nil
	}}

	svc := newTestService(runs, forecasts, nil, ServiceConfig{})
	env, err := svc.ListForecasts(context.Background(), repository.FilterSpec{Limit: 100}, false)
	if err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}

	if gotSpec.RunID != "" {
		t.Errorf("spec.RunID = %q, want empty", gotSpec.RunID)
	}
	// Runフィルタなしのため、メタのrun_idはnull
	if env.Meta.RunID != nil {
		t.Errorf("Meta.RunID = %v, want nil", *env.Meta.RunID)
	}
	if env.Meta.LatestOnly {
		t.Error("Meta.LatestOnly = true, want false")
	}
}

func TestService_ListForecasts_NoSucceededRun(t *testing.T) {
	// 成功Runが1件もない場合、Runフィルタなしで全件対象になりメタはnull
	runs := &mockRunRepo{latestFunc: func(context.Context, model.JobType) (string, error) {
		return "", nil
	}}

	var gotSpec repository.FilterSpec
	forecasts := &mockForecastRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
		gotSpec = spec
		return []model.ForecastRecord{}, nil
	}}

	svc := newTestService(runs, forecasts, nil, ServiceConfig{})
	env, err := svc.ListForecasts(context.Background(), repository.FilterSpec{Limit: 100}, true)
	if err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}

	if gotSpec.RunID != "" {
		t.Errorf("spec.RunID = %q, want empty", gotSpec.RunID)
	}
	if env.Meta.RunID != nil {
		t.Errorf("Meta.RunID = %v, want nil", *env.Meta.RunID)
	}
}

func TestService_ListForecasts_RunResolutionError(t *testing.T) {
	runs := &mockRunRepo{latestFunc: func(context.Context, model.JobType) (string, error) {
		return "", errors.New("db down")
	}}

	svc := newTestService(runs, nil, nil, ServiceConfig{})
	if _, err := svc.ListForecasts(context.Background(), repository.FilterSpec{Limit: 100}, true); err == nil {
		t.Fatal("expected error when run resolution fails")
	}
}

func TestService_ListForecasts_ModelStageNoneLiteral(t *testing.T) {
	// デフォルト設定ではNoneはリテラル値としてフィルタされる
	var gotSpec repository.FilterSpec
	forecasts := &mockForecastRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
		gotSpec = spec
		return []model.ForecastRecord{}, nil
	}}

	svc := newTestService(nil, forecasts, nil, ServiceConfig{})
	env, err := svc.ListForecasts(context.Background(),
		repository.FilterSpec{ModelStage: "None", Limit: 100}, false)
	if err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}

	if gotSpec.ModelStage != "None" {
		t.Errorf("spec.ModelStage = %q, want %q", gotSpec.ModelStage, "None")
	}
	if env.Meta.ModelStage != "None" {
		t.Errorf("Meta.ModelStage = %q, want %q", env.Meta.ModelStage, "None")
	}
}

func TestService_ListForecasts_ModelStageNoneWildcard(t *testing.T) {
	// ワイルドカード設定を有効にするとNoneはステージフィルタの解除を意味するが、
	// メタ情報にはリクエストされた値をそのまま報告する
	var gotSpec repository.FilterSpec
	forecasts := &mockForecastRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.ForecastRecord, error) {
		gotSpec = spec
		return []model.ForecastRecord{}, nil
	}}

	svc := newTestService(nil, forecasts, nil, ServiceConfig{ModelStageNoneIsWildcard: true})
	env, err := svc.ListForecasts(context.Background(),
		repository.FilterSpec{ModelStage: "None", Limit: 100}, false)
	if err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}

	if gotSpec.ModelStage != "" {
		t.Errorf("spec.ModelStage = %q, want empty", gotSpec.ModelStage)
	}
	if env.Meta.ModelStage != "None" {
		t.Errorf("Meta.ModelStage = %q, want %q", env.Meta.ModelStage, "None")
	}
}

func TestService_ListRecommendations_UsesComputePolicyJob(t *testing.T) {
	var gotJobType model.JobType
	runs := &mockRunRepo{latestFunc: func(_ context.Context, jobType model.JobType) (string, error) {
		gotJobType = jobType
		return "run-policy", nil
	}}

	recs := &mockRecommendationRepo{listFunc: func(_ context.Context, spec repository.FilterSpec) ([]model.RecommendationRecord, error) {
		return []model.RecommendationRecord{{SKUID: "SKU-001", OrderQty: 71}}, nil
	}}

	svc := newTestService(runs, nil, recs, ServiceConfig{})
	env, err := svc.ListRecommendations(context.Background(), repository.FilterSpec{Limit: 100}, true)
	if err != nil {
		t.Fatalf("ListRecommendations() error = %v", err)
	}

	if gotJobType != model.JobTypeComputePolicy {
		t.Errorf("jobType = %q, want %q", gotJobType, model.JobTypeComputePolicy)
	}
	if env.Meta.RunID == nil || *env.Meta.RunID != "run-policy" {
		t.Errorf("Meta.RunID = %v, want run-policy", env.Meta.RunID)
	}
	if len(env.Data) != 1 || env.Data[0].OrderQty != 71 {
		t.Errorf("Data = %+v, want one record with OrderQty 71", env.Data)
	}
}

func TestService_RecordsQueryMetrics(t *testing.T) {
	recorder := &recordingRecorder{}

	forecasts := &mockForecastRepo{listFunc: func(context.Context, repository.FilterSpec) ([]model.ForecastRecord, error) {
		return []model.ForecastRecord{}, nil
	}}
	recs := &mockRecommendationRepo{listFunc: func(context.Context, repository.FilterSpec) ([]model.RecommendationRecord, error) {
		return nil, errors.New("boom")
	}}

	svc := NewService(
		&mockRunRepo{latestFunc: func(context.Context, model.JobType) (string, error) { return "", nil }},
		forecasts, recs, recorder, ServiceConfig{},
	)

	if _, err := svc.ListForecasts(context.Background(), repository.FilterSpec{Limit: 100}, false); err != nil {
		t.Fatalf("ListForecasts() error = %v", err)
	}
	if _, err := svc.ListRecommendations(context.Background(), repository.FilterSpec{Limit: 100}, false); err == nil {
		t.Fatal("expected error from recommendation repo")
	}

	want := []struct{ entity, outcome string }{
		{"forecast", "success"},
		{"recommendation", "error"},
	}
	if len(recorder.entities) != len(want) {
		t.Fatalf("recorded %d queries, want %d", len(recorder.entities), len(want))
	}
	for i, w := range want {
		if recorder.entities[i] != w.entity || recorder.outcomes[i] != w.outcome {
			t.Errorf("record[%d] = (%q, %q), want (%q, %q)",
				i, recorder.entities[i], recorder.outcomes[i], w.entity, w.outcome)
		}
	}
}
