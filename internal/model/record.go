package model

// JobType はバッチパイプラインのジョブ種別を表す。
type JobType string

const (
	// JobTypeBatchInference は需要予測バッチのジョブ種別。
	JobTypeBatchInference JobType = "batch_inference"
	// JobTypeComputePolicy は補充推奨計算バッチのジョブ種別。
	JobTypeComputePolicy JobType = "compute_policy"
)

// ModelStage はMLモデルのステージを表す。
type ModelStage string

const (
	ModelStageProduction ModelStage = "Production"
	ModelStageStaging    ModelStage = "Staging"
	ModelStageNone       ModelStage = "None"
)

// Valid はステージが定義済みの値であるかを返す。
func (s ModelStage) Valid() bool {
	switch s {
	case ModelStageProduction, ModelStageStaging, ModelStageNone:
		return true
	}
	return false
}

// ForecastRecord は需要予測の読み取り専用プロジェクション。
// 数値列は精度を保つため文字列（10進表記）のまま転送する。
type ForecastRecord struct {
	SKUID         string `json:"sku_id"`
	LocationID    string `json:"location_id"`
	WeekStart     string `json:"horizon_week_start"`
	ForecastUnits string `json:"forecast_units"`
	BaselineUnits string `json:"baseline_units"`
	ResidualStd   string `json:"residual_std"`
	ModelName     string `json:"model_name"`
	ModelStage    string `json:"model_stage"`
	GeneratedAt   string `json:"generated_at"`
}

// RecommendationRecord は補充推奨の読み取り専用プロジェクション。
type RecommendationRecord struct {
	SKUID         string `json:"sku_id"`
	LocationID    string `json:"location_id"`
	WeekStart     string `json:"as_of_week_start"`
	LeadTimeWeeks int    `json:"lead_time_weeks"`
	ServiceLevel  string `json:"service_level"`
	ROPUnits      string `json:"rop_units"`
	OnHand        int    `json:"on_hand"`
	OnOrder       int    `json:"on_order"`
	OrderQty      int    `json:"order_qty"`
	MuLT          string `json:"mu_lt"`
	SigmaLT       string `json:"sigma_lt"`
	ZValue        string `json:"z_value"`
	ComputedAt    string `json:"computed_at"`
}
