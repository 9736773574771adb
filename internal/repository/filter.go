package repository

import (
	"fmt"
	"strings"
)

// FilterSpec は一覧取得クエリの任意フィルタとページネーションを表す。
// リクエストごとに構築される一時的な値オブジェクトで、空文字列のフィールドは
// 「条件なし」を意味する（NULL比較ではなく、句そのものを生成しない）。
// LimitとOffsetは常に設定されていること（ハンドラー層でデフォルト適用済み）。
type FilterSpec struct {
	RunID      string
	SKUID      string
	LocationID string
	StartWeek  string // 週開始日の下限（YYYY-MM-DD、両端含む）
	EndWeek    string // 週開始日の上限（YYYY-MM-DD、両端含む）
	ModelName  string // forecastのみ
	ModelStage string // forecastのみ
	Limit      int
	Offset     int
}

// filterColumns はFilterSpecの各フィールドを実際の列参照に対応付ける。
// 空文字列の列はそのフィルタを受け付けないことを意味する。
// 列名はすべてコンパイル時定数であり、動的な値は決して連結されない。
type filterColumns struct {
	runID      string
	skuID      string
	locationID string
	week       string
	modelName  string
	modelStage string
}

// buildFilteredQuery はSELECT本体にWHERE句・ORDER BY句・LIMIT/OFFSETを付加した
// 完全なクエリ文字列とバインドパラメータ列を生成する。
//
// 存在するフィルタのみがANDで連結され、$Nプレースホルダは句の追加順に
// 採番される。パラメータ列は句の順序と正確に一致する。
// LIMITとOFFSETはフィルタ句の数に関わらず常に最後の2パラメータになる。
// すべての動的値はバインドパラメータとして渡される。
func buildFilteredQuery(selectSQL string, cols filterColumns, spec FilterSpec, orderBySQL string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	p := 1

	add := func(column, op string, value interface{}) {
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", column, op, p))
		args = append(args, value)
		p++
	}

	if spec.RunID != "" {
		add(cols.runID, "=", spec.RunID)
	}
	if spec.SKUID != "" {
		add(cols.skuID, "=", spec.SKUID)
	}
	if spec.LocationID != "" {
		add(cols.locationID, "=", spec.LocationID)
	}
	if spec.StartWeek != "" {
		add(cols.week, ">=", spec.StartWeek)
	}
	if spec.EndWeek != "" {
		add(cols.week, "<=", spec.EndWeek)
	}
	if spec.ModelName != "" && cols.modelName != "" {
		add(cols.modelName, "=", spec.ModelName)
	}
	if spec.ModelStage != "" && cols.modelStage != "" {
		add(cols.modelStage, "=", spec.ModelStage)
	}

	whereSQL := ""
	if len(clauses) > 0 {
		whereSQL = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := fmt.Sprintf("%s%s %s LIMIT $%d OFFSET $%d", selectSQL, whereSQL, orderBySQL, p, p+1)
	args = append(args, spec.Limit, spec.Offset)

	return query, args
}
