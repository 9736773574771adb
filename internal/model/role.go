// Package model はドメインモデルを定義する。
package model

import "time"

// Role はAPIの認可ロールを表す。viewerとoperatorの2種類のみ存在する。
type Role string

const (
	// RoleViewer は閲覧専用ロール。
	RoleViewer Role = "viewer"
	// RoleOperator は運用担当者ロール。
	RoleOperator Role = "operator"
)

// Valid はロールが定義済みの値であるかを返す。
func (r Role) Valid() bool {
	return r == RoleViewer || r == RoleOperator
}

// Claims は署名付きトークンに埋め込まれる認証情報。
// サーバー側には永続化されず、リクエストごとにトークンから復元される。
type Claims struct {
	Role      Role      `json:"role"`
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Credential はロールに紐づく固定の認証情報。
// プロセス起動時に設定から読み込み、以降イミュータブルとして扱う。
type Credential struct {
	Role     Role
	Username string
	Password string
}
