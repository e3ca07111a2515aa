// Package models はTaskを定義します。
package models

import (
	"time"
)

// Task は tasks テーブルの1行を表します。読み取り用の形はこの構造体そのものです。
type Task struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`               // 主キー (DBが採番)
	Name      string    `json:"name" gorm:"type:text;not null"`                   // タスク名
	Done      bool      `json:"done" gorm:"not null;default:false"`               // 完了状態
	CreatedAt time.Time `json:"createdAt" gorm:"type:datetime(3);autoCreateTime"` // 作成日時 (以後変更しない)
	UpdatedAt time.Time `json:"updatedAt" gorm:"type:datetime(3);autoUpdateTime"` // 更新日時 (更新ごとに再設定)
}

// TableName はテーブル名を固定します。
func (Task) TableName() string {
	return "tasks"
}

// TaskInsert は作成リクエストの形です。id とタイムスタンプはDB側で決まるため含みません。
// ルールは validation パッケージで Task のルールから導出されます。
type TaskInsert struct {
	Name *string `json:"name"`
	Done *bool   `json:"done"`
}

// Task は挿入する行を組み立てます。
func (in *TaskInsert) Task() *Task {
	t := &Task{}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Done != nil {
		t.Done = *in.Done
	}
	return t
}

// TaskPatch は部分更新リクエストの形です。すべてのフィールドが任意です。
type TaskPatch struct {
	Name *string `json:"name"`
	Done *bool   `json:"done"`
}

// Empty は更新対象のフィールドが1つも無いかどうかを返します。
func (p *TaskPatch) Empty() bool {
	return p.Name == nil && p.Done == nil
}

// Updates は指定されたフィールドだけをカラム名のマップで返します。
func (p *TaskPatch) Updates() map[string]interface{} {
	updates := make(map[string]interface{}, 2)
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Done != nil {
		updates["done"] = *p.Done
	}
	return updates
}
