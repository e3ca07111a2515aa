// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-tasks-api/backend/internal/models"
)

// ErrTaskNotFound はTaskが見つからない場合のエラーです。
var ErrTaskNotFound = errors.New("task not found")

// TaskStore はハンドラーがストア操作を行うための唯一の窓口です。
// 各メソッドは1回のストア呼び出しに対応し、呼び出し間で状態を持ちません。
type TaskStore interface {
	Insert(ctx context.Context, in *models.TaskInsert) (*models.Task, error)
	FindMany(ctx context.Context) ([]models.Task, error)
	FindOne(ctx context.Context, id int) (*models.Task, error)
	Update(ctx context.Context, id int, p *models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// TaskRepository は gorm を使った TaskStore の実装です。
type TaskRepository struct {
	DB *gorm.DB
}

var _ TaskStore = (*TaskRepository)(nil)

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// Insert は新しいTaskを挿入し、採番されたIDとタイムスタンプを含む行を返します。
func (r *TaskRepository) Insert(ctx context.Context, in *models.TaskInsert) (*models.Task, error) {
	t := in.Task()
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("could not insert task: %w", err)
	}
	return t, nil
}

// FindMany はすべてのTaskをID順に取得します。
func (r *TaskRepository) FindMany(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.DB.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	return tasks, nil
}

// FindOne は指定されたIDのTaskを取得します。
func (r *TaskRepository) FindOne(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return &t, nil
}

// Update は指定されたフィールドだけを更新し、更新後の行を返します。
// updated_at は gorm が現在時刻で再設定します。
// MySQL には RETURNING が無いため、更新と再取得を1つのトランザクションで行います。
func (r *TaskRepository) Update(ctx context.Context, id int, p *models.TaskPatch) (*models.Task, error) {
	var t models.Task
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).Where("id = ?", id).Updates(p.Updates())
		if result.Error != nil {
			return fmt.Errorf("could not update task: %w", result.Error)
		}
		// clientFoundRows により一致した行数が返る
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		if err := tx.Where("id = ?", id).Take(&t).Error; err != nil {
			return fmt.Errorf("could not reload task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete は指定されたIDのTaskを削除し、削除された行数を返します。
func (r *TaskRepository) Delete(ctx context.Context, id int) (int64, error) {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return 0, fmt.Errorf("could not delete task: %w", result.Error)
	}
	return result.RowsAffected, nil
}
