package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	log "github.com/sirupsen/logrus"

	"go-tasks-api/backend/internal/models"
	"go-tasks-api/backend/internal/repositories"
	"go-tasks-api/backend/internal/validation"
)

// StoreKey はリクエストコンテキストにストアを保存するキーです。
const StoreKey = "db"

// errNoStore はミドルウェアがストアを設定していない場合のエラーです。
var errNoStore = errors.New("task store not found in request context")

// StoreFrom はリクエストコンテキストからストアを取り出します。
func StoreFrom(c *gin.Context) (repositories.TaskStore, bool) {
	v, ok := c.Get(StoreKey)
	if !ok {
		return nil, false
	}
	store, ok := v.(repositories.TaskStore)
	return store, ok
}

// TaskHandler はTask関連のハンドラーを管理します。
type TaskHandler struct {
	log *log.Logger
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(logger *log.Logger) *TaskHandler {
	return &TaskHandler{log: logger}
}

// List はすべてのTaskを返します。
func (h *TaskHandler) List(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	tasks, err := store.FindMany(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// Create は新しいTaskを作成します。
func (h *TaskHandler) Create(c *gin.Context) {
	var in models.TaskInsert
	if err := bindJSON(c, &in); err != nil {
		unprocessable(c, validation.FromBindError(err))
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}
	created, err := store.Insert(c.Request.Context(), &in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.log.WithField("task_id", created.ID).Debug("task created")
	c.JSON(http.StatusOK, created)
}

// GetOne は指定IDのTaskを返します。
func (h *TaskHandler) GetOne(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		unprocessable(c, validation.FromBindError(err))
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}
	task, err := store.FindOne(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			notFound(c)
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Patch は指定IDのTaskを部分更新します。
func (h *TaskHandler) Patch(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		unprocessable(c, validation.FromBindError(err))
		return
	}
	var p models.TaskPatch
	if err := bindJSON(c, &p); err != nil {
		unprocessable(c, validation.FromBindError(err))
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}
	updated, err := store.Update(c.Request.Context(), id, &p)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			notFound(c)
			return
		}
		_ = c.Error(err)
		return
	}
	h.log.WithField("task_id", id).Debug("task updated")
	c.JSON(http.StatusOK, updated)
}

// Remove は指定IDのTaskを削除します。
func (h *TaskHandler) Remove(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		unprocessable(c, validation.FromBindError(err))
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}
	n, err := store.Delete(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if n == 0 {
		notFound(c)
		return
	}
	h.log.WithField("task_id", id).Debug("task deleted")
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) store(c *gin.Context) (repositories.TaskStore, bool) {
	store, ok := StoreFrom(c)
	if !ok {
		_ = c.Error(errNoStore)
	}
	return store, ok
}

// bindJSON はボディをバインドして検証します。空のボディは空オブジェクトとして検証します。
// null は未指定とは区別し、型の誤りとして報告します。
func bindJSON(c *gin.Context, obj any) error {
	var body []byte
	if c.Request.Body != nil {
		b, err := c.GetRawData()
		if err != nil {
			return err
		}
		body = b
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return binding.Validator.ValidateStruct(obj)
	}

	nulls, err := validation.NullIssues(body, obj)
	if err != nil {
		return err
	}
	return validation.WithNullIssues(obj, binding.JSON.BindBody(body, obj), nulls)
}

func unprocessable(c *gin.Context, verr *validation.Error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": verr})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": http.StatusText(http.StatusNotFound)})
}
