package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-tasks-api/backend/internal/config"
	"go-tasks-api/backend/internal/database"
	"go-tasks-api/backend/internal/models"
	"go-tasks-api/backend/internal/repositories"
	"go-tasks-api/backend/internal/routes"
)

// SetupTestRouter はモックストアを注入したテスト用ルーターを返します。
// 戻り値の hook でログ出力を検証できます。
func SetupTestRouter(t *testing.T, store repositories.TaskStore) (*gin.Engine, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	return routes.NewTestRouter(store, logger), hook
}

// SetupTestDB はテスト用のMySQLに接続し、tasks テーブルを空の状態で用意します。
// TEST_DB_* が設定されていない場合はテストをスキップします。
func SetupTestDB(t *testing.T) (*gorm.DB, *repositories.TaskRepository) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	if os.Getenv("TEST_DB_HOST") == "" || os.Getenv("TEST_DB_NAME") == "" {
		t.Skip("TEST_DB_* is not set; skipping MySQL integration test")
	}

	// DSN は DB_* から組み立てるため、テスト用の値を差し替える
	for _, k := range []string{"USER", "PASS", "HOST", "PORT", "NAME"} {
		t.Setenv("DB_"+k, os.Getenv("TEST_DB_"+k))
	}
	dsn, err := config.DSN("")
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	db, err := database.InitDB(dsn, logger)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = database.Close(db) })

	// テストのたびにクリーンな状態にする
	require.NoError(t, db.Migrator().DropTable(&models.Task{}))
	require.NoError(t, database.Migrate(db))

	return db, repositories.NewTaskRepository(db)
}

// NewTask はモックが返すTaskを作成します。
func NewTask(id int, name string, done bool) *models.Task {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Task{ID: id, Name: name, Done: done, CreatedAt: now, UpdatedAt: now}
}

// DoJSON はJSONボディ付きのリクエストをルーターに送り、レスポンスを返します。
func DoJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

// ValidationResponse は 422 レスポンスのボディです。
type ValidationResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Name   string `json:"name"`
		Issues []struct {
			Code    string `json:"code"`
			Path    []any  `json:"path"`
			Message string `json:"message"`
		} `json:"issues"`
	} `json:"error"`
}

// DecodeValidation は 422 レスポンスをデコードし、Issue が1つ以上あることを確認します。
func DecodeValidation(t *testing.T, resp *httptest.ResponseRecorder) ValidationResponse {
	t.Helper()
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	var v ValidationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	require.NotEmpty(t, v.Error.Issues)
	return v
}

// Config はテストモードの設定を返します。
func Config() *config.Config {
	return &config.Config{AppEnv: config.EnvTest, Port: "0", LogLevel: log.DebugLevel, AllowOrigins: []string{"http://localhost:3000"}}
}
