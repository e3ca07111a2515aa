package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tasks-api/backend/internal/models"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func firstIssue(t *testing.T, err error) Issue {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %T: %v", err, err)
	require.NotEmpty(t, verr.Issues)
	assert.Equal(t, ErrorName, verr.Name)
	return verr.Issues[0]
}

func TestDerivedRules(t *testing.T) {
	insert := InsertRules(TaskRules)
	assert.Equal(t, "required,min=1,max=500", insert["Name"])
	assert.Equal(t, "required", insert["Done"])

	patch := PatchRules(TaskRules)
	assert.Equal(t, "omitnil,min=1,max=500", patch["Name"])
	assert.Equal(t, "omitnil", patch["Done"])

	// 元のルール表は変更されない
	assert.Equal(t, "min=1,max=500", TaskRules["Name"])
	assert.Equal(t, "", TaskRules["Done"])
}

func TestValidateStruct_Insert(t *testing.T) {
	v := Default()

	t.Run("valid payload", func(t *testing.T) {
		err := v.ValidateStruct(&models.TaskInsert{Name: strPtr("Write the report"), Done: boolPtr(false)})
		assert.NoError(t, err)
	})

	t.Run("missing name", func(t *testing.T) {
		issue := firstIssue(t, v.ValidateStruct(&models.TaskInsert{Done: boolPtr(false)}))
		assert.Equal(t, []any{"name"}, issue.Path)
		assert.Equal(t, MessageRequired, issue.Message)
		assert.Equal(t, CodeInvalidType, issue.Code)
	})

	t.Run("missing done", func(t *testing.T) {
		issue := firstIssue(t, v.ValidateStruct(&models.TaskInsert{Name: strPtr("x")}))
		assert.Equal(t, []any{"done"}, issue.Path)
		assert.Equal(t, MessageRequired, issue.Message)
	})

	t.Run("empty name", func(t *testing.T) {
		issue := firstIssue(t, v.ValidateStruct(&models.TaskInsert{Name: strPtr(""), Done: boolPtr(true)}))
		assert.Equal(t, []any{"name"}, issue.Path)
		assert.Equal(t, CodeTooSmall, issue.Code)
		assert.Equal(t, "String must contain at least 1 character(s)", issue.Message)
	})

	t.Run("name too long", func(t *testing.T) {
		issue := firstIssue(t, v.ValidateStruct(&models.TaskInsert{Name: strPtr(strings.Repeat("a", 501)), Done: boolPtr(true)}))
		assert.Equal(t, CodeTooBig, issue.Code)
		assert.Equal(t, "String must contain at most 500 character(s)", issue.Message)
	})

	t.Run("name of exactly 500 characters", func(t *testing.T) {
		err := v.ValidateStruct(&models.TaskInsert{Name: strPtr(strings.Repeat("a", 500)), Done: boolPtr(true)})
		assert.NoError(t, err)
	})
}

func TestValidateStruct_Patch(t *testing.T) {
	v := Default()

	t.Run("single field", func(t *testing.T) {
		assert.NoError(t, v.ValidateStruct(&models.TaskPatch{Done: boolPtr(true)}))
		assert.NoError(t, v.ValidateStruct(&models.TaskPatch{Name: strPtr("renamed")}))
	})

	t.Run("empty name", func(t *testing.T) {
		issue := firstIssue(t, v.ValidateStruct(&models.TaskPatch{Name: strPtr("")}))
		assert.Equal(t, []any{"name"}, issue.Path)
		assert.Equal(t, CodeTooSmall, issue.Code)
	})

	t.Run("no updates", func(t *testing.T) {
		issue := firstIssue(t, v.ValidateStruct(&models.TaskPatch{}))
		assert.Equal(t, CodeInvalidUpdates, issue.Code)
		assert.Equal(t, MessageNoUpdates, issue.Message)
		assert.Empty(t, issue.Path)
	})
}

func TestValidateStruct_IgnoresNonStructs(t *testing.T) {
	v := Default()
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct([]int{1}))
	var p *models.TaskPatch
	assert.NoError(t, v.ValidateStruct(p))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	// 整数として表せないIDは数値でも受け付けない
	for _, raw := range []string{"wat", "", "1.5", "99999999999999999999"} {
		_, err := ParseID(raw)
		issue := firstIssue(t, err)
		assert.Equal(t, []any{"id"}, issue.Path, raw)
		assert.Equal(t, MessageExpectedNumber, issue.Message, raw)
	}
}

func TestNullIssues(t *testing.T) {
	issues, err := NullIssues([]byte(`{"name": null, "done": true, "extra": null}`), &models.TaskPatch{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, Issue{Code: CodeInvalidType, Path: []any{"name"}, Message: "Expected string, received null"}, issues[0])

	issues, err = NullIssues([]byte(`{"done": false}`), &models.TaskPatch{})
	require.NoError(t, err)
	assert.Empty(t, issues)

	_, err = NullIssues([]byte(`{"done": false} {}`), &models.TaskPatch{})
	assert.ErrorIs(t, err, ErrTrailingData)
	assert.Equal(t, MessageMalformedJSON, FromBindError(err).Issues[0].Message)

	_, err = NullIssues([]byte(`[1]`), &models.TaskPatch{})
	assert.Equal(t, "Expected object, received array", firstIssue(t, FromBindError(err)).Message)
}

func TestWithNullIssues(t *testing.T) {
	nulls := []Issue{{Code: CodeInvalidType, Path: []any{"done"}, Message: "Expected boolean, received null"}}

	assert.NoError(t, WithNullIssues(&models.TaskPatch{}, nil, nil))

	err := WithNullIssues(&models.TaskPatch{}, nil, nulls)
	assert.Equal(t, nulls, err.(*Error).Issues)

	// 未指定として検証された done の Issue は null の Issue に置き換わる
	bindErr := NewError(
		Issue{Code: CodeInvalidType, Path: []any{"done"}, Message: MessageRequired},
		Issue{Code: CodeTooSmall, Path: []any{"name"}, Message: "String must contain at least 1 character(s)"},
	)
	err = WithNullIssues(&models.TaskInsert{}, bindErr, nulls)
	issues := err.(*Error).Issues
	require.Len(t, issues, 2)
	assert.Equal(t, CodeTooSmall, issues[0].Code)
	assert.Equal(t, nulls[0], issues[1])

	// 空の更新の Issue は null の Issue があれば報告しない
	err = WithNullIssues(&models.TaskPatch{}, NewError(Issue{Code: CodeInvalidUpdates, Path: []any{}, Message: MessageNoUpdates}), nulls)
	assert.Equal(t, nulls, err.(*Error).Issues)

	plain := errors.New("boom")
	assert.Same(t, plain, WithNullIssues(&models.TaskPatch{}, plain, nulls))
}

func TestFromBindError(t *testing.T) {
	t.Run("wrong JSON type", func(t *testing.T) {
		var in models.TaskInsert
		err := json.Unmarshal([]byte(`{"name": 5, "done": false}`), &in)
		require.Error(t, err)

		verr := FromBindError(err)
		require.Len(t, verr.Issues, 1)
		assert.Equal(t, []any{"name"}, verr.Issues[0].Path)
		assert.Equal(t, CodeInvalidType, verr.Issues[0].Code)
		assert.Equal(t, "Expected string, received number", verr.Issues[0].Message)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		var in models.TaskInsert
		err := json.Unmarshal([]byte(`{"name":`), &in)
		require.Error(t, err)

		verr := FromBindError(err)
		assert.Equal(t, MessageMalformedJSON, verr.Issues[0].Message)
	})

	t.Run("validation error passes through", func(t *testing.T) {
		orig := NewError(Issue{Code: CodeTooSmall, Path: []any{"name"}, Message: "x"})
		assert.Same(t, orig, FromBindError(orig))
	})
}
