package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
)

// ErrTrailingData は最初のJSON値の後に余分なデータがある場合のエラーです。
var ErrTrailingData = errors.New("unexpected data after top-level JSON value")

// NullIssues はボディをJSONオブジェクトとして読み、obj のフィールドに null が
// 渡された箇所を Issue として返します。null は「未指定」とは区別します。
// ボディがオブジェクトでない場合や、余分なデータが続く場合はエラーを返します。
func NullIssues(body []byte, obj any) ([]Issue, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	if fields == nil {
		return nil, NewError(Issue{Code: CodeInvalidType, Path: []any{}, Message: "Expected object, received null"})
	}

	var issues []Issue
	for _, f := range jsonFields(obj) {
		raw, ok := fields[f.name]
		if !ok || !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		issues = append(issues, Issue{
			Code:    CodeInvalidType,
			Path:    []any{f.name},
			Message: fmt.Sprintf("Expected %s, received null", kindName(f.typ)),
		})
	}
	return issues, nil
}

// WithNullIssues は null を受け取ったフィールドの Issue を bindErr に合成します。
// null のフィールドは未指定として検証されているため、同じパスの Issue と
// 空の更新の Issue は取り除きます。結果はフィールド順に並びます。
func WithNullIssues(obj any, bindErr error, nulls []Issue) error {
	if len(nulls) == 0 {
		return bindErr
	}
	if bindErr == nil {
		return NewError(nulls...)
	}
	var verr *Error
	if !errors.As(bindErr, &verr) {
		return bindErr
	}

	nullPaths := make(map[any]bool, len(nulls))
	for _, is := range nulls {
		nullPaths[is.Path[0]] = true
	}
	issues := append([]Issue{}, nulls...)
	for _, is := range verr.Issues {
		if is.Code == CodeInvalidUpdates {
			continue
		}
		if len(is.Path) > 0 && nullPaths[is.Path[0]] {
			continue
		}
		issues = append(issues, is)
	}

	order := make(map[any]int)
	for i, f := range jsonFields(obj) {
		order[f.name] = i
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issueOrder(order, issues[i]) < issueOrder(order, issues[j])
	})
	return NewError(issues...)
}

func issueOrder(order map[any]int, is Issue) int {
	if len(is.Path) == 0 {
		return len(order)
	}
	if n, ok := order[is.Path[0]]; ok {
		return n
	}
	return len(order)
}

type jsonField struct {
	name string
	typ  reflect.Type
}

func jsonFields(obj any) []jsonField {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	out := make([]jsonField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonFieldName(sf)
		if name == "" {
			continue
		}
		out = append(out, jsonField{name: name, typ: sf.Type})
	}
	return out
}
