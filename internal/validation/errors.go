package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// エラーコード
const (
	CodeInvalidType    = "invalid_type"
	CodeTooSmall       = "too_small"
	CodeTooBig         = "too_big"
	CodeInvalidUpdates = "invalid_updates"
	CodeCustom         = "custom"
)

// エラーメッセージ
const (
	MessageRequired       = "Required"
	MessageExpectedNumber = "Expected number, received nan"
	MessageNoUpdates      = "No updates provided"
	MessageMalformedJSON  = "Malformed JSON in request body"
)

const tagNoUpdates = "no_updates"

// ErrorName はレスポンスの error.name に入る値です。
const ErrorName = "ValidationError"

// Issue は1つの検証失敗です。
type Issue struct {
	Code    string `json:"code"`
	Path    []any  `json:"path"`
	Message string `json:"message"`
}

// Error は検証失敗の一覧です。呼び出し側は最初の Issue で分岐します。
type Error struct {
	Name   string  `json:"name"`
	Issues []Issue `json:"issues"`
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	first := e.Issues[0]
	return fmt.Sprintf("validation failed at %v: %s (%s)", first.Path, first.Message, first.Code)
}

// NewError は Issue から *Error を作成します。
func NewError(issues ...Issue) *Error {
	return &Error{Name: ErrorName, Issues: issues}
}

var tagCodes = map[string]string{
	"required":   CodeInvalidType,
	"min":        CodeTooSmall,
	"max":        CodeTooBig,
	tagNoUpdates: CodeInvalidUpdates,
}

func registerMessages(v *validator.Validate, trans ut.Translator) {
	messages := map[string]string{
		"required":   MessageRequired,
		"min":        "String must contain at least {0} character(s)",
		"max":        "String must contain at most {0} character(s)",
		tagNoUpdates: MessageNoUpdates,
	}
	for tag, text := range messages {
		tag, text := tag, text
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error {
				return t.Add(tag, text, true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, err := t.T(fe.Tag(), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
	}
}

func (v *Validator) translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = CodeCustom
		}
		path := []any{}
		if fe.Field() != "" {
			path = append(path, fe.Field())
		}
		issues = append(issues, Issue{Code: code, Path: path, Message: fe.Translate(v.trans)})
	}
	return NewError(issues...)
}

// FromBindError はボディのバインドで発生したエラーを *Error に変換します。
// 検証エラーはそのまま、JSONの型不一致や構文エラーは Issue に変換します。
func FromBindError(err error) *Error {
	var verr *Error
	if errors.As(err, &verr) {
		return verr
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := []any{}
		if typeErr.Field != "" {
			for _, seg := range strings.Split(typeErr.Field, ".") {
				path = append(path, seg)
			}
		}
		return NewError(Issue{
			Code:    CodeInvalidType,
			Path:    path,
			Message: fmt.Sprintf("Expected %s, received %s", kindName(typeErr.Type), valueName(typeErr.Value)),
		})
	}

	return NewError(Issue{Code: CodeInvalidType, Path: []any{}, Message: MessageMalformedJSON})
}

// ParseID はパスパラメータ id を整数として解釈します。
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewError(Issue{Code: CodeInvalidType, Path: []any{"id"}, Message: MessageExpectedNumber})
	}
	return id, nil
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

func valueName(v string) string {
	switch {
	case v == "bool":
		return "boolean"
	case strings.HasPrefix(v, "number"):
		return "number"
	default:
		return v
	}
}
