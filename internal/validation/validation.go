// Package validation はTaskの入力契約 (作成・部分更新) とリクエスト検証を提供します。
//
// 契約は TaskRules という1つのルール表から導出されます。
// 作成契約は全フィールド必須、更新契約は全フィールド任意です。
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"go-tasks-api/backend/internal/models"
)

// TaskRules はクライアントが設定できるTaskフィールドの基本ルールです。
// キーは構造体のフィールド名、値は validator のタグ表記です。
var TaskRules = map[string]string{
	"Name": "min=1,max=500",
	"Done": "",
}

// InsertRules は base の全フィールドを必須にしたルールを返します。
func InsertRules(base map[string]string) map[string]string {
	return withPrefix(base, "required")
}

// PatchRules は base の全フィールドを任意にしたルールを返します。
func PatchRules(base map[string]string) map[string]string {
	return withPrefix(base, "omitnil")
}

func withPrefix(base map[string]string, prefix string) map[string]string {
	out := make(map[string]string, len(base))
	for field, rule := range base {
		if rule == "" {
			out[field] = prefix
			continue
		}
		out[field] = prefix + "," + rule
	}
	return out
}

// Validator は gin の binding.StructValidator を満たす検証器です。
type Validator struct {
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
}

var defaultValidator = &Validator{}

// Default はプロセス共有の Validator を返します。
func Default() *Validator {
	return defaultValidator
}

// ValidateStruct は構造体 (またはそのポインタ) を検証し、失敗時は *Error を返します。
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	v.lazyinit()
	if err := v.validate.Struct(obj); err != nil {
		return v.translate(err)
	}
	return nil
}

// Engine は内部の *validator.Validate を返します。
func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.RegisterTagNameFunc(jsonFieldName)

		v.validate.RegisterStructValidationMapRules(InsertRules(TaskRules), models.TaskInsert{})
		v.validate.RegisterStructValidationMapRules(PatchRules(TaskRules), models.TaskPatch{})
		v.validate.RegisterStructValidation(requireUpdates, models.TaskPatch{})

		locale := en.New()
		v.trans, _ = ut.New(locale, locale).GetTranslator("en")
		registerMessages(v.validate, v.trans)
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// requireUpdates は更新フィールドが1つも無いパッチを拒否します。
func requireUpdates(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(models.TaskPatch)
	if ok && p.Empty() {
		sl.ReportError(nil, "", "", tagNoUpdates, "")
	}
}
