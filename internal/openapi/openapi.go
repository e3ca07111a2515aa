// Package openapi は tasks API の OpenAPI 3.0 ドキュメントを組み立てます。
package openapi

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"go-tasks-api/backend/internal/validation"
)

// OpenAPIVersion はドキュメントの openapi フィールドの値です。
const OpenAPIVersion = "3.0.0"

// nameSchema は validation.TaskRules の name 制約 (1..500文字) を表します。
func nameSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(500)
}

func objectSchema(props openapi3.Schemas, required ...string) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.Properties = props
	s.Required = required
	return s
}

func prop(s *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", s)
}

func withExample(s *openapi3.Schema, example any) *openapi3.Schema {
	s.Example = example
	return s
}

func schemas() openapi3.Schemas {
	issue := objectSchema(openapi3.Schemas{
		"code":    prop(openapi3.NewStringSchema()),
		"path":    prop(openapi3.NewArraySchema().WithItems(&openapi3.Schema{})),
		"message": prop(openapi3.NewStringSchema()),
	}, "code", "path", "message")

	patch := objectSchema(openapi3.Schemas{
		"name": prop(nameSchema()),
		"done": prop(openapi3.NewBoolSchema()),
	})
	patch.MinProps = 1

	return openapi3.Schemas{
		"Task": prop(objectSchema(openapi3.Schemas{
			"id":        prop(openapi3.NewIntegerSchema()),
			"name":      prop(openapi3.NewStringSchema()),
			"done":      prop(openapi3.NewBoolSchema()),
			"createdAt": prop(openapi3.NewDateTimeSchema()),
			"updatedAt": prop(openapi3.NewDateTimeSchema()),
		}, "id", "name", "done", "createdAt", "updatedAt")),
		"TaskInsert": prop(withExample(objectSchema(openapi3.Schemas{
			"name": prop(nameSchema()),
			"done": prop(openapi3.NewBoolSchema()),
		}, "name", "done"), map[string]any{"name": "Write the report", "done": false})),
		"TaskPatch": prop(patch),
		"NotFound": prop(objectSchema(openapi3.Schemas{
			"message": prop(withExample(openapi3.NewStringSchema(), http.StatusText(http.StatusNotFound))),
		}, "message")),
		"ValidationError": prop(objectSchema(openapi3.Schemas{
			"success": prop(withExample(openapi3.NewBoolSchema(), false)),
			"error": prop(objectSchema(openapi3.Schemas{
				"name":   prop(withExample(openapi3.NewStringSchema(), validation.ErrorName)),
				"issues": prop(openapi3.NewArraySchema().WithItems(issue)),
			}, "name", "issues")),
		}, "success", "error")),
	}
}

// ref はコンポーネントへの参照です。検証できるよう解決済みの値も持たせます。
func ref(components openapi3.Schemas, name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: components[name].Value}
}

func jsonResponse(desc string, s *openapi3.SchemaRef) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(s)}
}

func jsonBody(desc string, s *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithDescription(desc).WithRequired(true).WithJSONSchemaRef(s)}
}

func responses(byStatus map[int]*openapi3.ResponseRef) *openapi3.Responses {
	out := openapi3.NewResponsesWithCapacity(len(byStatus))
	for code, r := range byStatus {
		out.Set(strconv.Itoa(code), r)
	}
	return out
}

// NewDocument は /tasks 配下の5つの操作を記述したドキュメントを返します。
func NewDocument(version string) *openapi3.T {
	components := schemas()
	tags := []string{"Tasks"}
	idParam := openapi3.Parameters{{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewIntegerSchema())}}
	notFound := jsonResponse("Task not found", ref(components, "NotFound"))
	invalid := jsonResponse("The validation error(s)", ref(components, "ValidationError"))
	task := ref(components, "Task")

	paths := openapi3.NewPathsWithCapacity(2)
	paths.Set("/tasks", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags: tags, Summary: "List all tasks", OperationID: "listTasks",
			Responses: responses(map[int]*openapi3.ResponseRef{
				http.StatusOK: jsonResponse("The list of tasks", openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(task.Value))),
			}),
		},
		Post: &openapi3.Operation{
			Tags: tags, Summary: "Create a task", OperationID: "createTask",
			RequestBody: jsonBody("The task to create", ref(components, "TaskInsert")),
			Responses: responses(map[int]*openapi3.ResponseRef{
				http.StatusOK:                  jsonResponse("The created task", task),
				http.StatusUnprocessableEntity: invalid,
			}),
		},
	})
	paths.Set("/tasks/{id}", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags: tags, Summary: "Get one task", OperationID: "getTask", Parameters: idParam,
			Responses: responses(map[int]*openapi3.ResponseRef{
				http.StatusOK:                  jsonResponse("The requested task", task),
				http.StatusNotFound:            notFound,
				http.StatusUnprocessableEntity: invalid,
			}),
		},
		Patch: &openapi3.Operation{
			Tags: tags, Summary: "Update a task", OperationID: "patchTask", Parameters: idParam,
			RequestBody: jsonBody("The task updates", ref(components, "TaskPatch")),
			Responses: responses(map[int]*openapi3.ResponseRef{
				http.StatusOK:                  jsonResponse("The updated task", task),
				http.StatusNotFound:            notFound,
				http.StatusUnprocessableEntity: invalid,
			}),
		},
		Delete: &openapi3.Operation{
			Tags: tags, Summary: "Delete a task", OperationID: "removeTask", Parameters: idParam,
			Responses: responses(map[int]*openapi3.ResponseRef{
				http.StatusNoContent:           {Value: openapi3.NewResponse().WithDescription("Task deleted")},
				http.StatusNotFound:            notFound,
				http.StatusUnprocessableEntity: invalid,
			}),
		},
	})

	return &openapi3.T{
		OpenAPI:    OpenAPIVersion,
		Info:       &openapi3.Info{Title: "Tasks API", Version: version},
		Paths:      paths,
		Components: &openapi3.Components{Schemas: components},
	}
}
