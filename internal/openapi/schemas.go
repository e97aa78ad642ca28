package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/sweetshop/sweetshop/internal/model"
)

func componentSchemas() openapi3.Schemas {
	return openapi3.Schemas{
		"Account": object(openapi3.Schemas{
			"id":         readOnly(int64Schema()),
			"email":      emailSchema(),
			"full_name":  stringSchema(),
			"is_active":  boolSchema(),
			"is_admin":   boolSchema(),
			"created_at": readOnly(dateTimeSchema()),
			"updated_at": nullable(dateTimeSchema()),
		}, "id", "email", "full_name", "is_active", "is_admin", "created_at"),

		"Registration": object(openapi3.Schemas{
			"email":     emailSchema(),
			"password":  writeOnly(stringSchema()),
			"full_name": stringSchema(),
		}, "email", "password", "full_name"),

		"Credentials": object(openapi3.Schemas{
			"email":    emailSchema(),
			"password": writeOnly(stringSchema()),
		}, "email", "password"),

		"Token": object(openapi3.Schemas{
			"access_token": stringSchema(),
			"token_type":   stringSchema(),
		}, "access_token", "token_type"),

		"Sweet": object(sweetProperties(true), "id", "name", "category", "price", "quantity", "created_at"),

		"SweetInput": object(sweetProperties(false), "name", "category", "price", "quantity"),

		"SweetUpdate": withDescription(
			object(sweetProperties(false)),
			"Partial update. Omitted fields keep their stored value."),

		"StockChange": object(openapi3.Schemas{
			"quantity": stockSchema(1),
		}, "quantity"),

		"InventoryResponse": object(openapi3.Schemas{
			"message":      stringSchema(),
			"sweet_id":     int64Schema(),
			"new_quantity": intSchema(),
		}, "message", "sweet_id", "new_quantity"),

		"Message": object(openapi3.Schemas{
			"message": stringSchema(),
		}, "message"),

		"ErrorResponse": object(openapi3.Schemas{
			"error": object(openapi3.Schemas{
				"code":    &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}},
				"message": stringSchema(),
				"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
			}, "code", "message"),
		}, "error"),
	}
}

func sweetProperties(stored bool) openapi3.Schemas {
	props := openapi3.Schemas{
		"name":        lengthBounded(stringSchema(), 1, 100),
		"description": nullable(stringSchema()),
		"category":    lengthBounded(stringSchema(), 1, 50),
		"price": withDescription(
			&openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "double"}},
			"Unit price, greater than 0."),
		"quantity":  stockSchema(0),
		"image_url": nullable(stringSchema()),
	}
	if stored {
		props["id"] = readOnly(int64Schema())
		props["created_at"] = readOnly(dateTimeSchema())
		props["updated_at"] = nullable(dateTimeSchema())
	}
	return props
}

func object(props openapi3.Schemas, required ...string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: props,
		Required:   required,
	}}
}

func stringSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}

func emailSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "email"}}
}

func dateTimeSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
}

func intSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}}
}

func int64Schema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}
}

func boolSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}
}

func readOnly(s *openapi3.SchemaRef) *openapi3.SchemaRef {
	s.Value.ReadOnly = true
	return s
}

func writeOnly(s *openapi3.SchemaRef) *openapi3.SchemaRef {
	s.Value.WriteOnly = true
	return s
}

func nullable(s *openapi3.SchemaRef) *openapi3.SchemaRef {
	s.Value.Nullable = true
	return s
}

func minimum(s *openapi3.SchemaRef, min float64) *openapi3.SchemaRef {
	s.Value.Min = float64Ptr(min)
	return s
}

// stockSchema is a quantity of at least min and at most model.MaxQuantity.
func stockSchema(min float64) *openapi3.SchemaRef {
	s := minimum(intSchema(), min)
	s.Value.Max = float64Ptr(model.MaxQuantity)
	return s
}

func lengthBounded(s *openapi3.SchemaRef, min, max uint64) *openapi3.SchemaRef {
	s.Value.MinLength = min
	s.Value.MaxLength = &max
	return s
}

func withDescription(s *openapi3.SchemaRef, desc string) *openapi3.SchemaRef {
	s.Value.Description = desc
	return s
}

func float64Ptr(v float64) *float64 {
	return &v
}
