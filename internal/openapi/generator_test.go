package openapi

import (
	"encoding/json"
	"testing"
)

func TestGenerateJSON(t *testing.T) {
	doc := Generate("http://localhost:8000", "1.0.0")

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw struct {
		OpenAPI string                     `json:"openapi"`
		Info    map[string]any             `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.OpenAPI != "3.1.0" {
		t.Errorf("openapi = %q", raw.OpenAPI)
	}
	if raw.Info["title"] != "Sweet Shop API" || raw.Info["version"] != "1.0.0" {
		t.Errorf("info = %v", raw.Info)
	}
	if len(raw.Paths) != 8 {
		t.Errorf("paths = %d, want 8", len(raw.Paths))
	}
}

func TestGeneratePaths(t *testing.T) {
	doc := Generate("http://localhost:8000", "1.0.0")

	tests := []struct {
		path   string
		method string
		status string
		secure bool
	}{
		{"/api/v1/auth/register", "POST", "201", false},
		{"/api/v1/auth/login", "POST", "200", false},
		{"/api/v1/users/me", "GET", "200", true},
		{"/api/v1/sweets/", "GET", "200", true},
		{"/api/v1/sweets/", "POST", "201", true},
		{"/api/v1/sweets/search", "GET", "200", true},
		{"/api/v1/sweets/{id}", "GET", "200", true},
		{"/api/v1/sweets/{id}", "PUT", "200", true},
		{"/api/v1/sweets/{id}", "DELETE", "200", true},
		{"/api/v1/sweets/{id}/purchase", "POST", "200", true},
		{"/api/v1/sweets/{id}/restock", "POST", "200", true},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			item := doc.Paths.Value(tt.path)
			if item == nil {
				t.Fatalf("path %s missing", tt.path)
			}
			op := item.GetOperation(tt.method)
			if op == nil {
				t.Fatalf("%s %s missing", tt.method, tt.path)
			}
			if op.Responses.Value(tt.status) == nil {
				t.Errorf("missing %s response", tt.status)
			}
			if got := op.Security != nil; got != tt.secure {
				t.Errorf("secured = %v, want %v", got, tt.secure)
			}
			if tt.secure && op.Responses.Value("401") == nil {
				t.Error("secured operation must document 401")
			}
		})
	}
}

func TestAdminOperationsDocumentForbidden(t *testing.T) {
	doc := Generate("", "dev")
	restock := doc.Paths.Value("/api/v1/sweets/{id}/restock").Post
	if restock.Responses.Value("403") == nil {
		t.Error("restock should document 403")
	}
	purchase := doc.Paths.Value("/api/v1/sweets/{id}/purchase").Post
	if purchase.Responses.Value("403") != nil {
		t.Error("purchase is open to any account and should not document 403")
	}
}

func TestSweetSchemaConstraints(t *testing.T) {
	doc := Generate("", "dev")
	input := doc.Components.Schemas["SweetInput"].Value

	name := input.Properties["name"].Value
	if name.MinLength != 1 || name.MaxLength == nil || *name.MaxLength != 100 {
		t.Errorf("name length bounds = %d..%v", name.MinLength, name.MaxLength)
	}
	category := input.Properties["category"].Value
	if category.MaxLength == nil || *category.MaxLength != 50 {
		t.Errorf("category max length = %v", category.MaxLength)
	}
	qty := input.Properties["quantity"].Value
	if qty.Min == nil || *qty.Min != 0 {
		t.Errorf("quantity minimum = %v", qty.Min)
	}
	if qty.Max == nil || *qty.Max != 2147483647 {
		t.Errorf("quantity maximum = %v", qty.Max)
	}
	if len(input.Required) != 4 {
		t.Errorf("required = %v", input.Required)
	}

	if _, ok := doc.Components.Schemas["Account"].Value.Properties["hashed_password"]; ok {
		t.Error("account schema must not expose the password hash")
	}
	if len(doc.Components.Schemas["SweetUpdate"].Value.Required) != 0 {
		t.Error("update schema should have no required fields")
	}
}
