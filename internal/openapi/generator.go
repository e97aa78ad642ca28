// Package openapi builds the OpenAPI document describing the HTTP API.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

const (
	bearerScheme = "bearerAuth"
	basePath     = "/api/v1"
)

// endpoint describes one operation of the API.
type endpoint struct {
	method      string
	path        string
	id          string
	summary     string
	tag         string
	auth        access
	params      openapi3.Parameters
	body        string // component schema name of the request body
	status      string
	response    *openapi3.SchemaRef
	errorStatus []string
}

type access int

const (
	public access = iota
	authenticated
	adminOnly
)

// Generate returns the OpenAPI 3.1 document for the sweet shop API served at
// baseURL.
func Generate(baseURL, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Sweet Shop API",
			Description: "Inventory and account service for the sweet shop catalog.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = componentSchemas()
	components.SecuritySchemes = openapi3.SecuritySchemes{
		bearerScheme: &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
			},
		},
	}
	doc.Components = &components
	doc.Paths = openapi3.NewPaths()

	for _, ep := range endpoints() {
		addOperation(doc, ep)
	}
	return doc
}

func endpoints() []endpoint {
	sweetRef := ref("Sweet")
	sweetList := &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:  &openapi3.Types{"array"},
		Items: sweetRef,
	}}

	return []endpoint{
		{
			method: "POST", path: "/auth/register", id: "register", tag: "auth",
			summary: "Register a new account", body: "Registration",
			status: "201", response: ref("Account"), errorStatus: []string{"400", "422"},
		},
		{
			method: "POST", path: "/auth/login", id: "login", tag: "auth",
			summary: "Exchange credentials for an access token", body: "Credentials",
			status: "200", response: ref("Token"), errorStatus: []string{"400", "401", "422", "429"},
		},
		{
			method: "GET", path: "/users/me", id: "getCurrentUser", tag: "users",
			summary: "Return the authenticated account", auth: authenticated,
			status: "200", response: ref("Account"),
		},
		{
			method: "POST", path: "/sweets/", id: "createSweet", tag: "sweets",
			summary: "Add a sweet to the catalog", auth: adminOnly, body: "SweetInput",
			status: "201", response: sweetRef, errorStatus: []string{"422"},
		},
		{
			method: "GET", path: "/sweets/", id: "listSweets", tag: "sweets",
			summary: "List the catalog", auth: authenticated, params: pageParameters(),
			status: "200", response: sweetList,
		},
		{
			method: "GET", path: "/sweets/search", id: "searchSweets", tag: "sweets",
			summary: "Search the catalog", auth: authenticated,
			params: append(searchParameters(), pageParameters()...),
			status: "200", response: sweetList, errorStatus: []string{"422"},
		},
		{
			method: "GET", path: "/sweets/{id}", id: "getSweet", tag: "sweets",
			summary: "Get a sweet by ID", auth: authenticated, params: idParameter(),
			status: "200", response: sweetRef, errorStatus: []string{"404"},
		},
		{
			method: "PUT", path: "/sweets/{id}", id: "updateSweet", tag: "sweets",
			summary: "Update the given fields of a sweet", auth: adminOnly, params: idParameter(),
			body: "SweetUpdate", status: "200", response: sweetRef, errorStatus: []string{"404", "422"},
		},
		{
			method: "DELETE", path: "/sweets/{id}", id: "deleteSweet", tag: "sweets",
			summary: "Remove a sweet from the catalog", auth: adminOnly, params: idParameter(),
			status: "200", response: sweetRef, errorStatus: []string{"404"},
		},
		{
			method: "POST", path: "/sweets/{id}/purchase", id: "purchaseSweet", tag: "inventory",
			summary: "Purchase units of a sweet", auth: authenticated, params: idParameter(),
			body: "StockChange", status: "200", response: ref("InventoryResponse"),
			errorStatus: []string{"400", "404", "422"},
		},
		{
			method: "POST", path: "/sweets/{id}/restock", id: "restockSweet", tag: "inventory",
			summary: "Restock units of a sweet", auth: adminOnly, params: idParameter(),
			body: "StockChange", status: "200", response: ref("InventoryResponse"),
			errorStatus: []string{"404", "422"},
		},
	}
}

func addOperation(doc *openapi3.T, ep endpoint) {
	op := &openapi3.Operation{
		Tags:        []string{ep.tag},
		Summary:     ep.summary,
		OperationID: ep.id,
		Parameters:  ep.params,
		Responses:   newResponses(ep),
	}
	if ep.body != "" {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content:  openapi3.NewContentWithJSONSchemaRef(ref(ep.body)),
			},
		}
	}
	if ep.auth != public {
		op.Security = &openapi3.SecurityRequirements{{bearerScheme: {}}}
	}

	path := basePath + ep.path
	item := doc.Paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		doc.Paths.Set(path, item)
	}
	item.SetOperation(ep.method, op)
}

// newResponses builds the success response of ep plus its error responses.
// Secured operations always document 401, admin operations 403.
func newResponses(ep endpoint) *openapi3.Responses {
	responses := openapi3.NewResponses()

	desc := ep.summary
	responses.Set(ep.status, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &desc,
			Content:     openapi3.NewContentWithJSONSchemaRef(ep.response),
		},
	})

	codes := append([]string(nil), ep.errorStatus...)
	if ep.auth != public {
		codes = append(codes, "401")
	}
	if ep.auth == adminOnly {
		codes = append(codes, "403")
	}
	codes = append(codes, "500")

	errorRef := ref("ErrorResponse")
	for _, code := range codes {
		d := errorDescriptions[code]
		responses.Set(code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &d,
				Content:     openapi3.NewContentWithJSONSchemaRef(errorRef),
			},
		})
	}
	return responses
}

var errorDescriptions = map[string]string{
	"400": "Bad request",
	"401": "Unauthorized",
	"403": "Forbidden",
	"404": "Not found",
	"422": "Validation error",
	"429": "Too many requests",
	"500": "Internal server error",
}

func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func idParameter() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewPathParameter("id").
				WithDescription("Sweet ID.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}),
		},
	}
}

func pageParameters() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("skip").
				WithDescription("Number of records to skip.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32", Default: 0}),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("limit").
				WithDescription("Maximum number of records to return (0 to 100). Zero returns an empty page.").
				WithSchema(&openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32", Default: 100}),
		},
	}
}

func searchParameters() openapi3.Parameters {
	number := func() *openapi3.Schema {
		return &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "double", Min: float64Ptr(0)}
	}
	return openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("name").
				WithDescription("Case-insensitive substring of the name.").
				WithSchema(openapi3.NewStringSchema()),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("category").
				WithDescription("Case-insensitive substring of the category.").
				WithSchema(openapi3.NewStringSchema()),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("min_price").
				WithDescription("Inclusive lower price bound.").
				WithSchema(number()),
		},
		&openapi3.ParameterRef{
			Value: openapi3.NewQueryParameter("max_price").
				WithDescription("Inclusive upper price bound.").
				WithSchema(number()),
		},
	}
}
