package catalog

import (
	"product-catalog/internal/validation"
)

// ProductRules validates product create and update payloads.
var ProductRules = validation.RuleSet{
	{Field: "name", Required: true, Type: validation.String, MinLength: validation.Len(2), MaxLength: validation.Len(100)},
	{Field: "description", Required: true, Type: validation.String, MinLength: validation.Len(10), MaxLength: validation.Len(500)},
	{Field: "price", Required: true, Type: validation.Number, Min: validation.Num(0), Max: validation.Num(1000000)},
	{Field: "category", Required: true, Type: validation.String, MinLength: validation.Len(2), MaxLength: validation.Len(50)},
	{Field: "inStock", Type: validation.Boolean, Default: true},
}

// createRequestFrom converts a validated create payload.
func createRequestFrom(in validation.Input) CreateProductRequest {
	in = validation.WithDefaults(ProductRules, in)
	var req CreateProductRequest
	req.Name, _ = stringField(in, "name")
	req.Description, _ = stringField(in, "description")
	req.Price, _ = numberField(in, "price")
	req.Category, _ = stringField(in, "category")
	req.InStock, _ = boolField(in, "inStock")
	return req
}

// updateRequestFrom converts a validated update payload; absent fields stay nil.
func updateRequestFrom(in validation.Input) UpdateProductRequest {
	var req UpdateProductRequest
	if s, ok := stringField(in, "name"); ok {
		req.Name = &s
	}
	if s, ok := stringField(in, "description"); ok {
		req.Description = &s
	}
	if f, ok := numberField(in, "price"); ok {
		req.Price = &f
	}
	if s, ok := stringField(in, "category"); ok {
		req.Category = &s
	}
	if b, ok := boolField(in, "inStock"); ok {
		req.InStock = &b
	}
	return req
}

func stringField(in validation.Input, name string) (string, bool) {
	v, _ := in.Get(name)
	s, ok := v.(string)
	return s, ok
}

func numberField(in validation.Input, name string) (float64, bool) {
	v, _ := in.Get(name)
	return validation.ToNumber(v)
}

func boolField(in validation.Input, name string) (bool, bool) {
	v, _ := in.Get(name)
	b, ok := v.(bool)
	return b, ok
}
