package airtable

import (
	"strings"

	"github.com/switchtoindia/backend/internal/domain"
	"github.com/tidwall/gjson"
)

// MapRecord normalizes one raw Airtable record into a ProductRecord.
// Records may carry their values at the top level (proxy-normalized) or
// nested under "fields" (raw Airtable shape). Field values can be
// strings, numbers, booleans, or arrays/linked records; everything is
// flattened to its display string before reaching the core.
func MapRecord(rec gjson.Result) domain.ProductRecord {
	fields := rec.Get("fields")
	if !fields.Exists() || !fields.IsObject() {
		fields = rec
	}

	product := domain.ProductRecord{
		ProductID:     fieldString(fields, "ProductID", "productId"),
		ProductName:   fieldString(fields, "ProductName", "productName"),
		Brand:         fieldString(fields, "Brand", "brand"),
		ParentCompany: fieldString(fields, "ParentCompany", "parentCompany"),
		ParentCountry: fieldString(fields, "ParentCountry", "parentCountry"),
		Category:      fieldString(fields, "Category", "category"),
		Subcategory:   fieldString(fields, "Subcategory", "subcategory"),
		Attributes:    fieldString(fields, "Attributes", "attributes"),
		Ownership:     fieldString(fields, "Ownership", "ownership"),
		FSSAILicensed: fieldBool(fields, "FSSAILicensed", "fssaiLicensed"),
		ImageURL:      fieldString(fields, "ImageURL", "imageUrl"),
	}

	for _, key := range []string{"Alternative1", "Alternative2", "Alternative3"} {
		if alt := fieldString(fields, key); alt != "" {
			product.AlternativeNames = append(product.AlternativeNames, alt)
		}
	}

	return product
}

// fieldString returns the display string of the first present field
// among the given names. Arrays and linked-record objects are flattened
// to their first display value.
func fieldString(fields gjson.Result, names ...string) string {
	for _, name := range names {
		value := fields.Get(name)
		if !value.Exists() {
			continue
		}
		if s := displayString(value); s != "" {
			return s
		}
	}
	return ""
}

// displayString flattens a heterogeneous Airtable value to a string.
func displayString(value gjson.Result) string {
	switch {
	case value.IsArray():
		for _, elem := range value.Array() {
			if s := displayString(elem); s != "" {
				return s
			}
		}
		return ""
	case value.IsObject():
		// Linked records and attachments carry a display name or URL.
		if name := value.Get("name"); name.Exists() {
			return strings.TrimSpace(name.String())
		}
		if u := value.Get("url"); u.Exists() {
			return strings.TrimSpace(u.String())
		}
		return ""
	case value.Type == gjson.Null:
		return ""
	default:
		return strings.TrimSpace(value.String())
	}
}

// fieldBool coerces the heterogeneous truthy encodings used for the
// FSSAI flag: a real boolean, or a string in {"yes","y","true","1"}.
func fieldBool(fields gjson.Result, names ...string) bool {
	for _, name := range names {
		value := fields.Get(name)
		if !value.Exists() {
			continue
		}
		switch value.Type {
		case gjson.True:
			return true
		case gjson.False:
			return false
		default:
			return coerceBool(value.String())
		}
	}
	return false
}

// coerceBool applies the string side of the truthy-encoding rule.
func coerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
