package domain

import "strings"

// ProductRecord represents one catalog entry as normalized from the
// Airtable-backed product table.
type ProductRecord struct {
	ProductID        string   `json:"productId,omitempty"`
	ProductName      string   `json:"productName"`
	Brand            string   `json:"brand,omitempty"`
	ParentCompany    string   `json:"parentCompany,omitempty"`
	ParentCountry    string   `json:"parentCountry,omitempty"`
	Category         string   `json:"category,omitempty"`
	Subcategory      string   `json:"subcategory,omitempty"`
	Attributes       string   `json:"attributes,omitempty"` // comma-separated tags
	Ownership        string   `json:"ownership,omitempty"`
	FSSAILicensed    bool     `json:"fssaiLicensed"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	AlternativeNames []string `json:"alternativeNames,omitempty"` // up to 3 raw names
}

// Displayable reports whether the record carries enough identity to render.
func (p *ProductRecord) Displayable() bool {
	return p.ProductName != "" || p.ProductID != ""
}

// Domestic reports whether the record's ownership text or parent country
// mentions India (case-insensitive substring test).
func (p *ProductRecord) Domestic() bool {
	return strings.Contains(strings.ToLower(p.Ownership), "india") ||
		strings.Contains(strings.ToLower(p.ParentCountry), "india")
}

// AttributeTags splits the comma-separated attribute string into trimmed,
// lowercased tags. Empty segments are dropped.
func (p *ProductRecord) AttributeTags() []string {
	if p.Attributes == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(p.Attributes, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// AlternativeCandidate is a product offered as a domestic substitute.
// Resolved candidates carry a full catalog record; raw names with no
// catalog match are synthesized as stubs so the caller can still render
// a label.
type AlternativeCandidate struct {
	Product ProductRecord `json:"product"`
	Score   int           `json:"score"`
	Stub    bool          `json:"stub"` // no catalog match was found
}
