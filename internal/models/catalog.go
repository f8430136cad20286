package models

// Category is a visible group of products on the products page
type Category struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription,omitempty"`
	Image           string   `json:"image,omitempty"`
	Media           []string `json:"media,omitempty"`
	Benefits        []string `json:"benefits,omitempty"`
	Applications    []string `json:"applications,omitempty"`
	HasSubProducts  bool     `json:"hasSubProducts"`
	FormID          string   `json:"formId,omitempty"`
	Order           int      `json:"order"`
	Visible         bool     `json:"visible"`
}

// Product belongs to a category
type Product struct {
	ID              string `json:"id"`
	Slug            string `json:"slug"`
	CategorySlug    string `json:"categorySlug"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	LongDescription string `json:"longDescription,omitempty"`
	Image           string `json:"image,omitempty"`
	FormID          string `json:"formId,omitempty"`
	Order           int    `json:"order"`
}

// InquiryFormID is the form definition a category dialog resolves
func (c *Category) InquiryFormID() string {
	if c.FormID != "" {
		return c.FormID
	}
	return c.Slug
}

// InquiryFormID is the form definition a product dialog resolves
func (p *Product) InquiryFormID() string {
	if p.FormID != "" {
		return p.FormID
	}
	if p.CategorySlug != "" {
		return p.CategorySlug
	}
	return p.Slug
}

// CatalogEntryType tells which kind of entry a slug resolved to
type CatalogEntryType string

const (
	CatalogEntryCategory CatalogEntryType = "category"
	CatalogEntryProduct  CatalogEntryType = "product"
)

// CatalogEntry is the result of a slug lookup: a category with its products,
// or a single product
type CatalogEntry struct {
	Type     CatalogEntryType `json:"type"`
	Category *Category        `json:"category,omitempty"`
	Product  *Product         `json:"product,omitempty"`
	Products []*Product       `json:"products,omitempty"`
}
