package schema

// HRCompanyTable represents the 'hr.company' table
type HRCompanyTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Industry  string
	CreatedAt string
	UpdatedAt string
}

// HRCompany is the schema definition for hr.company
var HRCompany = HRCompanyTable{
	Table:     "hr.company",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Industry:  "industry",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t HRCompanyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Industry, t.CreatedAt, t.UpdatedAt}
}
