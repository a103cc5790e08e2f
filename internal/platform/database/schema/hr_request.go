package schema

// HRRequestTable represents the 'hr.request' table
type HRRequestTable struct {
	Table      string
	ID         string
	UserID     string
	CompanyID  string
	Type       string
	Status     string
	Details    string
	StartDate  string
	EndDate    string
	Days       string
	ReviewedBy string
	ReviewedAt string
	CreatedAt  string
	UpdatedAt  string
}

// HRRequest is the schema definition for hr.request
var HRRequest = HRRequestTable{
	Table:      "hr.request",
	ID:         "id",
	UserID:     "userid",
	CompanyID:  "companyid",
	Type:       "type",
	Status:     "status",
	Details:    "details",
	StartDate:  "startdate",
	EndDate:    "enddate",
	Days:       "days",
	ReviewedBy: "reviewedby",
	ReviewedAt: "reviewedat",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t HRRequestTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.CompanyID, t.Type, t.Status, t.Details, t.StartDate,
		t.EndDate, t.Days, t.ReviewedBy, t.ReviewedAt, t.CreatedAt, t.UpdatedAt,
	}
}
