package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	FullName    string
	Role        string
	JobTitle    string
	CompanyID   string
	CompanyName string
	Department  string
	Leader      string
	StartDate   string
	AvatarURL   string
	PTOTotal    string
	PTOTaken    string
	Skills      string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	FullName:    "fullname",
	Role:        "role",
	JobTitle:    "jobtitle",
	CompanyID:   "companyid",
	CompanyName: "companyname",
	Department:  "department",
	Leader:      "leader",
	StartDate:   "startdate",
	AvatarURL:   "avatarurl",
	PTOTotal:    "ptototal",
	PTOTaken:    "ptotaken",
	Skills:      "skills",
	LastLoginAt: "lastloginat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FullName, t.Role, t.JobTitle, t.CompanyID,
		t.CompanyName, t.Department, t.Leader, t.StartDate, t.AvatarURL,
		t.PTOTotal, t.PTOTaken, t.Skills, t.LastLoginAt, t.CreatedAt,
		t.UpdatedAt, t.DeletedAt,
	}
}

// Profile returns the columns hydrated into an account entity, in scan order.
func (t UserAccountTable) Profile() []string {
	return []string{
		t.ID, t.Email, t.Password, t.FullName, t.Role, t.JobTitle, t.CompanyID,
		t.CompanyName, t.Department, t.Leader, t.StartDate, t.AvatarURL,
		t.PTOTotal, t.PTOTaken, t.Skills, t.CreatedAt, t.UpdatedAt,
	}
}
