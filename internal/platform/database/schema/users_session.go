package schema

// UserSessionTable represents the 'users.session' table (login audit)
type UserSessionTable struct {
	Table     string
	ID        string
	UserID    string
	IPAddress string
	UserAgent string
	CreatedAt string
	EndedAt   string
	EndReason string
}

// UserSession is the schema definition for users.session
var UserSession = UserSessionTable{
	Table:     "users.session",
	ID:        "id",
	UserID:    "userid",
	IPAddress: "ipaddress",
	UserAgent: "useragent",
	CreatedAt: "createdat",
	EndedAt:   "endedat",
	EndReason: "endreason",
}

// Columns returns all standard column names
func (t UserSessionTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.IPAddress, t.UserAgent, t.CreatedAt, t.EndedAt, t.EndReason,
	}
}
