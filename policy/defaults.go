package policy

// Well-known console paths.
const (
	LoginPath        = "/login"
	AccessDeniedPath = "/access-denied"
)

// DefaultRoutes returns the admin console routes. Menu entries keep the
// order of the sidebar.
func DefaultRoutes() []Requirement {
	return []Requirement{
		{Path: LoginPath, Public: true},
		{Path: AccessDeniedPath, Public: true},
		{Path: HomePath, Title: "Dashboard", Icon: "dashboard"},
		{Path: "/employees", Title: "Employés", Icon: "people", RequiredRoles: []string{RoleAdmin, RoleManager}},
		{Path: "/emails", Title: "Emails", Icon: "email", RequiredRoles: []string{RoleAdmin, RoleUser}},
		{Path: "/files", Title: "Fichiers", Icon: "folder", RequiredRoles: []string{RoleAdmin, RoleUser}},
		{Path: "/settings", Title: "Paramètres", Icon: "settings", RequiredRoles: []string{RoleAdmin}},
	}
}

// DefaultTable returns a frozen table of [DefaultRoutes].
func DefaultTable() *Table {
	roles, err := NewRoleSet(RoleAdmin, RoleManager, RoleUser)
	if err != nil {
		panic(err)
	}
	roles.Freeze()

	t := NewTable(roles)
	for _, req := range DefaultRoutes() {
		if err := t.Register(req); err != nil {
			panic(err)
		}
	}
	t.Freeze()
	return t
}
