package directory

// ConsoleUsers are the development accounts of the admin console.
func ConsoleUsers() []User {
	return []User{
		{ID: "1", Email: "admin@example.com", Password: "admin123", DisplayName: "Admin User", Roles: []string{"admin"}, AvatarURL: "https://randomuser.me/api/portraits/men/1.jpg"},
		{ID: "2", Email: "manager@example.com", Password: "manager123", DisplayName: "Manager User", Roles: []string{"manager"}, AvatarURL: "https://randomuser.me/api/portraits/women/2.jpg"},
		{ID: "3", Email: "user@example.com", Password: "user123", DisplayName: "Regular User", Roles: []string{"user"}, AvatarURL: "https://randomuser.me/api/portraits/men/3.jpg"},
	}
}

// Seed adds [ConsoleUsers] to m.
func (m *Memory) Seed() error {
	for _, u := range ConsoleUsers() {
		if _, err := m.Add(u); err != nil {
			return err
		}
	}
	return nil
}
