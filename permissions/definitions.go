package permissions

// Permission keys scoped to a single family tree. Owners implicitly hold all
// of them; collaborators receive a subset through their role.
const (
	TreeView   = "tree.view"
	TreeEdit   = "tree.edit"
	TreeImport = "tree.import"
	TreeManage = "tree.manage"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "tree.edit"
	Name        string `json:"name"`        // friendly name, e.g., "Edit Tree"
	Description string `json:"description"` // detailed description of what the permission allows
}

// RoleDefinition describes a collaborator role and the permissions it grants
type RoleDefinition struct {
	Key         string                 `json:"key"`  // role key, e.g., "editor"
	Name        string                 `json:"name"` // friendly name, e.g., "Editor"
	Description string                 `json:"description"`
	Permissions []PermissionDefinition `json:"permissions"`
}

var (
	permView = PermissionDefinition{
		Key:         TreeView,
		Name:        "View Tree",
		Description: "Allows viewing people, relationships and statistics of the tree.",
	}
	permEdit = PermissionDefinition{
		Key:         TreeEdit,
		Name:        "Edit Tree",
		Description: "Allows creating and editing people and relationships.",
	}
	permImport = PermissionDefinition{
		Key:         TreeImport,
		Name:        "Import GEDCOM",
		Description: "Allows importing GEDCOM files into the tree.",
	}
	permManage = PermissionDefinition{
		Key:         TreeManage,
		Name:        "Manage Collaborators",
		Description: "Allows inviting and removing collaborators.",
	}
)

// DefinedRoles holds all statically defined collaborator roles
var DefinedRoles = []RoleDefinition{
	{
		Key:         "viewer",
		Name:        "Viewer",
		Description: "Read-only access to the tree.",
		Permissions: []PermissionDefinition{permView},
	},
	{
		Key:         "editor",
		Name:        "Editor",
		Description: "Can view and modify tree contents, including imports.",
		Permissions: []PermissionDefinition{permView, permEdit, permImport},
	},
	{
		Key:         "admin",
		Name:        "Admin",
		Description: "Editor rights plus collaborator management. Cannot delete the tree.",
		Permissions: []PermissionDefinition{permView, permEdit, permImport, permManage},
	},
}

// RoleAllows reports whether the given role key grants the given permission key.
// Unknown roles grant nothing.
func RoleAllows(roleKey, permissionKey string) bool {
	for _, role := range DefinedRoles {
		if role.Key != roleKey {
			continue
		}
		for _, p := range role.Permissions {
			if p.Key == permissionKey {
				return true
			}
		}
	}
	return false
}

// GetAllPermissionKeys returns the keys of every defined permission.
func GetAllPermissionKeys() []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, role := range DefinedRoles {
		for _, p := range role.Permissions {
			if _, ok := seen[p.Key]; ok {
				continue
			}
			seen[p.Key] = struct{}{}
			keys = append(keys, p.Key)
		}
	}
	return keys
}
