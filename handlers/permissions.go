package handlers

import (
	"net/http"

	"github.com/chifamba/dzinza-sub003/permissions"
)

// ListRoles returns the statically defined collaborator roles and the
// permissions each grants, for frontend role pickers.
func ListRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedRoles)
}

// ListPermissions returns every defined permission key.
func ListPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"permissions": permissions.GetAllPermissionKeys()})
}
