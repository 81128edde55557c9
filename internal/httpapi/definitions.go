package httpapi

import "net/http"

// listDefinitions serves the palette: every registered block type with its
// default content and content schema.
func (a *API) listDefinitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.services.Registry.List())
}
