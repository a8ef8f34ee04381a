package gate

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"biglibrary/internal/httpx"
	"biglibrary/internal/role"
)

// Prefix is where the gate is mounted; redirect locations are rewritten
// under it.
const Prefix = "/app"

type HTTPHandler struct{}

func NewHTTPHandler() *HTTPHandler {
	return &HTTPHandler{}
}

// Screen handles GET /app/*. It expects OptionalAuthMiddleware to have run.
func (h *HTTPHandler) Screen(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFrom(r)
	s := State{Authenticated: ok, IsAdmin: ok && p.Role == role.Admin}

	d := Decide(s, "/"+chi.URLParam(r, "*"))
	switch d.Kind {
	case Redirect:
		http.Redirect(w, r, Prefix+d.Location, http.StatusTemporaryRedirect)
	default:
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"screen": d.Screen})
	}
}
