package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/trailblaze/booking-api/internal/auth"
	"github.com/trailblaze/booking-api/internal/domain"
)

// bookingTokenHeader carries the possession token returned when a booking is created.
const bookingTokenHeader = "X-Booking-Token"

// pathID binds the {id} path parameter. It writes a 400 and reports false
// when the value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id <= 0 {
		writeBadRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// pageParams binds the optional ?page and ?limit query parameters.
func pageParams(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		writeBadRequest(w, "page must be an integer")
		return domain.PaginationParams{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		writeBadRequest(w, "limit must be an integer")
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// actorFrom collects what the request proves about its caller: the identity
// attached by the authenticator and any booking token in the header or the
// ?token query parameter. A token that is not a UUID is ignored.
func actorFrom(r *http.Request) domain.Actor {
	var actor domain.Actor
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		actor.Identity = &id
	}

	raw := r.Header.Get(bookingTokenHeader)
	if raw == "" {
		raw = r.URL.Query().Get("token")
	}
	if token, err := uuid.Parse(raw); err == nil {
		actor.Token = token
	}
	return actor
}

// looseString decodes a JSON string or number into its text form, so clients
// may send "trail_id": 1 or "trail_id": "1". null decodes to "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", b)
	}
	*s = looseString(n.String())
	return nil
}
