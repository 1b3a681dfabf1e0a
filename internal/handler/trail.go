package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/trailblaze/booking-api/internal/domain"
)

// trailRequest is the body of POST /trails and PUT /trails/{id}.
type trailRequest struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Difficulty  string  `json:"difficulty"`
	Duration    string  `json:"duration"`
	Distance    string  `json:"distance"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Available   *bool   `json:"available"`
}

// trailResponse is the wire form of a trail.
type trailResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Difficulty  string    `json:"difficulty"`
	Duration    string    `json:"duration"`
	Distance    string    `json:"distance"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Available   bool      `json:"available"`
	BookNowURL  string    `json:"book_now_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTrails handles GET /trails.
func (s *Server) ListTrails(w http.ResponseWriter, r *http.Request) {
	trails, err := s.trails.List(r.Context())
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}

	out := make([]trailResponse, 0, len(trails))
	for _, t := range trails {
		out = append(out, trailToResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTrail handles GET /trails/{id}.
func (s *Server) GetTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := s.trails.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "trail", err)
		return
	}
	writeJSON(w, http.StatusOK, trailToResponse(t))
}

// CreateTrail handles POST /trails.
func (s *Server) CreateTrail(w http.ResponseWriter, r *http.Request) {
	var body trailRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.trails.Create(r.Context(), requestToTrail(0, body))
	if err != nil {
		s.writeError(w, r, "trail", err)
		return
	}
	writeJSON(w, http.StatusCreated, trailToResponse(created))
}

// UpdateTrail handles PUT /trails/{id}.
func (s *Server) UpdateTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body trailRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.trails.Update(r.Context(), requestToTrail(id, body))
	if err != nil {
		s.writeError(w, r, "trail", err)
		return
	}
	writeJSON(w, http.StatusOK, trailToResponse(updated))
}

// DeleteTrail handles DELETE /trails/{id}.
func (s *Server) DeleteTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.trails.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, "trail", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToTrail builds a domain.Trail from a request body. A missing
// "available" flag means the trail is bookable.
func requestToTrail(id int64, body trailRequest) domain.Trail {
	available := true
	if body.Available != nil {
		available = *body.Available
	}
	return domain.Trail{
		ID:          id,
		Name:        body.Name,
		Location:    body.Location,
		Difficulty:  domain.Difficulty(body.Difficulty),
		Duration:    body.Duration,
		Distance:    body.Distance,
		Price:       body.Price,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		Available:   available,
	}
}

func trailToResponse(t domain.Trail) trailResponse {
	return trailResponse{
		ID:          t.ID,
		Name:        t.Name,
		Location:    t.Location,
		Difficulty:  string(t.Difficulty),
		Duration:    t.Duration,
		Distance:    t.Distance,
		Price:       t.Price,
		Description: t.Description,
		ImageURL:    t.ImageURL,
		Available:   t.Available,
		BookNowURL:  "/book/" + strconv.FormatInt(t.ID, 10),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
