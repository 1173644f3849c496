package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/pipeline"
	"github.com/kintree/kintree/pkg/tree"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid id: %q", raw)
	}
	return id, nil
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, people)
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var p family.Person
	if err := decodeBody(r, &p); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.store.InsertPerson(r.Context(), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	p, err := s.store.GetPerson(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleReplacePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var p family.Person
	if err := decodeBody(r, &p); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	p.ID = id // the path wins over any body ID
	if err := s.store.ReplacePerson(r.Context(), p); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.store.DeletePerson(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	rels, err := s.store.ListRelationships(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rels)
}

func (s *Server) handleCreateRelationship(w http.ResponseWriter, r *http.Request) {
	var rel family.Relationship
	if err := decodeBody(r, &rel); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.store.AddRelationship(r.Context(), rel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteRelationship(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.store.DeleteRelationship(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleFamilyTree(w http.ResponseWriter, r *http.Request) {
	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rels, err := s.store.ListRelationships(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tree.Build(people, rels))
}

func (s *Server) handleFamilyTreeLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := layoutOptsFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rels, err := s.store.ListRelationships(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	persons, _, _, err := s.runner.BuildWithCacheInfo(r.Context(), people, rels, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	l, err := s.runner.ComputeLayout(r.Context(), persons, opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

// layoutOptsFromQuery reads the optional geometry overrides.
func layoutOptsFromQuery(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{
		Refresh: r.URL.Query().Get("refresh") == "true",
	}

	for name, field := range map[string]*float64{
		"box_width":  &opts.BoxWidth,
		"box_height": &opts.BoxHeight,
		"gap_x":      &opts.GapX,
		"gap_y":      &opts.GapY,
		"margin":     &opts.Margin,
	} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, raw)
		}
		*field = v
	}

	return opts, nil
}
