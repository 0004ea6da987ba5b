package http

import (
	"context"
	"errors"
	"strconv"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formatech/coursegate/internal/access"
	auth "github.com/formatech/coursegate/internal/auth/middleware"
	"github.com/formatech/coursegate/internal/catalog"
	"github.com/formatech/coursegate/internal/content"
	"github.com/formatech/coursegate/internal/player"
	"github.com/formatech/coursegate/internal/trainingapi"
)

// Handlers only; routes stay in main.go.

// buildAssembly assembles a course and applies the catalog overlay (access
// key, quizzes). A missing catalog record is fine: the course simply has no
// key and no quizzes.
func buildAssembly(ctx context.Context, src content.Source, cat catalog.Store, formationID int64) (content.Assembly, error) {
	a, err := content.Build(ctx, src, formationID)
	if err != nil {
		return content.Assembly{}, err
	}
	rec, err := cat.Get(ctx, a.Course.ID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return content.Assembly{}, err
	}
	catalog.Overlay(&a, rec)
	return a, nil
}

// GetCourseHandler serves the course overview. Module content is included
// only for viewers the gate approves; everyone else sees the description plus
// a content count and the access prompt hint.
func GetCourseHandler(src *trainingapi.Client, cat catalog.Store, gate *access.Gate) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		formationID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
		if err != nil {
			nethttp.Error(w, "bad course id", nethttp.StatusBadRequest)
			return
		}
		a, err := buildAssembly(r.Context(), src, cat, formationID)
		if err != nil {
			if errors.Is(err, trainingapi.ErrNotFound) {
				nethttp.Error(w, "course not found", nethttp.StatusNotFound)
				return
			}
			nethttp.Error(w, "upstream error", nethttp.StatusBadGateway)
			return
		}
		id := auth.IdentityFromContext(r.Context())
		granted := gate.CanAccess(r.Context(), a.Course, id)

		resp := map[string]any{
			"course":       a.Course,
			"grouped":      a.Grouped,
			"module_count": len(a.Modules),
			"granted":      granted,
			"has_key":      a.Course.AccessKey != "",
		}
		if granted {
			resp["modules"] = a.Modules
			if a.Grouped {
				resp["groups"] = a.Groups
			}
		}
		writeJSON(w, nethttp.StatusOK, resp)
	}
}

// CreateSessionHandler opens a viewing session for a course. The gate's
// verdict lands on the session; without access the session starts at the
// key prompt instead of the first module.
func CreateSessionHandler(src *trainingapi.Client, cat catalog.Store, gate *access.Gate, reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		formationID, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
		if err != nil {
			nethttp.Error(w, "bad course id", nethttp.StatusBadRequest)
			return
		}
		a, err := buildAssembly(r.Context(), src, cat, formationID)
		if err != nil {
			if errors.Is(err, trainingapi.ErrNotFound) {
				nethttp.Error(w, "course not found", nethttp.StatusNotFound)
				return
			}
			nethttp.Error(w, "upstream error", nethttp.StatusBadGateway)
			return
		}

		s := reg.Create(a)
		id := auth.IdentityFromContext(r.Context())
		granted := gate.CanAccess(r.Context(), a.Course, id)
		s.SetAccess(granted)
		if granted && len(a.Modules) > 0 {
			s.LoadModule(r.Context(), 0)
		}
		writeJSON(w, nethttp.StatusCreated, s.Snapshot())
	}
}
