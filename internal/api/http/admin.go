package http

import (
	"encoding/json"
	"errors"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formatech/coursegate/internal/catalog"
)

// Catalog CRUD for course authoring: the access key and per-module quizzes.
// Routes are rbac-gated in main.go (catalog:write).

func PutCourseRecordHandler(cat catalog.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var rec catalog.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		rec.CourseID = chi.URLParam(r, "courseID")
		for moduleID, q := range rec.Quizzes {
			if len(q.Questions) == 0 {
				nethttp.Error(w, "quiz for module "+moduleID+" has no questions", nethttp.StatusBadRequest)
				return
			}
			for _, question := range q.Questions {
				if question.Points <= 0 {
					nethttp.Error(w, "question "+question.ID+" needs a positive point value", nethttp.StatusBadRequest)
					return
				}
			}
		}
		if err := cat.Put(r.Context(), rec); err != nil {
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, nethttp.StatusOK, rec)
	}
}

func GetCourseRecordHandler(cat catalog.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rec, err := cat.Get(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				nethttp.Error(w, "record not found", nethttp.StatusNotFound)
				return
			}
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, nethttp.StatusOK, rec)
	}
}

func DeleteCourseRecordHandler(cat catalog.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := cat.Delete(r.Context(), chi.URLParam(r, "courseID")); err != nil {
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		w.WriteHeader(nethttp.StatusNoContent)
	}
}
