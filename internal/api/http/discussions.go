package http

import (
	"encoding/json"
	"errors"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/formatech/coursegate/internal/auth/middleware"
	"github.com/formatech/coursegate/internal/discussion"
)

func ListDiscussionsHandler(store *discussion.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		out, err := store.List(r.Context(), chi.URLParam(r, "courseID"))
		if err != nil {
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, nethttp.StatusOK, out) // [] when empty
	}
}

func PostQuestionHandler(store *discussion.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			ModuleID string `json:"module_id"`
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		userID, userName := poster(r)
		q, err := store.PostQuestion(r.Context(), chi.URLParam(r, "courseID"), req.ModuleID, userID, userName, req.Question)
		if err != nil {
			if errors.Is(err, discussion.ErrEmpty) {
				nethttp.Error(w, "empty question", nethttp.StatusBadRequest)
				return
			}
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, nethttp.StatusCreated, q)
	}
}

func PostReplyHandler(store *discussion.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var req struct {
			Reply string `json:"reply"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		userID, userName := poster(r)
		rep, err := store.PostReply(r.Context(), chi.URLParam(r, "questionID"), userID, userName, req.Reply)
		if err != nil {
			switch {
			case errors.Is(err, discussion.ErrNotFound):
				nethttp.Error(w, "question not found", nethttp.StatusNotFound)
			case errors.Is(err, discussion.ErrEmpty):
				nethttp.Error(w, "empty reply", nethttp.StatusBadRequest)
			default:
				nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, nethttp.StatusCreated, rep)
	}
}

// DeleteQuestionHandler allows the author or an admin to remove a thread.
func DeleteQuestionHandler(store *discussion.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := auth.IdentityFromContext(r.Context())
		questionID := chi.URLParam(r, "questionID")
		author, err := store.AuthorID(r.Context(), questionID)
		if err != nil {
			if errors.Is(err, discussion.ErrNotFound) {
				nethttp.Error(w, "question not found", nethttp.StatusNotFound)
				return
			}
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		if !id.Admin() && (id.Anonymous() || id.Sub != author) {
			nethttp.Error(w, "forbidden", nethttp.StatusForbidden)
			return
		}
		if err := store.DeleteQuestion(r.Context(), questionID); err != nil {
			nethttp.Error(w, "db error", nethttp.StatusInternalServerError)
			return
		}
		w.WriteHeader(nethttp.StatusNoContent)
	}
}

// poster resolves the posting identity, falling back to anonymous the way the
// sidebar always has.
func poster(r *nethttp.Request) (userID, userName string) {
	id := auth.IdentityFromContext(r.Context())
	if id.Anonymous() {
		return "anonymous", "Utilisateur"
	}
	name := id.Name
	if name == "" {
		name = id.Sub
	}
	return id.Sub, name
}
