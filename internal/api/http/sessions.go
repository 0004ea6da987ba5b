package http

import (
	"encoding/json"
	"strconv"

	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formatech/coursegate/internal/player"
)

func sessionFrom(reg *player.Registry, w nethttp.ResponseWriter, r *nethttp.Request) *player.Session {
	s, err := reg.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		nethttp.Error(w, "session not found", nethttp.StatusNotFound)
		return nil
	}
	return s
}

func GetSessionHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

// SubmitAccessKeyHandler grants session access when the key matches the
// course's access key. A wrong key is 403, not an internal error.
func SubmitAccessKeyHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			nethttp.Error(w, "bad json", nethttp.StatusBadRequest)
			return
		}
		if !s.GrantKey(r.Context(), req.Key) {
			nethttp.Error(w, "invalid access key", nethttp.StatusForbidden)
			return
		}
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

func LoadModuleHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			nethttp.Error(w, "bad module index", nethttp.StatusBadRequest)
			return
		}
		s.LoadModule(r.Context(), index)
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

func NextModuleHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		s.Next(r.Context())
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

func PreviousModuleHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		s.Previous(r.Context())
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

// TogglePanelHandler flips one of the four media panels; turning a panel on
// forces the other three off.
func TogglePanelHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		switch chi.URLParam(r, "panel") {
		case "video":
			s.ToggleVideo()
		case "pdf":
			s.TogglePDF(r.Context())
		case "image":
			s.ToggleImage()
		case "presentation":
			s.TogglePresentation()
		default:
			nethttp.Error(w, "unknown panel", nethttp.StatusBadRequest)
			return
		}
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

func VideoErrorHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := sessionFrom(reg, w, r)
		if s == nil {
			return
		}
		s.VideoError()
		writeJSON(w, nethttp.StatusOK, s.Snapshot())
	}
}

// CloseSessionHandler is the page-teardown path: blob revoked, timer stopped.
func CloseSessionHandler(reg *player.Registry) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		reg.Remove(chi.URLParam(r, "sessionID"))
		w.WriteHeader(nethttp.StatusNoContent)
	}
}
