package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"skyharbor.ai/internal/sim/logistics"
)

type registerBody struct {
	Platform  string `json:"platform"`
	Item      string `json:"item"`
	Minimum   int    `json:"minimum"`
	Requested int    `json:"requested"`
}

func (s *server) handleRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		platform := r.URL.Query().Get("platform")
		if platform == "" {
			http.Error(w, "missing platform", http.StatusBadRequest)
			return
		}
		resp := s.ask(adminReq{kind: adminList, platform: logistics.PlatformID(platform)})
		writeJSON(w, resp.requests)

	case http.MethodPost:
		var body registerBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		resp := s.ask(adminReq{
			kind:      adminRegister,
			platform:  logistics.PlatformID(body.Platform),
			item:      logistics.ItemID(body.Item),
			minimum:   body.Minimum,
			requested: body.Requested,
		})
		if !resp.ok {
			http.Error(w, "rejected", http.StatusUnprocessableEntity)
			return
		}
		writeJSON(w, map[string]bool{"ok": true})

	case http.MethodDelete:
		q := r.URL.Query()
		resp := s.ask(adminReq{
			kind:     adminRemove,
			platform: logistics.PlatformID(q.Get("platform")),
			item:     logistics.ItemID(q.Get("item")),
		})
		writeJSON(w, map[string]bool{"ok": resp.ok})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) handleCanReceive(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	quantity, _ := strconv.Atoi(q.Get("quantity"))
	resp := s.ask(adminReq{
		kind:     adminCanReceive,
		platform: logistics.PlatformID(q.Get("platform")),
		item:     logistics.ItemID(q.Get("item")),
		quantity: quantity,
	})
	writeJSON(w, map[string]any{"ok": resp.ok, "reason": resp.reason})
}

// handleExplain runs the scheduler's gate chain for a hypothetical
// source→dest transfer and returns the blocking reason code, if any.
func (s *server) handleExplain(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := s.ask(adminReq{
		kind:     adminExplain,
		source:   logistics.PlatformID(q.Get("source")),
		platform: logistics.PlatformID(q.Get("dest")),
		item:     logistics.ItemID(q.Get("item")),
	})
	writeJSON(w, map[string]any{"ok": resp.ok, "reason": resp.reason})
}

func (s *server) handlePods(w http.ResponseWriter, r *http.Request) {
	resp := s.ask(adminReq{kind: adminPods})
	writeJSON(w, resp.pods)
}

// handleTransfers reads from the sqlite index directly; it never touches
// engine state.
func (s *server) handleTransfers(w http.ResponseWriter, r *http.Request) {
	if s.idx == nil {
		http.Error(w, "index disabled", http.StatusServiceUnavailable)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.idx.RecentTransfers(limit)
	if err != nil {
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
