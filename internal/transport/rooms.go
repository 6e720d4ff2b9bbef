/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/trivia-party/internal/trivia"
)

// PackLister is satisfied by the catalogue; kept as a narrow interface here
// so transport doesn't need to import the catalogue package directly.
type PackLister interface {
	PackIDs() []string
}

type createRoomRequest struct {
	HostName string `json:"hostName"`
	PackID   string `json:"packId"`
}

type createRoomResponse struct {
	Code     string `json:"code"`
	HostKey  string `json:"hostKey"`
	PackID   string `json:"packId"`
}

// HandleCreateRoom handles POST /rooms, minting a fresh room and returning the
// room code plus the host key needed for every subsequent host action
// (§4.1, §4.9).
func (s *Server) HandleCreateRoom(packs PackLister) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req createRoomRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}
		if req.PackID == "" {
			ids := packs.PackIDs()
			if len(ids) == 0 {
				http.Error(w, trivia.ErrNoPacksLoaded.Error(), http.StatusInternalServerError)
				return
			}
			req.PackID = ids[0]
		}

		room := s.CreateRoom(req.HostName, req.PackID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(createRoomResponse{
			Code:    room.Code,
			HostKey: room.HostToken,
			PackID:  room.PackID,
		})
	}
}

// ListPacks handles GET /packs.
func ListPacks(packs PackLister) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"packs": packs.PackIDs()})
	}
}

// ServeQR renders the join URL for a room as a PNG QR code, reusing the
// teacher's go-qrcode call directly (celebrity.go's qrHandler).
func (s *Server) ServeQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)
		return
	}
	if _, ok := s.reg.Get(code); !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	path := strings.TrimSuffix(r.URL.Path, "/qr")
	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
