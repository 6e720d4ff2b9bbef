/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// serveHomePage renders a short status page; the actual player/host client
// is a separate application that talks to this server's HTTP/websocket API
// (SPEC_FULL.md §5 — client UI is out of scope for this repository).
func serveHomePage(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		body := fmt.Sprintf(
			"trivia-party v%s is running. POST %s/rooms to create a room, then connect to %s/rooms/:code/ws.",
			releaseVersion, cfg.prefix, cfg.prefix,
		)
		_, _ = w.Write([]byte(newPage("trivia-party", body)))
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
