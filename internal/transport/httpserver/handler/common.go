package handler

import "net/http"

const welcomeMessage = "Welcome to the Members interest API."

func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, welcomeMessage)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
