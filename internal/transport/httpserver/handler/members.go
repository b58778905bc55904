package handler

import (
	"net/http"

	membersdomain "parliament-interests/internal/domain/members"
	"parliament-interests/internal/metrics"
	"parliament-interests/internal/transport/params"
)

func (h *Handlers) SearchMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := membersdomain.SearchFilter{
		Name:                   params.Text(query.Get("name")),
		Party:                  params.Text(query.Get("party")),
		House:                  params.House(query.Get("house")),
		MembershipStartedSince: params.Date(query.Get("membership_started_since")),
		MembershipEndedSince:   params.Date(query.Get("membership_ended_since")),
		Skip:                   params.Int(query.Get("skip"), 0),
		Take:                   params.Int(query.Get("take"), 0),
	}

	result, err := h.Members.Search(r.Context(), filter)
	if err != nil {
		metrics.RecordSearch("members", "error")
		h.log.InternalError("members.search: search failed", err, "name", filter.Name, "party", filter.Party)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	metrics.RecordSearch("members", "ok")
	writeJSON(w, http.StatusOK, result)
}

// SearchParty answers with the party or JSON null; an unusable party_id is
// treated as unknown.
func (h *Handlers) SearchParty(w http.ResponseWriter, r *http.Request) {
	partyID := params.Int64(r.URL.Query().Get("party_id"))
	if partyID == nil {
		metrics.RecordSearch("party", "ok")
		writeJSON(w, http.StatusOK, nil)
		return
	}

	party, err := h.Members.GetParty(r.Context(), *partyID)
	if err != nil {
		metrics.RecordSearch("party", "error")
		h.log.InternalError("party.search: get party failed", err, "party_id", *partyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	metrics.RecordSearch("party", "ok")
	writeJSON(w, http.StatusOK, party)
}
