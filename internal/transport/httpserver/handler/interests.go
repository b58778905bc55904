package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	interestsdomain "parliament-interests/internal/domain/interests"
	membersdomain "parliament-interests/internal/domain/members"
	"parliament-interests/internal/metrics"
	"parliament-interests/internal/transport/params"
)

func (h *Handlers) SearchInterests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := interestsdomain.SearchFilter{
		MemberName:      params.Text(query.Get("member_name")),
		Party:           params.Text(query.Get("party")),
		House:           params.House(query.Get("house")),
		PublishedBefore: params.Date(query.Get("published_before")),
		PublishedAfter:  params.Date(query.Get("published_after")),
		Skip:            params.Int(query.Get("skip"), 0),
		Take:            params.Int(query.Get("take"), 0),
	}

	result, err := h.Interests.SearchTotals(r.Context(), filter)
	if err != nil {
		metrics.RecordSearch("interests", "error")
		h.log.InternalError("interests.search: search failed", err, "member_name", filter.MemberName, "party", filter.Party)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	metrics.RecordSearch("interests", "ok")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) MemberInterests(w http.ResponseWriter, r *http.Request) {
	memberID := params.Int64(chi.URLParam(r, "member_id"))
	if memberID == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid member_id")
		return
	}

	query := r.URL.Query()
	result, err := h.Interests.MemberInterests(r.Context(), *memberID,
		params.Date(query.Get("published_after")),
		params.Date(query.Get("published_before")),
	)
	if err != nil {
		if errors.Is(err, membersdomain.ErrMemberNotFound) {
			metrics.RecordSearch("member_interests", "not_found")
			h.log.BusinessError("interests.member: member not found", err, "member_id", *memberID)
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		metrics.RecordSearch("member_interests", "error")
		h.log.InternalError("interests.member: load interests failed", err, "member_id", *memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	metrics.RecordSearch("member_interests", "ok")
	writeJSON(w, http.StatusOK, result)
}
