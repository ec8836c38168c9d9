package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/shopspring/decimal"
)

const maxJSONBodyBytes = 1 << 20

type draftResponse struct {
	Message          string        `json:"message"`
	DraftTransaction *domain.Draft `json:"draft_transaction"`
	Transcript       string        `json:"transcript"`
	AudioURI         string        `json:"audio_uri,omitempty"`
}

type generateDraftTextRequest struct {
	MerchantID int64  `json:"umkm_id"`
	Transcript string `json:"transcript"`
}

type confirmResponse struct {
	Message         string                 `json:"message"`
	TransactionID   int64                  `json:"transaction_id"`
	TransactionType domain.TransactionType `json:"transaction_type"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	Transcript      string                 `json:"transcript"`
}

func (s *Server) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := merchantIDFromQuery(w, r)
	if !ok {
		return
	}
	audio, ok := s.readAudio(w, r)
	if !ok {
		return
	}
	result, err := s.drafts.GenerateDraftFromAudio(r.Context(), merchantID, audio)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{
		Message:          messageDraftGenerated,
		DraftTransaction: result.Draft,
		Transcript:       result.Transcript,
		AudioURI:         result.AudioURI,
	})
}

func (s *Server) handleGenerateDraftText(w http.ResponseWriter, r *http.Request) {
	var req generateDraftTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	draft, err := s.drafts.GenerateDraft(r.Context(), req.MerchantID, req.Transcript)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse{
		Message:          messageDraftGenerated,
		DraftTransaction: draft,
		Transcript:       draft.Transcript,
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfirmRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.drafts.Confirm(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, confirmResponse{
		Message:         messageTransactionConfirmed,
		TransactionID:   result.TransactionID,
		TransactionType: result.TransactionType,
		TotalAmount:     result.TotalAmount,
		Transcript:      result.Transcript,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeRequestError(w, http.StatusBadRequest, "bad_json", messageBadJSON)
		return false
	}
	return true
}

func merchantIDFromQuery(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("umkm_id")), 10, 64)
	if err != nil || id <= 0 {
		writeRequestError(w, http.StatusBadRequest, "invalid_input", messageBadMerchantID)
		return 0, false
	}
	return id, true
}
