package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	audioFormField = "audio"
	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10

	wsWriteWait   = 10 * time.Second
	wsIdleTimeout = 2 * time.Minute
	// Close reasons must fit in a control frame.
	wsMaxCloseReason = 120
)

var (
	errAudioMissing  = errors.New("audio file is missing")
	errAudioTooLarge = errors.New("audio file is too large")
)

type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

func (s *Server) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	audio, ok := s.readAudio(w, r)
	if !ok {
		return
	}
	transcript, err := s.drafts.Transcribe(r.Context(), audio)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Transcript: transcript})
}

// handleSpeechToTextWS transcribes each binary message independently and
// answers with a text frame. A failure closes the socket with a reason.
func (s *Server) handleSpeechToTextWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()
	conn.SetReadLimit(s.maxAudioBytes)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket closed unexpectedly", "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		if len(data) == 0 {
			closeWS(conn, websocket.CloseNormalClosure, "")
			return
		}

		transcript, err := s.drafts.Transcribe(r.Context(), data)
		if err != nil {
			slog.Warn("websocket transcription failed", "error", err)
			closeWS(conn, websocket.CloseInternalServerErr, "Error: "+err.Error())
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(transcript)); err != nil {
			slog.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func closeWS(conn *websocket.Conn, code int, reason string) {
	if len(reason) > wsMaxCloseReason {
		reason = reason[:wsMaxCloseReason]
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(wsWriteWait))
}

// readAudio reads the uploaded clip, writing the error response itself
// when the upload is unusable.
func (s *Server) readAudio(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	audio, err := s.readAudioField(w, r)
	switch {
	case errors.Is(err, errAudioTooLarge):
		writeRequestError(w, http.StatusRequestEntityTooLarge, "audio_too_large", messageAudioTooLarge)
		return nil, false
	case err != nil:
		writeRequestError(w, http.StatusBadRequest, "audio_missing", messageAudioMissing)
		return nil, false
	}
	return audio, true
}

func (s *Server) readAudioField(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxAudioBytes+multipartOverhead)
	file, _, err := r.FormFile(audioFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errAudioTooLarge
		}
		return nil, errAudioMissing
	}
	defer func() {
		_ = file.Close()
	}()

	audio, err := io.ReadAll(io.LimitReader(file, s.maxAudioBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(audio)) > s.maxAudioBytes {
		return nil, errAudioTooLarge
	}
	return audio, nil
}
