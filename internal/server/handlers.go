package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forriz/concierge/internal/answer"
	"github.com/forriz/concierge/internal/booking"
	"github.com/forriz/concierge/internal/embedding"
	"github.com/forriz/concierge/internal/extract"
	"github.com/forriz/concierge/internal/models"
	"github.com/forriz/concierge/internal/rooms"
	"github.com/forriz/concierge/internal/session"
	"github.com/forriz/concierge/pkg/utils"
)

const maxUploadBytes = 20 << 20

func (s *Server) handleIndexUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	s.logger.Debug("indexing upload", zap.String("filename", header.Filename), zap.Int("bytes", len(content)))

	result, err := s.pipeline.IngestBytes(r.Context(), content, ext, header.Filename)
	if err != nil {
		status := statusForIngestError(err)
		if status != http.StatusBadRequest {
			s.logger.Error("indexing failed", zap.String("filename", header.Filename), zap.Error(err))
		}
		s.respondError(w, status, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, models.IngestResponse{
		Message:     "✅ Indexing berhasil!",
		VectorCount: result.VectorCount,
		Duration:    result.Duration,
	})
}

func (s *Server) handleIndexBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingIngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hotelID := req.HotelID
	if hotelID == "" {
		hotelID = s.cfg.Booking.HotelID
	}

	availability, err := s.booking.FetchAvailability(r.Context(), req.Checkin, req.Checkout, hotelID)
	if err != nil {
		s.logger.Error("booking fetch failed", zap.String("checkin", req.Checkin), zap.Error(err))
		s.respondError(w, statusForBookingError(err), err.Error())
		return
	}

	text, err := booking.FormatText(availability)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.pipeline.IngestText(r.Context(), text, booking.SourceTag, "booking")
	if err != nil {
		s.logger.Error("booking indexing failed", zap.Error(err))
		s.respondError(w, statusForIngestError(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, models.IngestResponse{
		Message:     "✅ Indexing ketersediaan kamar berhasil!",
		VectorCount: result.VectorCount,
		Duration:    result.Duration,
	})
}

func (s *Server) handleAskRAG(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAsk(w, r)
	if !ok {
		return
	}
	query := strings.ToLower(req.Query)
	s.logger.Debug("grounded question", zap.String("query", utils.Truncate(query, 120)))

	history, sess, ok := s.resolveHistory(w, r, req)
	if !ok {
		return
	}

	result, err := s.retriever.Retrieve(r.Context(), query)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		s.respondError(w, statusForAskError(err), err.Error())
		return
	}

	reply, err := s.generator.AnswerRAG(r.Context(), query, result.Context, history)
	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		s.respondError(w, statusForAskError(err), err.Error())
		return
	}

	s.recordTurn(r, sess, query, reply)

	scores := result.Scores
	if scores == nil {
		scores = []float64{}
	}
	resp := models.AskRAGResponse{
		Response:    reply,
		ContextUsed: result.Context,
		Scores:      scores,
	}
	if sess != nil {
		resp.SessionID = sess.ID
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAskDirect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeAsk(w, r)
	if !ok {
		return
	}
	query := strings.ToLower(req.Query)
	s.logger.Debug("ungrounded question", zap.String("query", utils.Truncate(query, 120)))

	history, sess, ok := s.resolveHistory(w, r, req)
	if !ok {
		return
	}

	reply, err := s.generator.AnswerDirect(r.Context(), query, history)
	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		s.respondError(w, statusForAskError(err), err.Error())
		return
	}

	s.recordTurn(r, sess, query, reply)

	resp := models.AskResponse{Response: reply}
	if sess != nil {
		resp.SessionID = sess.ID
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeAsk(w http.ResponseWriter, r *http.Request) (*models.AskRequest, bool) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return nil, false
	}
	return &req, true
}

// resolveHistory picks the conversation history for a question. An inline
// history field wins; otherwise a session_id loads the stored transcript.
func (s *Server) resolveHistory(w http.ResponseWriter, r *http.Request, req *models.AskRequest) (string, *session.Data, bool) {
	if req.History != "" || req.SessionID == "" {
		return req.History, nil, true
	}
	if s.sessions == nil {
		s.respondError(w, http.StatusBadRequest, "session store is not configured")
		return "", nil, false
	}
	sess, err := s.sessions.Get(r.Context(), req.SessionID)
	if err != nil {
		s.logger.Error("session lookup failed", zap.String("session_id", req.SessionID), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return "", nil, false
	}
	if sess == nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("session %s not found", req.SessionID))
		return "", nil, false
	}
	return session.Transcript(sess.History), sess, true
}

// recordTurn appends the question and answer to the session, if any. When a
// concurrent request wins the version race, the session is reloaded and the
// turn reapplied on top of it; every conflicting updater makes progress, so
// the loop terminates.
func (s *Server) recordTurn(r *http.Request, sess *session.Data, query, reply string) {
	if sess == nil || s.sessions == nil {
		return
	}
	ctx := r.Context()
	for {
		sess.History = session.AddMessage(sess.History, "user", query)
		sess.History = session.AddMessage(sess.History, "assistant", reply)
		sess.History = session.TruncateHistory(sess.History, 4000, 40)

		err := s.sessions.Update(ctx, sess)
		if err == nil {
			return
		}
		if !errors.Is(err, session.ErrVersionConflict) {
			s.logger.Warn("failed to update session", zap.String("session_id", sess.ID), zap.Error(err))
			return
		}
		fresh, getErr := s.sessions.Get(ctx, sess.ID)
		if getErr != nil || fresh == nil {
			s.logger.Warn("failed to reload session after conflict", zap.String("session_id", sess.ID), zap.Error(getErr))
			return
		}
		sess = fresh
	}
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	path := s.cfg.Rooms.SpreadsheetPath
	if path == "" {
		s.respondError(w, http.StatusNotFound, "room catalog is not configured")
		return
	}
	catalog, err := rooms.LoadFile(path)
	if err != nil {
		s.logger.Error("failed to load room catalog", zap.String("path", path), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"rooms": catalog})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	data := &session.Data{ID: uuid.NewString()}
	if err := s.sessions.Create(r.Context(), data); err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": data.ID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		s.respondError(w, http.StatusNotFound, "session not found")
		return
	}
	s.respondJSON(w, http.StatusOK, data)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vectorCount, err := s.vectors.Count(ctx)
	if err != nil {
		s.logger.Error("status: vector count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := map[string]any{
		"collection":   s.cfg.Vector.Collection,
		"dimensions":   s.cfg.Vector.Dimensions,
		"vector_count": vectorCount,
		"chat_model":   s.cfg.Chat.RAG.Model,
		"embed_model":  s.cfg.Embedding.Model,
	}
	if s.auditLog != nil {
		runs, err := s.auditLog.Count(ctx)
		if err == nil {
			status["ingest_runs"] = runs
		}
		if recent, err := s.auditLog.Recent(ctx, 5); err == nil {
			status["recent_ingests"] = recent
		}
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForBookingError maps booking failures to HTTP statuses: bad input
// dates are the caller's fault, upstream rejections surface as bad gateway.
func statusForBookingError(err error) int {
	if errors.Is(err, booking.ErrInvalidDate) || errors.Is(err, booking.ErrInvalidDateRange) {
		return http.StatusBadRequest
	}
	var reqErr *booking.RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// statusForIngestError maps pipeline failures: unsupported uploads are the
// caller's fault, embedding-service outages surface as bad gateway.
func statusForIngestError(err error) int {
	if errors.Is(err, extract.ErrUnsupportedType) {
		return http.StatusBadRequest
	}
	if errors.Is(err, embedding.ErrUpstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// statusForAskError maps answering failures: outages of the embedding or
// chat-completion services surface as bad gateway.
func statusForAskError(err error) int {
	if errors.Is(err, embedding.ErrUpstream) || errors.Is(err, answer.ErrUpstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
