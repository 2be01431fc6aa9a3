package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"devflow-backend/internal/apperrors"
	"devflow-backend/internal/middleware"
	"devflow-backend/internal/models"
	"devflow-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuestionHandler struct {
	service service.Service
}

func NewQuestionHandler(svc service.Service) *QuestionHandler {
	return &QuestionHandler{
		service: svc,
	}
}

// --- Request types ---

type CreateQuestionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Path    string   `json:"path"`
}

type EditQuestionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Path    string `json:"path"`
}

type VoteRequest struct {
	HasAlreadyUpvoted   bool   `json:"has_already_upvoted"`
	HasAlreadyDownvoted bool   `json:"has_already_downvoted"`
	Path                string `json:"path"`
}

// HotQuestionsResponse carries the hot list under the same "questions"
// envelope the paginated listing endpoints use.
type HotQuestionsResponse struct {
	Questions []models.QuestionDetail `json:"questions"`
}

// --- GET /questions ---

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	params := service.ListParams{
		Search:   r.URL.Query().Get("q"),
		Filter:   r.URL.Query().Get("filter"),
		Page:     parseIntParam(r, "page"),
		PageSize: parseIntParam(r, "page_size"),
	}

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, "listing questions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- GET /questions/hot ---

func (h *QuestionHandler) Hot(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.Hot(r.Context())
	if err != nil {
		writeError(w, "listing hot questions", err)
		return
	}
	writeJSON(w, http.StatusOK, HotQuestionsResponse{Questions: questions})
}

// --- GET /questions/{id} ---

func (h *QuestionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	question, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, "fetching question", err)
		return
	}
	// Absent is a valid empty result here, not an error.
	writeJSON(w, http.StatusOK, map[string]interface{}{"question": question})
}

// --- POST /questions ---

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	author, ok := authedUserID(w, r)
	if !ok {
		return
	}

	var req CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := h.service.Create(r.Context(), service.CreateParams{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Author:  author,
		Path:    req.Path,
	})
	if err != nil {
		writeError(w, "creating question", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "question created"})
}

// --- PUT /questions/{id} ---

func (h *QuestionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	var req EditQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := h.service.Edit(r.Context(), service.EditParams{
		QuestionID: id,
		Title:      req.Title,
		Content:    req.Content,
		Path:       req.Path,
	})
	if err != nil {
		writeError(w, "editing question", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "question updated"})
}

// --- DELETE /questions/{id} ---

func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), service.DeleteParams{
		QuestionID: id,
		Path:       r.URL.Query().Get("path"),
	})
	if err != nil {
		writeError(w, "deleting question", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "question deleted"})
}

// --- POST /questions/{id}/upvote and /downvote ---

func (h *QuestionHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.service.Upvote)
}

func (h *QuestionHandler) Downvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.service.Downvote)
}

func (h *QuestionHandler) vote(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, params service.VoteParams) error) {
	id, ok := questionID(w, r)
	if !ok {
		return
	}
	userID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	err := op(r.Context(), service.VoteParams{
		QuestionID:   id,
		UserID:       userID,
		HasUpvoted:   req.HasAlreadyUpvoted,
		HasDownvoted: req.HasAlreadyDownvoted,
		Path:         req.Path,
	})
	if err != nil {
		writeError(w, "voting on question", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "vote recorded"})
}

// --- GET /questions/recommended ---

func (h *QuestionHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	externalID := middleware.GetExternalID(r.Context())
	if externalID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	result, err := h.service.Recommended(r.Context(), service.RecommendedParams{
		ExternalUserID: externalID,
		Search:         r.URL.Query().Get("q"),
		Page:           parseIntParam(r, "page"),
		PageSize:       parseIntParam(r, "page_size"),
	})
	if err != nil {
		writeError(w, "recommending questions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- Helpers ---

func questionID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid question ID"})
		return bson.ObjectID{}, false
	}
	return id, true
}

func authedUserID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	userIDHex := middleware.GetUserID(r.Context())
	if userIDHex == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return bson.ObjectID{}, false
	}
	userID, err := bson.ObjectIDFromHex(userIDHex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
		return bson.ObjectID{}, false
	}
	return userID, true
}

func parseIntParam(r *http.Request, name string) int64 {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func writeError(w http.ResponseWriter, op string, err error) {
	log.Printf("Error %s: %v", op, err)
	switch {
	case apperrors.IsKind(err, apperrors.KindValidation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case apperrors.IsKind(err, apperrors.KindNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperrors.IsKind(err, apperrors.KindPartialFailure):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation partially completed"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
