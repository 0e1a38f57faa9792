package handlers

import (
	"net/http"

	"github.com/playgrid/arena-system/middleware"
	"github.com/playgrid/arena-system/services"
)

// Мультипарт-форма сабмита ограничена чуть выше лимита скриншота,
// чтобы превышение отсекалось до чтения всего тела.
const maxSubmitFormSize = services.MaxEvidenceSize + 1<<20

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// SubmitResultHandler принимает multipart-форму с полями result, score, notes
// и файлом screenshot. Отправитель — аутентифицированный пользователь.
func (h *ResultHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getUUIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitFormSize)
	if err := r.ParseMultipartForm(maxSubmitFormSize); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.SubmitResultInput{
		Result: services.ParseOutcome(r.FormValue("result")),
	}
	if score := r.FormValue("score"); score != "" {
		input.Score = &score
	}
	if notes := r.FormValue("notes"); notes != "" {
		input.Notes = &notes
	}

	var evidence *services.EvidenceFile
	file, header, err := r.FormFile("screenshot")
	if err == nil {
		defer file.Close()
		evidence = &services.EvidenceFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      file,
		}
	}

	result, err := h.resultService.SubmitResult(r.Context(), matchID, user.ID, input, evidence)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success": true,
		"message": "Result submitted successfully",
		"result":  result,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type validateResultRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

// ValidateResultHandler — решение админа по pending-результату.
func (h *ResultHandler) ValidateResultHandler(w http.ResponseWriter, r *http.Request) {
	resultID, err := getUUIDFromURL(r, "resultID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var req validateResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.ValidateResult(r.Context(), resultID, req.Approve, user.ID, req.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "Result validated"
	if !req.Approve {
		message = "Result rejected"
	}
	response := jsonResponse{
		"success": true,
		"message": message,
		"result":  result,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPendingResultsHandler — FIFO-очередь модерации для админки.
func (h *ResultHandler) ListPendingResultsHandler(w http.ResponseWriter, r *http.Request) {
	pending, err := h.resultService.ListPendingResults(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pending_results": pending}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
