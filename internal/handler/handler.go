package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/lendbook/loan-service/internal/models"
	"github.com/lendbook/loan-service/internal/repository"
	"github.com/lendbook/loan-service/internal/service"
)

type Handler struct {
	svc        *service.Service
	validator  *validator.Validate
	translator ut.Translator
	log        *logrus.Logger
}

// NewHandler initializes a handler with request validation wired for
// English error messages.
func NewHandler(svc *service.Service, log *logrus.Logger) (*Handler, error) {
	validate := validator.New()

	eng := en.New()
	uni := ut.New(eng, eng)
	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("english translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	return &Handler{
		svc:        svc,
		validator:  validate,
		translator: translator,
		log:        log,
	}, nil
}

// Lend handles POST /lend
func (h *Handler) Lend(w http.ResponseWriter, r *http.Request) {
	req := models.LendRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		errs := err.(validator.ValidationErrors)
		respondWithValidationErrors(w, errs.Translate(h.translator))
		return
	}

	resp, err := h.svc.Lend(req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// Payment handles POST /payment
func (h *Handler) Payment(w http.ResponseWriter, r *http.Request) {
	req := models.PaymentRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		errs := err.(validator.ValidationErrors)
		respondWithValidationErrors(w, errs.Translate(h.translator))
		return
	}

	resp, err := h.svc.RecordPayment(req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// Ledger handles GET /ledger/{loan_id}
func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	loanID, err := strconv.ParseInt(vars["loan_id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid loan ID")
		return
	}

	resp, err := h.svc.Ledger(loanID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// Overview handles GET /overview/{customer_id}
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	resp, err := h.svc.Overview(vars["customer_id"])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// respondServiceError maps service errors onto HTTP statuses: not-found
// sentinels become 404, business validation 400, anything else 500.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrLoanNotFound):
		respondWithError(w, http.StatusNotFound, "Loan not found")
	case errors.Is(err, repository.ErrNoLoans):
		respondWithError(w, http.StatusNotFound, "No loans found for this customer")
	case errors.Is(err, service.ErrInvalidLoanTerms), errors.Is(err, service.ErrInvalidPaymentAmount):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Errorf("Internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
