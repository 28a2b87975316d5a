package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bushra/buzzhub/internal/auth"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/payments"
	"github.com/bushra/buzzhub/internal/service"
)

// PaymentHandler exposes checkout session creation and post-payment
// verification. Verification is safe to call repeatedly; the service
// reconciles at most once per session.
type PaymentHandler struct {
	checkout *service.CheckoutService
	logger   *slog.Logger
}

func NewPaymentHandler(checkout *service.CheckoutService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	Fee              float64 `json:"fee"`
	ClubName         string  `json:"clubName"`
	EventName        string  `json:"eventName"`
	ParticipantEmail string  `json:"participantEmail"`
	ClubID           string  `json:"clubId"`
	EventID          string  `json:"eventId"`
	PaymentType      string  `json:"paymentType"`
	EventManager     string  `json:"eventManager"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// HandleCreateSession handles POST /create-checkout-session; authenticated.
// Responds with the provider-hosted payment page URL.
func (h *PaymentHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	if req.ParticipantEmail == "" {
		req.ParticipantEmail, _ = auth.PrincipalFromContext(r.Context())
	}

	label := req.ClubName
	if model.PaymentType(req.PaymentType) == model.PaymentTypeEventRegistration {
		label = req.EventName
	}

	url, err := h.checkout.CreateSession(r.Context(), payments.CheckoutIntent{
		Fee:              req.Fee,
		Label:            label,
		ParticipantEmail: req.ParticipantEmail,
		PaymentType:      model.PaymentType(req.PaymentType),
		ClubID:           req.ClubID,
		EventID:          req.EventID,
		EventManager:     req.EventManager,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{URL: url})
}

// HandleVerifySession handles POST /verify-payment-session?sessionId=;
// authenticated. Every terminal outcome is a 200; the body tells the
// client whether a record was written now, earlier, or not at all.
func (h *PaymentHandler) HandleVerifySession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	result, err := h.checkout.Reconcile(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	switch result.Outcome {
	case service.OutcomeNotPaid:
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Payment not completed."})
	case service.OutcomeAlreadyReconciled:
		h.logger.Info("payment session already reconciled", "sessionId", sessionID)
		writeJSON(w, http.StatusOK, result)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}
