package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	httppkg "github.com/piresc/busfleet/internal/pkg/http"
	"github.com/piresc/busfleet/internal/pkg/logger"
	"github.com/piresc/busfleet/internal/pkg/models"
	"github.com/piresc/busfleet/internal/utils"
	"github.com/piresc/busfleet/services/reservation"
)

const (
	chargePath = "/v1/charges"
	refundPath = "/v1/refunds"
)

type paymentGW struct {
	client *httppkg.EnhancedClient
}

// NewPaymentGW creates a payment gateway calling the processor over HTTP
func NewPaymentGW(client *httppkg.EnhancedClient) reservation.PaymentGW {
	return &paymentGW{client: client}
}

// Charge requests a charge and returns the processor transaction id
func (g *paymentGW) Charge(ctx context.Context, amount float64, method models.PaymentMethod, reference string) (string, error) {
	var resp models.ChargeResponse
	err := g.client.PostJSON(ctx, chargePath, models.ChargeRequest{
		Amount:    amount,
		Method:    method,
		Reference: reference,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("charge failed: %w", err)
	}
	if !strings.EqualFold(resp.Status, string(models.PaymentStatusCompleted)) || resp.TransactionID == "" {
		return "", fmt.Errorf("charge declined: %s", resp.Message)
	}
	return resp.TransactionID, nil
}

// Refund returns a previous charge
func (g *paymentGW) Refund(ctx context.Context, transactionID string, amount float64) (string, error) {
	var resp models.RefundResponse
	err := g.client.PostJSON(ctx, refundPath, models.RefundRequest{
		TransactionID: transactionID,
		Amount:        amount,
	}, &resp)
	if err != nil {
		var httpErr *httppkg.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusConflict {
			return "", fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyRefunded, transactionID)
		}
		return "", fmt.Errorf("refund failed: %w", err)
	}
	return resp.Confirmation, nil
}

type simulatedPaymentGW struct{}

// NewSimulatedPaymentGW creates a processor that approves every charge and
// refund, used when no payment gateway is configured
func NewSimulatedPaymentGW() reservation.PaymentGW {
	return simulatedPaymentGW{}
}

func (simulatedPaymentGW) Charge(ctx context.Context, amount float64, method models.PaymentMethod, reference string) (string, error) {
	txnID, err := utils.GenerateNumericCode("TXN", 12)
	if err != nil {
		return "", err
	}
	logger.InfoCtx(ctx, "Simulated charge approved",
		logger.String("reference", reference),
		logger.String("method", string(method)),
		logger.Float64("amount", amount),
		logger.String("transaction_id", txnID))
	return txnID, nil
}

func (simulatedPaymentGW) Refund(ctx context.Context, transactionID string, amount float64) (string, error) {
	confirmation, err := utils.GenerateNumericCode("RFD", 10)
	if err != nil {
		return "", err
	}
	logger.InfoCtx(ctx, "Simulated refund processed",
		logger.String("transaction_id", transactionID),
		logger.Float64("amount", amount))
	return confirmation, nil
}
