package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	bookingDomain "github.com/HanapBahay/service-booking/internal/domain/booking"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// sessionTTL is how long a created checkout session stays completable.
const sessionTTL = 24 * time.Hour

// Gateway creates checkout sessions with an external payment provider. It
// never mutates booking status; it only produces sessions and, via
// ReconcileRedirect, transition requests for the state machine to judge.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, bk *bookingDomain.Booking) (bookingDomain.CheckoutSession, error)
}

// PayMongoClient implements Gateway against the PayMongo REST API.
type PayMongoClient struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

// NewPayMongoClient creates a PayMongo client with a bounded HTTP timeout.
func NewPayMongoClient(baseURL, secretKey, successURL, cancelURL string) *PayMongoClient {
	return &PayMongoClient{
		baseURL:    baseURL,
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type checkoutSessionRequest struct {
	Data struct {
		Attributes struct {
			LineItems []struct {
				Name     string `json:"name"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
				Quantity int    `json:"quantity"`
			} `json:"line_items"`
			PaymentMethodTypes []string `json:"payment_method_types"`
			ReferenceNumber    string   `json:"reference_number"`
			Description        string   `json:"description"`
			SuccessURL         string   `json:"success_url"`
			CancelURL          string   `json:"cancel_url"`
		} `json:"attributes"`
	} `json:"data"`
}

type checkoutSessionResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			CheckoutURL string `json:"checkout_url"`
			ClientKey   string `json:"client_key"`
		} `json:"attributes"`
	} `json:"data"`
}

// CreateCheckoutSession constructs a provider session for the booking's
// total amount. The provider expects the amount in centavos.
func (c *PayMongoClient) CreateCheckoutSession(ctx context.Context, bk *bookingDomain.Booking) (bookingDomain.CheckoutSession, error) {
	centavos, err := toCentavos(bk.TotalAmount())
	if err != nil {
		return bookingDomain.CheckoutSession{}, err
	}

	var payload checkoutSessionRequest
	attrs := &payload.Data.Attributes
	attrs.LineItems = []struct {
		Name     string `json:"name"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Quantity int    `json:"quantity"`
	}{{
		Name:     fmt.Sprintf("Booking %s", bk.Reference()),
		Amount:   centavos,
		Currency: bk.Currency(),
		Quantity: 1,
	}}
	attrs.PaymentMethodTypes = []string{"gcash", "grab_pay", "card"}
	attrs.ReferenceNumber = bk.Reference()
	attrs.Description = fmt.Sprintf("Room booking %s", bk.Reference())
	attrs.SuccessURL = redirectWithBooking(c.successURL, bk.ID().String())
	attrs.CancelURL = redirectWithBooking(c.cancelURL, bk.ID().String())

	body, err := json.Marshal(payload)
	if err != nil {
		return bookingDomain.CheckoutSession{}, fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout_sessions", bytes.NewReader(body))
	if err != nil {
		return bookingDomain.CheckoutSession{}, fmt.Errorf("failed to build checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.secretKey, "")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return bookingDomain.CheckoutSession{}, domain.NewUnavailableError("payment gateway unreachable")
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 500 {
		return bookingDomain.CheckoutSession{}, domain.NewUnavailableError("payment gateway unavailable")
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return bookingDomain.CheckoutSession{}, domain.NewUnavailableError(
			fmt.Sprintf("payment gateway rejected checkout session (%d): %s", res.StatusCode, string(raw)))
	}

	var parsed checkoutSessionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return bookingDomain.CheckoutSession{}, fmt.Errorf("failed to parse checkout session response: %w", err)
	}

	return bookingDomain.CheckoutSession{
		PaymentID:   parsed.Data.ID,
		ClientKey:   parsed.Data.Attributes.ClientKey,
		CheckoutURL: parsed.Data.Attributes.CheckoutURL,
		ExpiresAt:   time.Now().UTC().Add(sessionTTL),
	}, nil
}

// toCentavos converts the decimal amount to the gateway's integer unit.
// A non-positive amount surfaces like an unreachable gateway so the client
// offers the same retry affordance for both failure modes.
func toCentavos(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, domain.NewUnavailableError("booking has no resolvable payment amount")
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func redirectWithBooking(base, bookingID string) string {
	return base + "?booking_id=" + bookingID
}
