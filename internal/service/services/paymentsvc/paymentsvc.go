package paymentsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/corray333/backend-labs/dukan/internal/service/models/order"
	"github.com/corray333/backend-labs/dukan/internal/service/models/payment"
	"github.com/corray333/backend-labs/dukan/pkg/deeplink"
	"go.opentelemetry.io/otel"
)

const (
	DefaultPayeeName = "Dukan.AI Store"
	DefaultQRCodeURL = "https://api.qrserver.com/v1/create-qr-code/"

	currency   = "INR"
	qrCodeSize = "250x250"
)

var (
	ErrNotPayable = errors.New("order is not awaiting payment")
	ErrNoContact  = errors.New("customer has no whatsapp number")
)

type orders interface {
	Order(id string) (order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
}

// PaymentService collects payment for orders at pickup.
type PaymentService struct {
	orders    orders
	payeeID   string
	payeeName string
	qrCodeURL string
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{
		payeeName: DefaultPayeeName,
		qrCodeURL: DefaultQRCodeURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.orders == nil {
		panic("payment service requires an order service")
	}
	if s.payeeID == "" {
		panic("payment service requires a payee UPI id")
	}

	return s
}

// WithOrderService sets the orders payments are collected for.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderService(o orders) option {
	return func(s *PaymentService) {
		s.orders = o
	}
}

// WithPayee sets the UPI id money is paid to and the name shown to the
// customer. An empty name keeps the default.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPayee(upiID, name string) option {
	return func(s *PaymentService) {
		s.payeeID = upiID
		if name != "" {
			s.payeeName = name
		}
	}
}

// WithQRCodeURL sets the image service that renders payment links.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithQRCodeURL(u string) option {
	return func(s *PaymentService) {
		if u != "" {
			s.qrCodeURL = u
		}
	}
}

// PaymentRequest builds the UPI request for a PREPARING order.
func (s *PaymentService) PaymentRequest(ctx context.Context, orderID string) (payment.Request, error) {
	_, span := otel.Tracer("service").Start(ctx, "PaymentService.PaymentRequest")
	defer span.End()

	o, err := s.payable(orderID)
	if err != nil {
		return payment.Request{}, err
	}

	amount := o.Total.StringFixed(2)
	tid := alphanumeric(o.ID)
	note := "Payment for Order " + o.ID
	link := deeplink.UPI(
		deeplink.Param{Key: "pa", Value: s.payeeID},
		deeplink.Param{Key: "pn", Value: s.payeeName},
		deeplink.Param{Key: "am", Value: amount},
		deeplink.Param{Key: "tid", Value: tid},
		deeplink.Param{Key: "tn", Value: note},
		deeplink.Param{Key: "cu", Value: currency},
	)

	return payment.Request{
		OrderID:       o.ID,
		Amount:        o.Total.Round(2),
		Currency:      currency,
		PayeeName:     s.payeeName,
		PayeeUPIID:    s.payeeID,
		TransactionID: tid,
		Note:          note,
		URL:           link,
		QRCodeURL:     s.qrCodeURL + "?size=" + qrCodeSize + "&data=" + deeplink.EncodeComponent(link),
	}, nil
}

// ConfirmPayment completes a PREPARING order once the customer has paid.
// Like UpdateStatus, it may return the completed order with an error.
func (s *PaymentService) ConfirmPayment(ctx context.Context, orderID string) (order.Order, error) {
	ctx, span := otel.Tracer("service").Start(ctx, "PaymentService.ConfirmPayment")
	defer span.End()

	if _, err := s.payable(orderID); err != nil {
		return order.Order{}, err
	}

	o, err := s.orders.UpdateStatus(ctx, orderID, order.StatusCompleted)
	if err != nil && o.ID == "" {
		return order.Order{}, fmt.Errorf("failed to complete order: %w", err)
	}

	slog.Info("Payment confirmed", "order_id", orderID, "total", o.Total.String())

	return o, err
}

// Contact returns the WhatsApp chat link for the customer of an order.
func (s *PaymentService) Contact(ctx context.Context, orderID string) (payment.Contact, error) {
	_, span := otel.Tracer("service").Start(ctx, "PaymentService.Contact")
	defer span.End()

	o, err := s.orders.Order(orderID)
	if err != nil {
		return payment.Contact{}, err
	}

	link, ok := deeplink.WhatsApp(o.Customer.WhatsappNumber)
	if !ok {
		return payment.Contact{}, ErrNoContact
	}

	return payment.Contact{
		OrderID:        o.ID,
		Name:           o.Customer.Name,
		WhatsappNumber: o.Customer.WhatsappNumber,
		URL:            link,
	}, nil
}

func (s *PaymentService) payable(orderID string) (order.Order, error) {
	o, err := s.orders.Order(orderID)
	if err != nil {
		return order.Order{}, err
	}
	if o.Status != order.StatusPreparing {
		return order.Order{}, fmt.Errorf("%w: order %s is %s", ErrNotPayable, o.ID, o.Status)
	}

	return o, nil
}

func alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}

		return -1
	}, s)
}
