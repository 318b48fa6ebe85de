package payment

import "github.com/shopspring/decimal"

// Request is a UPI payment request for an order being picked up. URL is the
// upi://pay link; QRCodeURL renders it as a scannable image.
type Request struct {
	OrderID       string          `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PayeeName     string          `json:"payeeName"`
	PayeeUPIID    string          `json:"payeeUpiId"`
	TransactionID string          `json:"transactionId"`
	Note          string          `json:"note"`
	URL           string          `json:"url"`
	QRCodeURL     string          `json:"qrCodeUrl"`
}

// Contact is how the operator reaches the customer of an order.
type Contact struct {
	OrderID        string `json:"orderId"`
	Name           string `json:"name"`
	WhatsappNumber string `json:"whatsappNumber"`
	URL            string `json:"url"`
}
