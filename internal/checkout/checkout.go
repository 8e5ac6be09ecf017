package checkout

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"atithi/internal/assistant"
	"atithi/internal/session"
	"atithi/internal/store"
)

// Artifacts are the hand-off payloads the UI renders after an order is
// confirmed: a WhatsApp message link for the restaurant and a UPI
// payment QR for the guest.
type Artifacts struct {
	OrderID      uint    `json:"orderId"`
	Total        float64 `json:"total"`
	WhatsAppLink string  `json:"whatsappLink"`
	UPIQRCode    string  `json:"upiQrCode"` // base64 PNG data URL
}

// Service turns a confirmed session cart into a persisted order plus
// its hand-off artifacts.
type Service struct {
	orders *store.Store
	info   assistant.RestaurantInfo
}

// NewService builds the checkout service. The order store may be nil
// when persistence is disabled; artifacts are still produced.
func NewService(orders *store.Store, info assistant.RestaurantInfo) *Service {
	return &Service{orders: orders, info: info}
}

// Confirm persists the session cart as an order and builds the hand-off
// artifacts.
func (s *Service) Confirm(sess *session.Session) (*Artifacts, error) {
	if !sess.HasItems() {
		return nil, fmt.Errorf("session %s has no items to check out", sess.ID)
	}

	order := &store.Order{
		SessionID: sess.ID,
		Total:     sess.Total(),
		Status:    "confirmed",
	}
	for _, line := range sess.Lines {
		order.Lines = append(order.Lines, store.OrderLine{
			ItemName:  line.ItemName,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	if s.orders != nil {
		if err := s.orders.CreateOrder(order); err != nil {
			return nil, err
		}
	}

	qr, err := s.upiQRCode(order.Total)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		OrderID:      order.ID,
		Total:        order.Total,
		WhatsAppLink: s.whatsAppLink(sess),
		UPIQRCode:    qr,
	}, nil
}

// whatsAppLink builds a wa.me link with the order summary prefilled.
func (s *Service) whatsAppLink(sess *session.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "নমস্কার %s! আমার অর্ডার:\n", s.info.Name)
	for _, line := range sess.Lines {
		fmt.Fprintf(&b, "• %dx %s - ₹%.0f\n", line.Quantity, line.ItemName, line.UnitPrice*float64(line.Quantity))
	}
	fmt.Fprintf(&b, "মোট: ₹%.0f", sess.Total())
	return "https://wa.me/" + s.info.WhatsApp + "?text=" + url.QueryEscape(b.String())
}

// upiQRCode encodes a UPI payment intent for the order total as a PNG
// data URL.
func (s *Service) upiQRCode(total float64) (string, error) {
	intent := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR",
		s.info.UPIID, url.QueryEscape(s.info.Name), total)
	png, err := qrcode.Encode(intent, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode UPI QR: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
