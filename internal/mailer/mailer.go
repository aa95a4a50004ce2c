package mailer

import (
	"crypto/tls"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"

	"github.com/cafe-fusion/api/internal/config"
	"github.com/cafe-fusion/api/internal/database"
)

// Mailer sends order confirmation emails over SMTPS. When no SMTP host is
// configured it logs and skips, so local development works without a relay.
type Mailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	logger   *slog.Logger

	// dial opens the connection to the relay. The default dials with
	// implicit TLS; tests swap in a plain dialer.
	dial func(addr string) (net.Conn, error)
}

func New(cfg *config.Config, logger *slog.Logger) *Mailer {
	m := &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		logger:   logger,
	}
	m.dial = func(addr string) (net.Conn, error) {
		return tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	}
	return m
}

// SendOrderConfirmation emails the customer a receipt. It never returns an
// error: a lost email must not fail or roll back a placed order, so failures
// are logged and swallowed. Call it in a goroutine after commit.
func (m *Mailer) SendOrderConfirmation(order database.Order, items []database.OrderItem) {
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return
	}
	to := *order.CustomerEmail

	if m.host == "" {
		m.logger.Info("smtp not configured, skipping order confirmation",
			"order_id", order.ID, "to", to)
		return
	}

	msg := m.buildMessage(to, order, items)

	if err := m.send(to, msg); err != nil {
		m.logger.Error("send order confirmation failed",
			"order_id", order.ID, "to", to, "error", err)
		return
	}
	m.logger.Info("order confirmation sent", "order_id", order.ID, "to", to)
}

// send speaks SMTP over an implicitly encrypted connection. An SMTPS relay
// (port 465) expects a TLS handshake before sending its greeting, so
// smtp.SendMail, which starts in plaintext and upgrades via STARTTLS, would
// deadlock against it.
func (m *Mailer) send(to string, msg []byte) error {
	conn, err := m.dial(net.JoinHostPort(m.host, m.port))
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if m.user != "" {
		if err := c.Auth(smtp.PlainAuth("", m.user, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp data write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}

// buildMessage renders the receipt as multipart/alternative: a plain-text
// part for minimal clients, an HTML part for everything else.
func (m *Mailer) buildMessage(to string, order database.Order, items []database.OrderItem) []byte {
	var b strings.Builder
	mw := multipart.NewWriter(&b)

	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Order #%d confirmed\r\n", order.ID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n", mw.Boundary())
	b.WriteString("\r\n")

	text, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	writeTextBody(text, order, items)

	htmlPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	writeHTMLBody(htmlPart, order, items)

	mw.Close()
	return []byte(b.String())
}

func writeTextBody(w io.Writer, order database.Order, items []database.OrderItem) {
	fmt.Fprintf(w, "Hi %s,\r\n\r\n", order.CustomerName)
	fmt.Fprintf(w, "Thanks for your order! Here is your receipt for order #%d.\r\n\r\n", order.ID)
	for _, it := range items {
		fmt.Fprintf(w, "  %dx %s  %s\r\n", it.Quantity, it.Name, formatCents(it.LineTotalCents))
	}
	fmt.Fprintf(w, "\r\n")
	fmt.Fprintf(w, "Subtotal: %s\r\n", formatCents(order.SubtotalCents))
	if order.DiscountCents > 0 {
		fmt.Fprintf(w, "Discount%s: -%s\r\n", couponSuffix(order), formatCents(order.DiscountCents))
	}
	fmt.Fprintf(w, "Total: %s\r\n\r\n", formatCents(order.TotalCents))
	fmt.Fprintf(w, "We'll let you know when it's on the way.\r\n")
}

func writeHTMLBody(w io.Writer, order database.Order, items []database.OrderItem) {
	fmt.Fprintf(w, "<html><body style=\"font-family: sans-serif; color: #333;\">\r\n")
	fmt.Fprintf(w, "<h2>Hi %s,</h2>\r\n", html.EscapeString(order.CustomerName))
	fmt.Fprintf(w, "<p>Thanks for your order! Here is your receipt for order #%d.</p>\r\n", order.ID)
	fmt.Fprintf(w, "<table cellpadding=\"6\">\r\n")
	fmt.Fprintf(w, "<tr><th align=\"left\">Item</th><th>Qty</th><th align=\"right\">Price</th></tr>\r\n")
	for _, it := range items {
		fmt.Fprintf(w, "<tr><td>%s</td><td align=\"center\">%d</td><td align=\"right\">%s</td></tr>\r\n",
			html.EscapeString(it.Name), it.Quantity, formatCents(it.LineTotalCents))
	}
	fmt.Fprintf(w, "</table>\r\n")
	fmt.Fprintf(w, "<p>Subtotal: %s<br>\r\n", formatCents(order.SubtotalCents))
	if order.DiscountCents > 0 {
		fmt.Fprintf(w, "Discount%s: -%s<br>\r\n", html.EscapeString(couponSuffix(order)), formatCents(order.DiscountCents))
	}
	fmt.Fprintf(w, "<strong>Total: %s</strong></p>\r\n", formatCents(order.TotalCents))
	fmt.Fprintf(w, "<p>We'll let you know when it's on the way.</p>\r\n")
	fmt.Fprintf(w, "</body></html>\r\n")
}

func couponSuffix(order database.Order) string {
	if order.CouponCode == nil {
		return ""
	}
	return " (" + *order.CouponCode + ")"
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
