package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/valencire/backend/internal/models"
)

// WelcomeBody renders the signup welcome mail.
func WelcomeBody(firstName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0;background:#0a0a0a;font-family:Arial,sans-serif;color:#f5f5f5;">
  <div style="max-width:600px;margin:40px auto;padding:50px;border:1px solid rgba(255,255,255,0.12);border-radius:24px;">
    <h1 style="text-align:center;font-weight:300;letter-spacing:6px;">WELCOME TO VALENCIRE</h1>
    <h1 style="text-align:center;font-weight:300;letter-spacing:6px;">%s</h1>
    <p style="opacity:.85;line-height:1.8;">You are now part of an exclusive community built on precision, craftsmanship, and unapologetic luxury.</p>
    <p>As a member, you receive:</p>
    <ul>
      <li>Early access to collections</li>
      <li>Exclusive member pricing</li>
      <li>Priority support</li>
      <li>Private releases</li>
    </ul>
    <div style="margin-top:40px;text-align:center;font-size:12px;opacity:.5;">VALENCIRE</div>
  </div>
</body>
</html>`, html.EscapeString(strings.ToUpper(firstName)))
}

// ResetBody renders the password-reset mail with a link embedding the
// single-use token.
func ResetBody(firstName, resetLink string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0;background:#0a0a0a;font-family:Arial,sans-serif;color:#f5f5f5;">
  <div style="max-width:600px;margin:40px auto;padding:50px;border:1px solid rgba(255,255,255,0.12);border-radius:24px;">
    <h1 style="text-align:center;font-weight:300;letter-spacing:6px;">RESET YOUR PASSWORD</h1>
    <p style="opacity:.85;line-height:1.8;">Hello %s, we received a request to reset your password. This link expires in one hour.</p>
    <a href="%s" style="display:block;margin:40px auto;padding:16px 40px;background:#7f5cff;color:#fff;text-decoration:none;border-radius:999px;text-align:center;">RESET PASSWORD</a>
    <p style="font-size:12px;opacity:.5;">If you did not request this, you can ignore this email.</p>
  </div>
</body>
</html>`, html.EscapeString(firstName), resetLink)
}

// OrderConfirmationBody renders the order confirmation mail with line items
// and the monetary summary.
func OrderConfirmationBody(order models.Order) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, `<tr>
      <td style="padding:16px 0;"><strong>%s</strong><br><span style="opacity:.6">Size: %s x %d</span></td>
      <td align="right">Rs %.2f</td>
    </tr>`,
			html.EscapeString(item.Name), html.EscapeString(item.Size),
			item.Quantity, item.Price*float64(item.Quantity))
	}

	shipping := fmt.Sprintf("Rs %.2f", order.Shipping)
	if order.Shipping == 0 {
		shipping = "FREE"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0;background:#0a0a0a;font-family:Arial,sans-serif;color:#f5f5f5;">
  <div style="max-width:700px;margin:40px auto;padding:50px;border:1px solid rgba(255,255,255,0.12);border-radius:24px;">
    <h1 style="text-align:center;font-weight:300;letter-spacing:6px;">ORDER CONFIRMED</h1>
    <div style="text-align:center;margin:30px 0;letter-spacing:3px;opacity:.8;">Order #%s</div>
    <p>Thank you, %s. Your order is being prepared.</p>
    <table style="width:100%%;border-collapse:collapse;">%s</table>
    <div style="margin-top:30px;padding-top:20px;border-top:1px solid rgba(255,255,255,0.1);">
      <p>Subtotal: Rs %.2f</p>
      <p>Shipping: %s</p>
      <h3>Total: Rs %.2f</h3>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(order.OrderNumber),
		html.EscapeString(order.CustomerName),
		items.String(),
		order.Subtotal, shipping, order.Total)
}
