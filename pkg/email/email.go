// Package email, bildirim e-postalarının gönderimini soyutlar.
//
// Service katmanı yalnızca Notifier interface'ini bilir. Şu anki
// implementasyon Resend API kullanır; RESEND_API_KEY tanımlı değilse
// main.go notifier'ı hiç oluşturmaz ve e-posta adımı atlanır.
package email

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v3"
)

// Notifier, sosyal olaylar için e-posta gönderen interface.
type Notifier interface {
	// SendFriendRequest, toEmail adresine fromName'den gelen arkadaşlık
	// isteğini bildirir.
	SendFriendRequest(ctx context.Context, toEmail, toName, fromName string) error
}

type resendNotifier struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

// NewResendNotifier, Resend client'ı ile bir Notifier oluşturur.
// fromEmail Resend'de doğrulanmış bir domain altında olmalıdır.
func NewResendNotifier(apiKey, fromEmail, appURL string) Notifier {
	return &resendNotifier{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

func (n *resendNotifier) SendFriendRequest(ctx context.Context, toEmail, toName, fromName string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("heAlthy <%s>", n.fromEmail),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s wants to be your friend on heAlthy", fromName),
		Html:    friendRequestHTML(toName, fromName, n.appURL+"/friends"),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send friend request email: %w", err)
	}
	return nil
}

// friendRequestHTML, bildirim gövdesini üretir. İsimler kullanıcı girdisi
// olduğu için HTML-escape edilir.
func friendRequestHTML(toName, fromName, link string) string {
	to := html.EscapeString(toName)
	from := html.EscapeString(fromName)
	href := html.EscapeString(link)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background-color:#f4f7f2;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
          <tr>
            <td>
              <h1 style="color:#3f5a36;font-size:22px;margin:0 0 16px 0;">heAlthy</h1>
              <p style="color:#334155;font-size:15px;line-height:1.6;margin:0 0 16px 0;">Hi %s,</p>
              <p style="color:#334155;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                <strong>%s</strong> sent you a friend request. Accept it to share progress, meals and messages.
              </p>
              <a href="%s" style="background-color:#5b8a4c;color:#ffffff;text-decoration:none;padding:12px 28px;border-radius:6px;font-weight:600;">
                View request
              </a>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, to, from, href)
}
