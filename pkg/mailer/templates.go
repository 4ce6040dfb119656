package mailer

// Email bodies kept inline. Move to embedded files if they grow.

const cashoutRequestedTmpl = `<html><body>
<p>Hi {{.FirstName}},</p>
<p>We received your cashout request for <strong>{{.Amount}}</strong>. It is pending review and you will hear from us once it is processed.</p>
<p>VendaPoint</p>
</body></html>`

const welcomeTmpl = `<html><body>
<p>Hi {{.FirstName}},</p>
<p>Your member account <strong>{{.MemberNumber}}</strong> is ready. Your referral code is <strong>{{.ReferralCode}}</strong>.</p>
<p>VendaPoint</p>
</body></html>`

// CashoutRequestedData feeds the cashout confirmation email.
type CashoutRequestedData struct {
	FirstName string
	Amount    string
}

// WelcomeData feeds the account welcome email.
type WelcomeData struct {
	FirstName    string
	MemberNumber string
	ReferralCode string
}

// RenderCashoutRequested renders the cashout confirmation body.
func RenderCashoutRequested(data CashoutRequestedData) (string, error) {
	return RenderTemplate("cashout_requested", cashoutRequestedTmpl, data)
}

// RenderWelcome renders the welcome body.
func RenderWelcome(data WelcomeData) (string, error) {
	return RenderTemplate("welcome", welcomeTmpl, data)
}
