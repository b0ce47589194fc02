package mail

import (
	"fmt"
	"log"

	"github.com/talentr-app/talentr/app/models"
	"github.com/talentr-app/talentr/internal/pkg/links"
)

// All notification senders are fire-and-forget: the returned error is for
// the caller's log line only and must never fail the primary operation.

// SendVendorMagicLink mails the passwordless edit link to a vendor.
func SendVendorMagicLink(vendor *models.Vendor) error {
	if vendor.Email == "" {
		log.Printf("vendor %d has no email, skipping magic link mail", vendor.ID)
		return nil
	}
	editLink := links.VendorEdit(vendor.EditToken)
	body := fmt.Sprintf(
		`<p>שלום %s,</p>
<p>הפרופיל שלך ב-Talentr מוכן. ניהול הפרופיל, המופעים והבקשות נעשה דרך הקישור האישי שלך:</p>
<p><a href="%s">%s</a></p>
<p>שמור על הקישור הזה — הוא מפתח הגישה שלך.</p>`,
		vendor.Name, editLink, editLink,
	)
	return SendMail(vendor.Email, "הקישור האישי שלך ל-Talentr", body)
}

// SendOnboardingInvite mails the confirmation link to a pending vendor.
func SendOnboardingInvite(pending *models.PendingVendor) error {
	if pending.Email == "" {
		log.Printf("pending vendor %d has no email, skipping invite mail", pending.ID)
		return nil
	}
	inviteLink := links.OnboardingInvite(pending.ConfirmationToken)
	body := fmt.Sprintf(
		`<p>שלום %s,</p>
<p>הוזמנת להצטרף ל-Talentr — פלטפורמת ספקי האירועים של ישראל.</p>
<p>לאישור הפרופיל שלך:</p>
<p><a href="%s">%s</a></p>`,
		pending.Name, inviteLink, inviteLink,
	)
	return SendMail(pending.Email, "הוזמנת להצטרף ל-Talentr", body)
}

// SendBookingOutcome mails the client the vendor's confirm/reject decision.
func SendBookingOutcome(booking *models.BookingRequest, vendorName string) error {
	if booking.ClientEmail == "" {
		return nil
	}

	var subject, body string
	switch booking.Status {
	case models.BookingStatusConfirmed:
		subject = fmt.Sprintf("%s אישר את הבקשה שלך", vendorName)
		body = fmt.Sprintf("<p>שלום %s,</p><p>%s אישר את בקשת ההזמנה שלך.</p>", booking.ClientName, vendorName)
		if booking.QuotedPrice != nil {
			body += fmt.Sprintf("<p>מחיר מוצע: ₪%.2f</p>", float64(*booking.QuotedPrice)/100)
		}
	case models.BookingStatusRejected:
		subject = fmt.Sprintf("עדכון על הבקשה שלך מ-%s", vendorName)
		body = fmt.Sprintf("<p>שלום %s,</p><p>%s לא יכול לקבל את הבקשה הפעם.</p>", booking.ClientName, vendorName)
	default:
		return nil
	}
	if booking.VendorResponse != "" {
		body += fmt.Sprintf("<p>הודעה מהספק: %s</p>", booking.VendorResponse)
	}

	return SendMail(booking.ClientEmail, subject, body)
}
