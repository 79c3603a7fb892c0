package template

// Stable template ids used by the notification pipeline.
const (
	ContactConfirmation  = "contact-confirmation"
	ContactNotification  = "contact-notification"
	FeedbackConfirmation = "feedback-confirmation"
	FeedbackNotification = "feedback-notification"
)

// staticTemplates is the compiled-in fallback set. Customer-facing templates
// may be overridden by an active database row; the *-notification templates
// are only ever rendered from here.
var staticTemplates = map[string]Template{
	ContactConfirmation: {
		TemplateID: ContactConfirmation,
		Subject:    "Thanks for reaching out to AMP Vending, [FirstName]!",
		Body: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #FD5A1E;">Thank You for Contacting AMP Vending</h2>
  <p>Hi [FirstName],</p>
  <p>We received your inquiry about premium vending solutions for <strong>[CompanyName]</strong>.
  A member of our team will get back to you within one business day.</p>
  <p>In the meantime, feel free to browse our machine catalog or reply to this
  email with any additional details about your workplace.</p>
  <p style="margin-top: 24px;">Best regards,<br>The AMP Vending Team</p>
  <hr style="border: none; border-top: 1px solid #ddd; margin: 24px 0;">
  <p style="color: #888; font-size: 12px;">AMP Design &amp; Consulting &middot; Modesto, CA</p>
</div>`,
	},
	ContactNotification: {
		TemplateID: ContactNotification,
		Subject:    "New contact form submission from [FirstName] [LastName]",
		Body: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Contact Form Submission</h2>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 6px; font-weight: bold;">Name</td><td style="padding: 6px;">[FirstName] [LastName]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Email</td><td style="padding: 6px;">[Email]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Phone</td><td style="padding: 6px;">[Phone]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Company</td><td style="padding: 6px;">[CompanyName]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Submitted</td><td style="padding: 6px;">[SubmittedAt]</td></tr>
  </table>
  <h3>Message</h3>
  <p style="white-space: pre-wrap; background: #f6f6f6; padding: 12px;">[Message]</p>
</div>`,
	},
	FeedbackConfirmation: {
		TemplateID: FeedbackConfirmation,
		Subject:    "We received your feedback, [Name]",
		Body: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #FD5A1E;">Thank You for Your Feedback</h2>
  <p>Hi [Name],</p>
  <p>Your [Category] feedback has been received and routed to the right team.
  Because you agreed to be contacted, we may follow up at this address.</p>
  <p style="margin-top: 24px;">Best regards,<br>The AMP Vending Team</p>
</div>`,
	},
	FeedbackNotification: {
		TemplateID: FeedbackNotification,
		Subject:    "[Category] feedback from [Name]",
		Body: `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Feedback Submission</h2>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 6px; font-weight: bold;">Name</td><td style="padding: 6px;">[Name]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Email</td><td style="padding: 6px;">[Email]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Category</td><td style="padding: 6px;">[Category]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Location</td><td style="padding: 6px;">[LocationName]</td></tr>
    <tr><td style="padding: 6px; font-weight: bold;">Submitted</td><td style="padding: 6px;">[SubmittedAt]</td></tr>
  </table>
  <h3>Message</h3>
  <p style="white-space: pre-wrap; background: #f6f6f6; padding: 12px;">[Message]</p>
</div>`,
	},
}
