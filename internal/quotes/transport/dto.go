package transport

// ── Requests ──────────────────────────────────────────────────────────────────

// SubmitQuoteRequest is the contact form as posted by the site. Required-field
// checks happen in the submission flow so that they surface as a validation
// outcome with the user-facing message.
type SubmitQuoteRequest struct {
	Name         string  `json:"name" validate:"max=200"`
	Email        string  `json:"email" validate:"max=320"`
	Phone        string  `json:"phone" validate:"max=40"`
	City         string  `json:"city" validate:"max=120"`
	Service      string  `json:"service" validate:"max=60"`
	Budget       *string `json:"budget,omitempty" validate:"omitempty,max=60"`
	Message      string  `json:"message" validate:"max=5000"`
	CaptchaToken string  `json:"captchaToken" validate:"max=4096"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// SubmitQuoteResponse reports the outcome of one submission attempt.
type SubmitQuoteResponse struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId"`
	Kind         string `json:"kind,omitempty"`
	Cause        string `json:"cause,omitempty"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	FallbackLink string `json:"fallbackLink,omitempty"`
}

// Option is a selectable form value with its display label.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// FormOptionsResponse lists the service and budget choices of the form.
type FormOptionsResponse struct {
	Services []Option `json:"services"`
	Budgets  []Option `json:"budgets"`
}

// FormStatusResponse exposes the busy flag of the caller's form.
type FormStatusResponse struct {
	Busy  bool   `json:"busy"`
	State string `json:"state"`
}
