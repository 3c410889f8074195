package service

import (
	"dumarte_backend/platform/apperr"

	"github.com/google/uuid"
)

// ErrorKind is the failure taxonomy of a submission attempt.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindCaptcha    ErrorKind = "captcha"
	KindDelivery   ErrorKind = "delivery"
)

// Cause narrows a failure kind to the check or collaborator that failed.
type Cause string

const (
	CauseMissingFields         Cause = "missing_fields"
	CauseInvalidEmail          Cause = "invalid_email"
	CauseInvalidPhone          Cause = "invalid_phone"
	CauseCaptchaUnavailable    Cause = "captcha_unavailable"
	CauseCaptchaRejected       Cause = "captcha_rejected"
	CauseUnauthorizedRecipient Cause = "unauthorized_recipient"
	CauseRejectedFields        Cause = "rejected_fields"
	CauseMailUpstream          Cause = "mail_upstream"
	CauseConnectivity          Cause = "connectivity"
	CauseServer                Cause = "server"
)

const (
	successTitle = "¡Éxito!"
	failureTitle = "Oops..."

	successMessage = "¡Cotización enviada exitosamente! 🎉\n\nNos pondremos en contacto contigo en menos de 24 horas."
	failureLeadIn  = "Ocurrió un error al enviar tu cotización. "
	fallbackClause = "\n\nPuedes contactarnos directamente por WhatsApp o teléfono."
)

var validationMessages = map[Cause]string{
	CauseMissingFields: "Por favor completa todos los campos obligatorios marcados con *",
	CauseInvalidEmail:  "Por favor ingresa un correo electrónico válido",
	CauseInvalidPhone:  "Por favor ingresa un número de teléfono válido",
}

var causeClauses = map[Cause]string{
	CauseCaptchaUnavailable:    "Hubo un problema con la verificación de seguridad.",
	CauseCaptchaRejected:       "Hubo un problema con la verificación de seguridad.",
	CauseUnauthorizedRecipient: "Servicio temporalmente no disponible.",
	CauseRejectedFields:        "Faltan campos obligatorios en el formulario.",
	CauseMailUpstream:          "El servidor de correo no respondió. Por favor intenta nuevamente.",
	CauseConnectivity:          "Verifica tu conexión a internet.",
	CauseServer:                "Por favor intenta nuevamente.",
}

// Outcome is the result of one submission attempt. Title and Message are the
// user-visible feedback; Detail is diagnostic and never shown to the user.
type Outcome struct {
	SubmissionID uuid.UUID
	Success      bool
	Kind         ErrorKind
	Cause        Cause
	Detail       string
	Title        string
	Message      string
	FallbackLink string
}

func succeeded(id uuid.UUID) Outcome {
	return Outcome{
		SubmissionID: id,
		Success:      true,
		Title:        successTitle,
		Message:      successMessage,
	}
}

func failed(id uuid.UUID, kind ErrorKind, cause Cause, detail, fallbackLink string) Outcome {
	return Outcome{
		SubmissionID: id,
		Kind:         kind,
		Cause:        cause,
		Detail:       detail,
		Title:        failureTitle,
		Message:      FailureMessage(kind, cause),
		FallbackLink: fallbackLink,
	}
}

// FailureMessage composes the user-visible text for a failure. Validation
// failures re-prompt for the field; every other failure gets the lead-in, the
// cause clause and the alternate contact suggestion.
func FailureMessage(kind ErrorKind, cause Cause) string {
	if kind == KindValidation {
		if msg, ok := validationMessages[cause]; ok {
			return msg
		}
		return validationMessages[CauseMissingFields]
	}
	clause, ok := causeClauses[cause]
	if !ok {
		clause = causeClauses[CauseServer]
	}
	return failureLeadIn + clause + fallbackClause
}

// Err maps a failed outcome onto the domain error taxonomy. It returns nil for
// a successful outcome.
func (o Outcome) Err() *apperr.Error {
	if o.Success {
		return nil
	}
	var err *apperr.Error
	switch o.Kind {
	case KindValidation:
		err = apperr.Validation(o.Message)
	case KindCaptcha:
		err = apperr.Forbidden(o.Message)
	default:
		err = apperr.Unavailable(o.Message)
	}
	return err.WithOp("quotes.Submit")
}
