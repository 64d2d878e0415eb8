package usecase

import "errors"

const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeSubmissionRejected    = "SUBMISSION_REJECTED"
	CodeSubmissionFailed      = "SUBMISSION_FAILED"
	CodeNotifierNotConfigured = "NOTIFIER_NOT_CONFIGURED"
)

// User-facing texts, shown as-is by the site forms.
const (
	MsgInvalidPhone     = "Пожалуйста, введите корректный российский номер телефона"
	MsgSubmissionFailed = "Произошла ошибка при отправке заявки. Пожалуйста, попробуйте позже."
)

// DomainError is a problem with the input. It never reaches the network.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a failure past validation: the notifier rejected the lead
// or could not be reached. Err keeps the cause for logs.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
