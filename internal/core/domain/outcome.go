package domain

import "net/http"

// Internal status codes carried in the response envelope.
const (
	StatusOK       = 0
	StatusRejected = -1
	StatusFailure  = -2
)

// Rejection is a terminal, client-visible refusal of a request.
type Rejection struct {
	Kind          Kind
	StatusMessage string
	Detail        string
	Code          int
	HTTPStatus    int
}

// Reject builds a validation-family rejection (code -1, HTTP 400).
func Reject(kind Kind, statusMessage, detail string) Rejection {
	return Rejection{
		Kind:          kind,
		StatusMessage: statusMessage,
		Detail:        detail,
		Code:          StatusRejected,
		HTTPStatus:    http.StatusBadRequest,
	}
}

// Response renders the rejection as an envelope.
func (r Rejection) Response() Response {
	return Response{
		HTTPStatus:    r.HTTPStatus,
		Status:        r.Code,
		StatusMessage: r.StatusMessage,
		Body:          r.Detail,
	}
}

// ValidationOutcome is either Valid(request) or Rejected(rejection).
// The zero value is not meaningful; use Valid or Rejected.
type ValidationOutcome struct {
	request   RegistrationRequest
	rejection *Rejection
}

func Valid(req RegistrationRequest) ValidationOutcome {
	return ValidationOutcome{request: req}
}

func Rejected(r Rejection) ValidationOutcome {
	return ValidationOutcome{rejection: &r}
}

// Request returns the validated request and true, or false when rejected.
func (o ValidationOutcome) Request() (RegistrationRequest, bool) {
	if o.rejection != nil {
		return RegistrationRequest{}, false
	}
	return o.request, true
}

// Rejection returns the rejection and true when the outcome is Rejected.
func (o ValidationOutcome) Rejection() (Rejection, bool) {
	if o.rejection == nil {
		return Rejection{}, false
	}
	return *o.rejection, true
}

// Row is one record returned by the store, keyed by column name.
type Row map[string]any

// QueryOutcome is the normalized result of a single statement.
type QueryOutcome struct {
	Rows     []Row
	Affected int64
}

// Statement is a parameterized persistence statement. Query uses `?`
// placeholders; Args are always bound, never interpolated.
type Statement struct {
	Query   string
	Args    []any
	Returns bool
}

// Response is the structured reply produced by the pipeline. HTTPStatus is
// mirrored on the transport status line and not serialized.
type Response struct {
	HTTPStatus    int    `json:"-"`
	Status        int    `json:"status"`
	StatusMessage string `json:"status_message"`
	Body          any    `json:"response"`
}

// Failure builds a system-failure response (code -2).
func Failure(httpStatus int, detail string) Response {
	return Response{
		HTTPStatus:    httpStatus,
		Status:        StatusFailure,
		StatusMessage: "Failure",
		Body:          detail,
	}
}

// Success builds a 200 response with status 0.
func Success(statusMessage string, body any) Response {
	return Response{
		HTTPStatus:    http.StatusOK,
		Status:        StatusOK,
		StatusMessage: statusMessage,
		Body:          body,
	}
}

// Int64 returns col as an int64, accepting the integer types SQL drivers
// produce.
func (r Row) Int64(col string) (int64, bool) {
	switch n := r[col].(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
