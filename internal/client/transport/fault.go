package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the class of a failed call.
type Kind string

const (
	KindClient              Kind = "ClientFault"
	KindAuthentication      Kind = "AuthenticationFault"
	KindAuthorization       Kind = "AuthorizationFault"
	KindNotFound            Kind = "NotFoundFault"
	KindServer              Kind = "ServerFault"
	KindUpstreamUnavailable Kind = "UpstreamUnavailableFault"
	KindUnclassified        Kind = "UnclassifiedFault"
)

var (
	ErrClient              = errors.New("request did not reach the server")
	ErrAuthentication      = errors.New("authentication required")
	ErrAuthorization       = errors.New("access denied")
	ErrNotFound            = errors.New("resource not found")
	ErrServer              = errors.New("internal server error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUnclassified        = errors.New("unclassified failure")
)

var kindErrors = map[Kind]error{
	KindClient:              ErrClient,
	KindAuthentication:      ErrAuthentication,
	KindAuthorization:       ErrAuthorization,
	KindNotFound:            ErrNotFound,
	KindServer:              ErrServer,
	KindUpstreamUnavailable: ErrUpstreamUnavailable,
	KindUnclassified:        ErrUnclassified,
}

// Err returns the sentinel matched by faults of this kind.
func (k Kind) Err() error { return kindErrors[k] }

// Fault is a classified failed call. Status is 0 when no response arrived;
// Cause then holds the transport error.
type Fault struct {
	Kind    Kind
	Status  int
	Detail  string // server-provided (or transport) explanation
	Message string // user-facing text
	Method  string
	URL     string
	Cause   error
}

func (f *Fault) Error() string {
	if f.Status == 0 {
		return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
	}
	return fmt.Sprintf("%s: status %d: %s", f.Kind, f.Status, f.Detail)
}

func (f *Fault) Unwrap() error { return f.Cause }

// Is reports whether target is the sentinel of f's kind.
func (f *Fault) Is(target error) bool {
	return target != nil && target == f.Kind.Err()
}

// Classify builds the Fault for a failed call. status is 0 for transport
// failures, in which case detail defaults to cause's text.
func Classify(status int, detail string, cause error) *Fault {
	f := &Fault{Status: status, Detail: detail, Cause: cause}

	if status == 0 {
		if f.Detail == "" && cause != nil {
			f.Detail = cause.Error()
		}
		f.Kind = KindClient
		f.Message = "Error: " + f.Detail
		return f
	}

	if f.Detail == "" {
		f.Detail = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		f.Kind, f.Message = KindAuthentication, "Unauthorized. Please login again."
	case http.StatusForbidden:
		f.Kind, f.Message = KindAuthorization, "Access Denied."
	case http.StatusNotFound:
		f.Kind, f.Message = KindNotFound, "Resource not found."
	case http.StatusInternalServerError:
		f.Kind, f.Message = KindServer, "Internal Server Error."
	case http.StatusBadGateway:
		f.Kind, f.Message = KindUpstreamUnavailable, "Service Unavailable (502). Please try again later."
	default:
		f.Kind = KindUnclassified
		f.Message = fmt.Sprintf("Error Code: %d\nMessage: %s", status, f.Detail)
	}
	return f
}

// AsFault extracts the *Fault from err's chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
