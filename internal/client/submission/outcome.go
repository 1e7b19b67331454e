package submission

// State is where a submission attempt stands.
type State int

const (
	Idle State = iota
	InFlight
	Success
	RecoverableError
	SessionExpired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	case Success:
		return "success"
	case RecoverableError:
		return "recoverable_error"
	case SessionExpired:
		return "session_expired"
	default:
		return "unknown"
	}
}

// ErrorKind classifies a failed attempt.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation: a local precondition failed, nothing was sent.
	KindValidation
	// KindAuth: no usable credential, or the backend answered 401.
	KindAuth
	// KindServer: the backend answered with a non-2xx status.
	KindServer
	// KindNetwork: no response was obtained.
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Outcome is the visible result of the latest attempt.
type Outcome struct {
	State State
	Kind  ErrorKind
	// Message is what the operator sees. Empty while Idle or InFlight.
	Message string
	// StatusCode is the HTTP status when a response was received.
	StatusCode int
	// SubmissionID identifies the attempt in logs, the journal and the
	// X-Request-ID header.
	SubmissionID string
}

// Editable reports whether the form accepts a new submit.
func (o Outcome) Editable() bool {
	return o.State == Idle || o.State == RecoverableError || o.State == SessionExpired
}
