package verification

import (
	"github.com/pkg/errors"

	"github.com/dapplion/gloas/consensus-types/gloas"
	payloadattestation "github.com/dapplion/gloas/consensus-types/gloas/payload-attestation"
)

// ErrMissingVerification indicates that the given verification function was never performed on the value.
var ErrMissingVerification = errors.New("verification was not performed for requirement")

// VerificationMultiError is a custom error that can be used to access individual verification failures.
type VerificationMultiError struct {
	r   *results
	err error
}

// Unwrap is used by errors.Is to unwrap errors.
func (ve VerificationMultiError) Unwrap() error {
	if ve.err == nil {
		return nil
	}
	return ve.err
}

// Error satisfies the standard error interface.
func (ve VerificationMultiError) Error() string {
	if ve.err == nil {
		return ""
	}
	return ve.err.Error()
}

// Failures provides access to map of Requirements->error messages
// so that calling code can introspect on what went wrong.
func (ve VerificationMultiError) Failures() map[Requirement]error {
	return ve.r.failures()
}

func newVerificationMultiError(r *results, err error) VerificationMultiError {
	return VerificationMultiError{r: r, err: err}
}

// VerifiedROBidError can be used by methods that have a VerifiedROBid
// return type but no permission to create one, to produce an error return.
func VerifiedROBidError(err error) (gloas.VerifiedROBid, error) {
	if err == nil {
		panic("VerifiedROBidError used to create a VerifiedROBid without a checkable error.")
	}
	return gloas.VerifiedROBid{}, err
}

// VerifiedROMessageError is the payload attestation analogue of
// VerifiedROBidError.
func VerifiedROMessageError(err error) (payloadattestation.VerifiedROMessage, error) {
	if err == nil {
		panic("VerifiedROMessageError used to create a VerifiedROMessage without a checkable error.")
	}
	return payloadattestation.VerifiedROMessage{}, err
}
