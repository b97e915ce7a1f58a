// Package verification implements gossip admission for the payload market
// messages. Each message type gets a verifier carrying an explicit list of
// requirements; every check records its result, and the verified wrapper is
// only issued once all requirements are satisfied.
package verification

import "github.com/pkg/errors"

// Requirement identifies a single verification a message must pass before
// it can be upgraded to its verified form.
type Requirement int

const (
	RequireCurrentOrNextSlot Requirement = iota
	RequireZeroReservedPayment
	RequireBuilderActive
	RequireBuilderSufficientBalance
	RequireNoBuilderEquivocation
	RequireKnownParentBlockRoot
	RequireBidSignatureValid
	RequireCurrentSlot
	RequireKnownBlockRoot
	RequireValidatorInPTC
	RequireNoAttesterEquivocation
	RequireAttestationSignatureValid
	RequireEnvelopeNotSeen
	RequireBuilderMatchesCommitment
	RequireBlockHashMatchesCommitment
	RequireEnvelopeSignatureValid
)

var requirementNames = map[Requirement]string{
	RequireCurrentOrNextSlot:          "RequireCurrentOrNextSlot",
	RequireZeroReservedPayment:        "RequireZeroReservedPayment",
	RequireBuilderActive:              "RequireBuilderActive",
	RequireBuilderSufficientBalance:   "RequireBuilderSufficientBalance",
	RequireNoBuilderEquivocation:      "RequireNoBuilderEquivocation",
	RequireKnownParentBlockRoot:       "RequireKnownParentBlockRoot",
	RequireBidSignatureValid:          "RequireBidSignatureValid",
	RequireCurrentSlot:                "RequireCurrentSlot",
	RequireKnownBlockRoot:             "RequireKnownBlockRoot",
	RequireValidatorInPTC:             "RequireValidatorInPTC",
	RequireNoAttesterEquivocation:     "RequireNoAttesterEquivocation",
	RequireAttestationSignatureValid:  "RequireAttestationSignatureValid",
	RequireEnvelopeNotSeen:            "RequireEnvelopeNotSeen",
	RequireBuilderMatchesCommitment:   "RequireBuilderMatchesCommitment",
	RequireBlockHashMatchesCommitment: "RequireBlockHashMatchesCommitment",
	RequireEnvelopeSignatureValid:     "RequireEnvelopeSignatureValid",
}

func (r Requirement) String() string {
	if name, ok := requirementNames[r]; ok {
		return name
	}
	return "unknown requirement"
}

// results tracks which requirements were executed and their outcomes.
type results struct {
	done map[Requirement]error
}

func newResults(reqs ...Requirement) *results {
	r := &results{done: make(map[Requirement]error, len(reqs))}
	for i := range reqs {
		r.done[reqs[i]] = ErrMissingVerification
	}
	return r
}

func (r *results) record(req Requirement, err error) {
	r.done[req] = err
}

// executed returns true if the requirement was executed, regardless of the
// result.
func (r *results) executed(req Requirement) bool {
	err, ok := r.done[req]
	return ok && !errors.Is(err, ErrMissingVerification)
}

// result returns the recorded error for the requirement, which can be nil.
func (r *results) result(req Requirement) error {
	return r.done[req]
}

func (r *results) allSatisfied() bool {
	for req := range r.done {
		if r.done[req] != nil {
			return false
		}
	}
	return true
}

func (r *results) failures() map[Requirement]error {
	fail := make(map[Requirement]error, len(r.done))
	for req, err := range r.done {
		if err != nil {
			fail[req] = err
		}
	}
	return fail
}

func (r *results) errors(err error) error {
	return newVerificationMultiError(r, err)
}
