package types

import "errors"

// ValidationOutcome is the terminal verdict for one transaction. Rejection
// precedes diff computation; no partial diff is ever emitted for a
// rejected transaction.
type ValidationOutcome struct {
	Accepted bool          `json:"accepted"`
	Code     RejectionCode `json:"code,omitempty"`
	Detail   string        `json:"detail,omitempty"`

	// FeeCharged is the native fee the ledger must still collect. It is
	// set on acceptance and on script-failure rejections, where the fee
	// is charged even though every other effect is discarded.
	FeeCharged int64 `json:"feeCharged,omitempty"`
}

// Accepted is the single success outcome.
func Accept() *ValidationOutcome {
	return &ValidationOutcome{Accepted: true}
}

// Reject builds a rejection outcome.
func Reject(code RejectionCode, detail string) *ValidationOutcome {
	return &ValidationOutcome{Accepted: false, Code: code, Detail: detail}
}

// OutcomeFromError classifies a pipeline error into a rejection outcome
// with a stable code. Fatal invariant violations are not rejections and
// must not be folded into an outcome; callers propagate them instead.
func OutcomeFromError(err error) *ValidationOutcome {
	var decodeErr *DecodeError
	var recoveryErr *RecoveryError
	var netErr *NetworkMismatchError
	var policyErr *PolicyRejection
	var scriptErr *ScriptFailureError
	switch {
	case errors.As(err, &policyErr):
		return Reject(policyErr.Code, policyErr.Detail)
	case errors.As(err, &decodeErr):
		return Reject(CodeDecodeError, decodeErr.Error())
	case errors.As(err, &recoveryErr):
		return Reject(CodeRecoveryError, recoveryErr.Error())
	case errors.As(err, &netErr):
		return Reject(CodeNetworkMismatch, netErr.Error())
	case errors.As(err, &scriptErr):
		return Reject(CodeScriptFailure, scriptErr.Error())
	default:
		return Reject(CodeDecodeError, err.Error())
	}
}
