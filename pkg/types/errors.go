package types

import "fmt"

// The error taxonomy mirrors the processing stages. Rejection strings are
// consensus-relevant: identical inputs must produce byte-identical reasons
// on every node, so messages are built only from transaction content and
// configured parameters, never from local state.

// DecodeError marks malformed wire bytes or an ABI payload that does not
// match the expected layout. Nothing from a transaction that fails to
// decode is trusted.
type DecodeError struct {
	Detail string
}

func (e *DecodeError) Error() string {
	return "decode: " + e.Detail
}

func Decodef(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Detail: fmt.Sprintf(format, args...)}
}

// RecoveryError marks a signature from which no sender could be recovered.
type RecoveryError struct {
	Detail string
}

func (e *RecoveryError) Error() string {
	return "sender recovery: " + e.Detail
}

func Recoveryf(format string, args ...interface{}) *RecoveryError {
	return &RecoveryError{Detail: fmt.Sprintf(format, args...)}
}

// NetworkMismatchError marks a chain discriminant that does not match the
// configured network.
type NetworkMismatchError struct {
	Detail string
}

func (e *NetworkMismatchError) Error() string {
	return e.Detail
}

func NetworkMismatchf(format string, args ...interface{}) *NetworkMismatchError {
	return &NetworkMismatchError{Detail: fmt.Sprintf(format, args...)}
}

// RejectionCode is a stable machine-readable classification of a semantic
// rejection.
type RejectionCode string

const (
	CodeDecodeError      RejectionCode = "decode-error"
	CodeRecoveryError    RejectionCode = "recovery-error"
	CodeNetworkMismatch  RejectionCode = "network-mismatch"
	CodeFeatureInactive  RejectionCode = "feature-not-activated"
	CodeFeeTooLow        RejectionCode = "fee-too-low"
	CodeBadGasPrice      RejectionCode = "bad-gas-price"
	CodeTimestampOutside RejectionCode = "timestamp-out-of-window"
	CodeNonPositive      RejectionCode = "non-positive-amount"
	CodeTooManyPayments  RejectionCode = "too-many-payments"
	CodeAssetNotFound    RejectionCode = "asset-not-found"
	CodeScriptFailure    RejectionCode = "script-failure"
	CodeNoContract       RejectionCode = "no-contract"
)

// PolicyRejection is a deterministic semantic rejection: fee, timestamp,
// amount, payment-count and feature-gate violations. Every validator
// produces the same code and detail for the same transaction and state.
type PolicyRejection struct {
	Code   RejectionCode
	Detail string
}

func (e *PolicyRejection) Error() string {
	return e.Detail
}

func Rejectf(code RejectionCode, format string, args ...interface{}) *PolicyRejection {
	return &PolicyRejection{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// ScriptFailureError wraps an error reported by the contract VM. The fee
// is still charged; all other effects are discarded.
type ScriptFailureError struct {
	Detail string
}

func (e *ScriptFailureError) Error() string {
	return "script failure: " + e.Detail
}

// FatalInvariantError marks a broken precondition such as balance
// arithmetic overflow. Processing of the transaction aborts entirely;
// values are never clamped or wrapped.
type FatalInvariantError struct {
	Detail string
}

func (e *FatalInvariantError) Error() string {
	return "fatal invariant violation: " + e.Detail
}

func Fatalf(format string, args ...interface{}) *FatalInvariantError {
	return &FatalInvariantError{Detail: fmt.Sprintf(format, args...)}
}
