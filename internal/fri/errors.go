package fri

import "fmt"

// Error is the common interface of every failure the FRI core can report:
// ConfigurationError, CodewordTruncationError, VerificationRejectionError.
// Callers that only care whether FRI itself failed (versus a collaborator
// like the Merkle tree) can errors.As into this; callers that branch on the
// failure kind use the concrete types.
type Error interface {
	error
	friError()
}

// ConfigurationError reports a FriOptions value that can never produce a
// sound or well-defined protocol instance (e.g. a folding factor outside
// {2,4,8,16}, or a max remainder size below the blowup factor), or a
// Prover used out of order.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("fri: configuration error: %s", e.Message)
}

// CodewordTruncationError reports a layer whose codeword length is not
// divisible by the folding factor -- folding it by k would drop the
// leftover evaluations, so committing would silently truncate the proof of
// proximity.
type CodewordTruncationError struct {
	Size  int
	K     int
	Layer int
}

func (e *CodewordTruncationError) Error() string {
	return fmt.Sprintf("fri: layer %d codeword of size %d cannot be folded by factor %d without truncation", e.Layer, e.Size, e.K)
}

// VerificationRejectionError reports that a proof failed one of the
// verifier's checks. Reason names which check failed, for diagnostics; it
// is never used to decide program control flow elsewhere.
type VerificationRejectionError struct {
	Reason string
}

func (e *VerificationRejectionError) Error() string {
	return fmt.Sprintf("fri: verification rejected: %s", e.Reason)
}

func (e *ConfigurationError) friError()         {}
func (e *CodewordTruncationError) friError()    {}
func (e *VerificationRejectionError) friError() {}

var (
	_ Error = (*ConfigurationError)(nil)
	_ Error = (*CodewordTruncationError)(nil)
	_ Error = (*VerificationRejectionError)(nil)
)
