package plugin

import (
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorDomain identifies this plugin in error details.
const ErrorDomain = "form-urlencoded.pact.io"

// Error reasons carried in errdetails.ErrorInfo.
const (
	ReasonInvalidDefinition = "INVALID_FIELD_DEFINITION"
	ReasonCompareFailed     = "COMPARE_FAILED"
	ReasonGenerateFailed    = "GENERATE_FAILED"
)

// Message prefixes of aborted calls.
const (
	prefixInvalidDefinition = "Invalid field definition"
	prefixCompareFailed     = "Failed to compare Form Url Encoded contents"
	prefixGenerateFailed    = "Failed to generate Form Url Encoded contents"
)

// aborted builds the status returned for a call that cannot complete.
func aborted(reason, prefix string, err error) error {
	st := status.New(codes.Aborted, fmt.Sprintf("%s: %v", prefix, err))
	withDetails, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: ErrorDomain,
		Metadata: map[string]string{
			"cause": err.Error(),
		},
	})
	if detailErr == nil {
		st = withDetails
	}
	return st.Err()
}
