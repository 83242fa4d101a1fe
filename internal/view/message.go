package view

import (
	"context"
	"errors"

	"skinanalyze/internal/client"
)

// User-facing failure texts. Details go to the log, never to the screen.
const (
	MsgReportsFailed  = "Failed to load reports. Please try again later."
	MsgReportFailed   = "Failed to load report details. Please try again later."
	MsgPatientsFailed = "Failed to load patients. Please try again later."
	MsgUnreachable    = "Unable to reach the server. Please check your connection and try again."
	MsgGeneric        = "Something went wrong. Please try again later."
	MsgCancelled      = "The request was cancelled."
)

// Message maps an error from a backend call to a generic line for the user.
// Authentication failures and server errors read the same.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return MsgCancelled
	case errors.Is(err, client.ErrTransport):
		return MsgUnreachable
	default:
		return MsgGeneric
	}
}
