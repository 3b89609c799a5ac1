package core

// error_messages.go maps technical errors to user-facing messages with
// codes that can be quoted to support.
//
// Workbook errors (typed, matched with errors.As):
//
//	FILE002 - Malformed workbook: the file is not a readable xlsx workbook
//	FILE006 - Sheet not found: the workbook has no "C2M2 V2.1" sheet
//	VAL004  - Missing columns: a required column header is absent
//
// Other errors (matched case-insensitively by substring, first match wins):
//
//	FILE001 - File too large        "file too large"
//	FILE004 - No file               "no file provided"
//	FILE005 - Empty file            "empty file"
//	SES001  - No upload             "no workbook uploaded"
//	UPL002  - System busy           "too many concurrent uploads"
//	UPL004  - Request cancelled     "context canceled"
//	UPL005  - Request timeout       "context deadline exceeded"
//	RATE001 - Rate limited          "rate limit"
//	ERR000  - Anything else; check the application logs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/c2m2filter/internal/c2m2"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`          // What happened (user-friendly)
	Action  string `json:"action"`           // What to do about it
	Code    string `json:"code"`             // Error code for support reference
	Detail  string `json:"detail,omitempty"` // Diagnostic, when safe to show
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (lower case) to user messages.
// Order matters: more specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused sheets or rows and upload again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a C2M2 .xlsx workbook to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a workbook with a C2M2 V2.1 sheet",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no workbook uploaded",
		msg: UserMessage{
			Message: "Please upload the C2M2 Excel file to proceed",
			Action:  "Upload a workbook, or download the sample template to get started",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller workbook or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Workbook errors are recognized by type; everything else by pattern.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var notFound *c2m2.SheetNotFoundError
	if errors.As(err, &notFound) {
		msg := UserMessage{
			Message: fmt.Sprintf("Sheet %q not found in the workbook", notFound.Sheet),
			Action:  fmt.Sprintf("Upload a C2M2 workbook with a sheet named %q, or start from the sample template", notFound.Sheet),
			Code:    "FILE006",
		}
		if len(notFound.Available) > 0 {
			msg.Detail = "Sheets found: " + strings.Join(notFound.Available, ", ")
		}
		return msg
	}

	var missing *c2m2.MissingColumnsError
	if errors.As(err, &missing) {
		return UserMessage{
			Message: "Required columns are missing: " + strings.Join(missing.Columns, ", "),
			Action:  "Check that the header row matches the sample template",
			Code:    "VAL004",
		}
	}

	var malformed *c2m2.MalformedFileError
	if errors.As(err, &malformed) {
		msg := UserMessage{
			Message: "The file is not a readable Excel workbook",
			Action:  "Save the file as .xlsx and upload it again",
			Code:    "FILE002",
		}
		if malformed.Err != nil {
			msg.Detail = malformed.Err.Error()
		}
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback. Unrecognized errors should be logged in full.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
