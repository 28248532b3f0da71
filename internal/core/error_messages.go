// Package core provides the tabular-data engine behind every leaderboard.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
//
//	CSV001   - Empty file: the data file has no header line
//	SCH001   - Duplicate column: a preset declares the same column twice
//	SCH002   - Unknown column: a preset refers to a column the file does not have
//	PRE001   - Unknown board: no preset is registered under the requested key
//	FETCH002 - Data not found: the source answered 404 or the file does not exist
//	FETCH003 - Data too large: the source exceeded the configured size limit
//	FETCH004 - Busy: every fetch slot stayed occupied for the wait time
//	FETCH001 - Data unavailable: any other fetch failure
//	REQ001   - Request cancelled (context canceled)
//	REQ002   - Request timed out (context deadline exceeded, timeout)
//	RATE001  - Too many requests
//	ERR000   - Unknown error: check the server log for the technical error
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are listed
// before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "empty input",
		msg: UserMessage{
			Message: "The data file is empty",
			Action:  "Check that the file has a header line",
			Code:    "CSV001",
		},
	},
	{
		pattern: "duplicate column key",
		msg: UserMessage{
			Message: "The board declares the same column twice",
			Action:  "Fix the preset's column list",
			Code:    "SCH001",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "The board refers to a column the file does not have",
			Action:  "Verify the column headers match the preset",
			Code:    "SCH002",
		},
	},
	{
		pattern: "preset not found",
		msg: UserMessage{
			Message: "Board not found",
			Action:  "Pick a board from the index page",
			Code:    "PRE001",
		},
	},
	{
		pattern: "status 404",
		msg: UserMessage{
			Message: "The data file could not be found",
			Action:  "Check the board's source location",
			Code:    "FETCH002",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The data file could not be found",
			Action:  "Check the board's source location",
			Code:    "FETCH002",
		},
	},
	{
		pattern: "body too large",
		msg: UserMessage{
			Message: "The data file is larger than allowed",
			Action:  "Raise DATA_MAX_BYTES or trim the file",
			Code:    "FETCH003",
		},
	},
	{
		pattern: "too many concurrent fetches",
		msg: UserMessage{
			Message: "The server is busy loading other boards",
			Action:  "Please wait a moment and try again",
			Code:    "FETCH004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again in a few moments",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again in a few moments",
			Code:    "REQ002",
		},
	},
	{
		pattern: "fetch ",
		msg: UserMessage{
			Message: "The data file could not be loaded",
			Action:  "Please try again later",
			Code:    "FETCH001",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
