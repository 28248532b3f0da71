package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "empty input maps correctly",
			err:         fmt.Errorf("parse msr: %w", ErrEmptyInput),
			wantCode:    "CSV001",
			wantMessage: "The data file is empty",
		},
		{
			name:        "duplicate key maps correctly",
			err:         fmt.Errorf("preset x: %w: %q", ErrDuplicateKey, "MSR"),
			wantCode:    "SCH001",
			wantMessage: "The board declares the same column twice",
		},
		{
			name:        "unknown column maps correctly",
			err:         ErrUnknownColumn,
			wantCode:    "SCH002",
			wantMessage: "The board refers to a column the file does not have",
		},
		{
			name:        "unknown preset maps correctly",
			err:         fmt.Errorf("%w: nope", ErrPresetNotFound),
			wantCode:    "PRE001",
			wantMessage: "Board not found",
		},
		{
			name:        "http 404 maps to not found",
			err:         errors.New("fetch https://example.com/a.csv: status 404"),
			wantCode:    "FETCH002",
			wantMessage: "The data file could not be found",
		},
		{
			name:        "missing file maps to not found",
			err:         errors.New("fetch a.csv: open data/a.csv: no such file or directory"),
			wantCode:    "FETCH002",
			wantMessage: "The data file could not be found",
		},
		{
			name:        "body too large maps correctly",
			err:         errors.New("fetch a.csv: body too large"),
			wantCode:    "FETCH003",
			wantMessage: "The data file is larger than allowed",
		},
		{
			name:        "busy maps correctly",
			err:         errors.New("fetch a.csv: too many concurrent fetches"),
			wantCode:    "FETCH004",
			wantMessage: "The server is busy loading other boards",
		},
		{
			name:        "cancelled maps correctly",
			err:         fmt.Errorf("load x: %w", context.Canceled),
			wantCode:    "REQ001",
			wantMessage: "Request was cancelled",
		},
		{
			name:        "timeout maps correctly",
			err:         fmt.Errorf("fetch a.csv: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "other fetch failure maps correctly",
			err:         errors.New("fetch a.csv: status 500"),
			wantCode:    "FETCH001",
			wantMessage: "The data file could not be loaded",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("PRESET NOT FOUND"),
			wantCode:    "PRE001",
			wantMessage: "Board not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrPresetNotFound)

	expected := "Board not found (Code: PRE001). Pick a board from the index page"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrEmptyInput,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
