// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "extract resources"}, "failed to extract resources"},
		{
			"with resource",
			&ActionableError{Operation: "open package", Resource: "/opt/app.apk"},
			"failed to open package: /opt/app.apk",
		},
		{
			"with cause",
			&ActionableError{Operation: "open package", Resource: "/opt/app.apk", Cause: errors.New("no such file")},
			"failed to open package: /opt/app.apk: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := error(&ActionableError{Operation: "test", Cause: fmt.Errorf("wrapped: %w", cause)})

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions",
			err: &ActionableError{
				Operation:   "open package",
				Resource:    "/opt/app",
				Suggestions: []string{"Set package_path", "Check permissions"},
			},
			contains: []string{"failed to open package", "/opt/app", "• Set package_path", "• Check permissions"},
		},
		{
			name:     "no chain when not verbose",
			err:      &ActionableError{Operation: "load configuration", Cause: errors.New("syntax error")},
			contains: []string{"failed to load configuration: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested chain",
			err: &ActionableError{
				Operation: "extract resources",
				Cause:     &ActionableError{Operation: "open asset", Cause: errors.New("file not found")},
			},
			verbose:  true,
			contains: []string{"Error chain:", "1. failed to open asset: file not found", "2. file not found"},
		},
		{
			name: "joined causes",
			err: &ActionableError{
				Operation: "validate configuration",
				Cause:     errors.Join(errors.New("bad bucket"), errors.New("bad color")),
			},
			verbose:  true,
			contains: []string{"1. bad bucket\nbad color", "2. bad bucket", "2. bad color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("extract resources").
		WithResource("/data/paks").
		WithIssue(ExtractionFailedId).
		WithSuggestion("first").
		WithSuggestions("second", "third").
		Wrap(cause).
		Build()

	if ae.Operation != "extract resources" || ae.Resource != "/data/paks" {
		t.Errorf("unexpected error: %+v", ae)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("cause not wrapped")
	}
	if ae.Issue() != Get(ExtractionFailedId) {
		t.Error("Issue() does not resolve the linked catalog entry")
	}
}

func TestErrorContextRequiresOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return a nil error")
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() without IssueID should be nil")
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	ae := WrapWithContext(errors.New("x"), "open package", "/opt/app")
	if ae.Operation != "open package" || ae.Resource != "/opt/app" || ae.Cause == nil {
		t.Errorf("unexpected error: %+v", ae)
	}
}
