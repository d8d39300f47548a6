// File: cmd/root_test.go
package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoscope/seoscope-cli/api/schemas"
)

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(exitCodeError{code: 1}))
	assert.Equal(t, 3, ExitCode(exitCodeError{code: 3}))
	assert.Equal(t, 2, ExitCode(errors.New("usage: missing argument")))
}

func TestExitFromSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary schemas.Summary
		strict  bool
		wantErr bool
	}{
		{"clean run", schemas.Summary{Passed: 5}, false, false},
		{"warnings pass by default", schemas.Summary{Warnings: 2, Passed: 3}, false, false},
		{"warnings fail in strict mode", schemas.Summary{Warnings: 1}, true, true},
		{"errors always fail", schemas.Summary{Errors: 1}, false, true},
		{"errors fail in strict mode too", schemas.Summary{Errors: 1}, true, true},
		{"info never fails", schemas.Summary{Info: 7}, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := exitFromSummary(tc.summary, tc.strict)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, 1, ExitCode(err), "findings-driven failures carry exit code 1")
		})
	}
}

func TestRootCommandShape(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, "seoscope", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["audit"])
	assert.True(t, names["diff"])
}

func TestAuditCommandRequiresExactlyOneURL(t *testing.T) {
	audit := newAuditCmd()

	require.Error(t, audit.Args(audit, nil))
	require.Error(t, audit.Args(audit, []string{"a", "b"}))
	assert.NoError(t, audit.Args(audit, []string{"https://example.com"}))
}
