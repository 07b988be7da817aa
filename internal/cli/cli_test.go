package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/holdimport/internal/app"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-config", "/test/importer.hcl",
				"--log-level=debug",
				"--log-format=json",
				"--keep-going",
				"--no-preview",
				"--notify-url=http://localhost:3000/",
				"/test/models", "/test/holds",
			},
			expectedConfig: &app.Config{
				InputPath:  "/test/models",
				OutputPath: "/test/holds",
				ConfigPath: "/test/importer.hcl",
				LogLevel:   "debug",
				LogFormat:  "json",
				KeepGoing:  true,
				NoPreview:  true,
				NotifyURL:  "http://localhost:3000/",
			},
		},
		{
			name: "Positional arguments and defaults",
			args: []string{"models", "../Models/Holds"},
			expectedConfig: &app.Config{
				InputPath:  "models",
				OutputPath: "../Models/Holds",
				LogLevel:   "info",
				LogFormat:  "text",
			},
		},
		{
			name: "Options after positional arguments",
			args: []string{"/test/models", "--keep-going", "/test/holds", "--log-level=warn", "--no-preview"},
			expectedConfig: &app.Config{
				InputPath:  "/test/models",
				OutputPath: "/test/holds",
				LogLevel:   "warn",
				LogFormat:  "text",
				KeepGoing:  true,
				NoPreview:  true,
			},
		},
		{
			name: "Terminator makes dash arguments positional",
			args: []string{"--keep-going", "--", "-models", "holds"},
			expectedConfig: &app.Config{
				InputPath:  "-models",
				OutputPath: "holds",
				LogLevel:   "info",
				LogFormat:  "text",
				KeepGoing:  true,
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:       "No paths triggers clean exit with usage",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "INPUT OUTPUT"), "Expected help text to be printed")
			},
		},
		{
			name:      "Only one path returns an error",
			args:      []string{"/path"},
			expectErr: true,
		},
		{
			name:      "Three paths return an error",
			args:      []string{"/a", "/b", "/c"},
			expectErr: true,
		},
		{
			name:      "Same input and output returns an error",
			args:      []string{"/a", "/a/"},
			expectErr: true,
		},
		{
			name:      "Invalid log level returns an error",
			args:      []string{"--log-level=foo", "/in", "/out"},
			expectErr: true,
		},
		{
			name:      "Invalid log format returns an error",
			args:      []string{"--log-format=yaml", "/in", "/out"},
			expectErr: true,
		},
		{
			name:      "Unknown flag after paths returns an error",
			args:      []string{"/in", "/out", "--workers=4"},
			expectErr: true,
		},
		{
			name:      "Unknown flag returns an error",
			args:      []string{"--workers=4", "/in", "/out"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			appConfig, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				exitErr, isExitError := err.(*ExitError)
				require.True(t, isExitError, "Expected error to be of type ExitError")
				require.Equal(t, ExitUsage, exitErr.Code)
				return
			}
			require.NoError(t, err)

			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, appConfig); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
