package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/types"
)

const testJD = "Strong TypeScript and React skills for our checkout team\n" +
	"Excellent written and verbal communication\n" +
	"Experience shipping accessible user interfaces"

// execute runs the root command with args after resetting every flag, since
// cobra keeps flag values between executions.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	reset := func(cmd *cobra.Command) {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, cmd := range rootCmd.Commands() {
		reset(cmd)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMockCommand(t *testing.T) {
	out, err := execute(t, "mock", "--in", writeFile(t, "jd.txt", testJD))
	require.NoError(t, err)

	var matrix types.RequirementsMatrix
	require.NoError(t, json.Unmarshal([]byte(out), &matrix))
	assert.Equal(t, analysis.GenerateMockRequirements(testJD), &matrix)
}

func TestAnalyzeCommand_Mock(t *testing.T) {
	out, err := execute(t, "analyze", "--mock", "--in", writeFile(t, "jd.txt", testJD))
	require.NoError(t, err)

	var matrix types.RequirementsMatrix
	require.NoError(t, json.Unmarshal([]byte(out), &matrix))
	require.Len(t, matrix.Requirements, 3)
	assert.Equal(t, types.PriorityMust, matrix.Requirements[0].Priority)
}

func TestAnalyzeCommand_InputErrors(t *testing.T) {
	path := writeFile(t, "jd.txt", testJD)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no input", args: []string{"analyze", "--mock"}, wantErr: "must provide either --in or --url"},
		{name: "both inputs", args: []string{"analyze", "--mock", "--in", path, "--url", "https://example.com/job"}, wantErr: "cannot use --in with --url"},
		{name: "mock and server", args: []string{"analyze", "--mock", "--server", "http://localhost:8080", "--in", path}, wantErr: "cannot use --mock with --server"},
		{name: "missing file", args: []string{"analyze", "--mock", "--in", filepath.Join(t.TempDir(), "nope.txt")}, wantErr: "failed to read input file"},
		{name: "short description", args: []string{"analyze", "--mock", "--in", writeFile(t, "short.txt", "Go dev")}, wantErr: "too short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAnalyzeCommand_Server(t *testing.T) {
	var auth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = append(auth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/analysis/extract-requirements":
			_ = json.NewEncoder(w).Encode(types.ExtractRequirementsResponse{Requirements: []types.Requirement{
				{ID: "req_1", Category: types.CategoryTechnicalSkills, Text: "TypeScript and React", Signals: []string{}},
				{ID: "req_2", Category: types.CategorySoftSkills, Text: "Communication", Signals: []string{}},
				{ID: "req_3", Category: types.CategoryExperience, Text: "Accessible interfaces", Signals: []string{}},
			}})
		case "/api/analysis/evidence-stub":
			_ = json.NewEncoder(w).Encode(types.EvidenceResponse{Matrix: []types.EvidenceSuggestion{
				{RequirementID: "req_1", EvidenceSummary: "React work", Confidence: 0.8, SuggestedSources: []string{"resume"}},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv("INTERVIEW_PREP_TOKEN", "env-token")

	out, err := execute(t, "analyze", "--server", srv.URL, "--in", writeFile(t, "jd.txt", testJD))
	require.NoError(t, err)

	var state analysis.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, analysis.StatusDone, state.Status)
	assert.Len(t, state.Requirements, 3)
	assert.Len(t, state.Evidence, 1)
	assert.Equal(t, []string{"Bearer env-token", "Bearer env-token"}, auth)
}

func TestAnalyzeCommand_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(analysis.Failure{Kind: analysis.KindUnavailable, Message: analysis.MsgNotConfigured})
	}))
	t.Cleanup(srv.Close)

	out, err := execute(t, "analyze", "--server", srv.URL, "--in", writeFile(t, "jd.txt", testJD))
	require.Error(t, err)
	assert.Contains(t, err.Error(), analysis.MsgNotConfigured)

	var state analysis.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, analysis.StatusError, state.Status)
}

func TestExtractCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := execute(t, "extract", "--in", writeFile(t, "jd.txt", testJD))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestEvidenceCommand_InvalidJSON(t *testing.T) {
	_, err := execute(t, "evidence", "--in", writeFile(t, "reqs.json", "{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse requirements JSON")
}

func TestConfigFile(t *testing.T) {
	jdPath := writeFile(t, "jd.txt", testJD)
	cfgPath := writeFile(t, "config.json", `{"job": "`+jdPath+`"}`)

	out, err := execute(t, "--config", cfgPath, "mock")
	require.NoError(t, err)
	assert.Contains(t, out, "Strong TypeScript and React skills")

	badCfg := writeFile(t, "bad.json", `{"temperature": 3}`)
	_, err = execute(t, "--config", badCfg, "mock", "--in", jdPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestMockCommand_Verbose(t *testing.T) {
	out, stderr, err := executeWithStderr(t, "--verbose", "mock", "--in", writeFile(t, "jd.txt", testJD))
	require.NoError(t, err)

	assert.Contains(t, stderr, "REQUIREMENTS MATRIX")
	assert.Contains(t, stderr, "Must Have")
	assert.NotContains(t, out, "REQUIREMENTS MATRIX")
}
