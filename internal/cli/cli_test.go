package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/rshade/footprint/internal/cli"
	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/questionnaire"
	"github.com/rshade/footprint/internal/session"
)

const (
	questionsFile = "testdata/questions.yaml"
	constantsFile = "testdata/constants.yaml"
	answersFile   = "testdata/answers.yaml"
)

// setupCLITest isolates the global config directory and resets global state.
func setupCLITest(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvMissingChoice, "")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
}

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func definitionArgs(cmd string, extra ...string) []string {
	return append([]string{cmd, "--questions", questionsFile, "--constants", constantsFile}, extra...)
}

func TestRootCmd(t *testing.T) {
	cmd := cli.NewRootCmd("1.2.3")

	assert.Equal(t, "footprint", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)
	for _, name := range []string{"debug", "config", "project-dir", "missing-choice"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"estimate", "plan", "validate", "interactive", "config"}, names)
}

func TestRootCmd_InvalidMissingChoiceFlag(t *testing.T) {
	setupCLITest(t)

	_, _, err := runCLI(t, definitionArgs("estimate", "--missing-choice", "sloppy")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sloppy")
}

func TestRootCmd_ExplicitConfigFile(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: json\n  precision: 1\n"), 0o600))

	stdout, _, err := runCLI(t, definitionArgs("estimate", "--config", path, "--answers-file", answersFile)...)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc), "config default_format json applies")
	assert.InDelta(t, 1030.0, doc["footprint"], 1e-9)
}

func TestRootCmd_BrokenConfigFile(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: xml\n"), 0o600))

	_, _, err := runCLI(t, "config", "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.default_format")
}

func TestEstimate_Table(t *testing.T) {
	setupCLITest(t)

	stdout, stderr, err := runCLI(t, definitionArgs("estimate", "--answers-file", answersFile)...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "FOOTPRINT: 1,030.00 kgCO2e")
	assert.Contains(t, stdout, "car_km")
	assert.Contains(t, stdout, "1,000.00")
	assert.NotContains(t, stderr, "unanswered")
}

func TestEstimate_JSONWithAssignments(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("estimate",
		"--answer", "has_car=car_yes", "--answer", "car_km=km_low", "--answer", "diet=diet_none",
		"--output", "json", "--show-assignments")...)
	require.NoError(t, err)

	var doc struct {
		Footprint   float64           `json:"footprint"`
		Unit        string            `json:"unit"`
		Assignments map[string]string `json:"assignments"`
		VisibleIDs  []string          `json:"visible_question_ids"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.InDelta(t, 200.0, doc.Footprint, 1e-9)
	assert.Equal(t, "kgCO2e", doc.Unit)
	assert.Equal(t, "1000", doc.Assignments["CAR_KM"])
	assert.Equal(t, []string{"has_car", "car_km", "diet"}, doc.VisibleIDs)
}

func TestEstimate_FlagsOverrideAnswersFile(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("estimate",
		"--answers-file", answersFile, "--answer", "has_car=car_no", "--output", "json")...)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.InDelta(t, 30.0, doc["footprint"], 1e-9)
}

func TestEstimate_NDJSON(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("estimate", "--answers-file", answersFile, "--output", "ndjson")...)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 3)
	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "has_car", first["question_id"])
}

func TestEstimate_UnansweredNote(t *testing.T) {
	setupCLITest(t)

	_, stderr, err := runCLI(t, definitionArgs("estimate", "--answer", "has_car=car_yes")...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "unanswered visible questions: car_km, diet")
}

func TestEstimate_MissingChoicePolicy(t *testing.T) {
	setupCLITest(t)

	_, _, err := runCLI(t, definitionArgs("estimate", "--answer", "diet=diet_lots")...)
	require.ErrorIs(t, err, engine.ErrMissingChoice)

	config.ResetGlobalConfigForTest()
	_, _, err = runCLI(t, definitionArgs("estimate", "--answer", "diet=diet_lots", "--missing-choice", "lenient")...)
	require.NoError(t, err)
}

func TestEstimate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "missing definition paths",
			args:        []string{"estimate"},
			errContains: "--questions and --constants required",
		},
		{
			name:        "bad answer flag",
			args:        definitionArgs("estimate", "--answer", "has_car"),
			errContains: "expected question_id=choice_key",
		},
		{
			name:        "bad output format",
			args:        definitionArgs("estimate", "--output", "xml"),
			errContains: "unsupported output format",
		},
		{
			name:        "missing questions file",
			args:        []string{"estimate", "--questions", "testdata/nope.yaml", "--constants", constantsFile},
			errContains: "loading definitions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestPlan_JSON(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("plan", "--answers-file", answersFile, "--output", "json")...)
	require.NoError(t, err)

	var doc struct {
		Result struct {
			Footprint float64 `json:"footprint"`
		} `json:"result"`
		Scenarios []struct {
			QuestionID         string   `json:"question_id"`
			CandidateChoiceKey string   `json:"candidate_choice_key"`
			CandidateFootprint float64  `json:"candidate_footprint"`
			Delta              float64  `json:"delta"`
			DeltaPercent       *float64 `json:"delta_percent"`
		} `json:"scenarios"`
		Pagination struct {
			TotalItems int  `json:"total_items"`
			HasNext    bool `json:"has_next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	assert.InDelta(t, 1030.0, doc.Result.Footprint, 1e-9)
	require.Len(t, doc.Scenarios, 3)
	got := []string{
		doc.Scenarios[0].CandidateChoiceKey,
		doc.Scenarios[1].CandidateChoiceKey,
		doc.Scenarios[2].CandidateChoiceKey,
	}
	assert.Equal(t, []string{"car_no", "km_low", "diet_none"}, got)
	assert.InDelta(t, -1000.0, doc.Scenarios[0].Delta, 1e-9)
	require.NotNil(t, doc.Scenarios[0].DeltaPercent)
	assert.Equal(t, 3, doc.Pagination.TotalItems)
	assert.False(t, doc.Pagination.HasNext)
}

func TestPlan_TableWithWindow(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("plan", "--answers-file", answersFile, "--limit", "1", "--offset", "1")...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "FOOTPRINT: 1,030.00 kgCO2e")
	assert.Contains(t, stdout, "km_low")
	assert.NotContains(t, stdout, "car_no")
	assert.Contains(t, stdout, "Showing 1 of 3 scenarios (use --offset 2 for more)")
}

func TestPlan_Sort(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("plan",
		"--answers-file", answersFile, "--output", "ndjson", "--sort", "footprint:desc")...)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 3)
	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "diet_none", first["candidate_choice_key"])
}

func TestPlan_RequiresCompleteAnswers(t *testing.T) {
	setupCLITest(t)

	_, _, err := runCLI(t, definitionArgs("plan", "--answer", "has_car=car_yes", "--answer", "diet=diet_some")...)

	require.ErrorIs(t, err, session.ErrIncompleteAnswers)
	assert.Contains(t, err.Error(), "car_km")
}

// planFootprint runs plan with JSON output and returns the baseline
// footprint and the number of scenarios.
func planFootprint(t *testing.T, args ...string) (float64, int) {
	t.Helper()
	stdout, _, err := runCLI(t, definitionArgs("plan", append(args, "--output", "json")...)...)
	require.NoError(t, err)

	var doc struct {
		Result struct {
			Footprint float64 `json:"footprint"`
		} `json:"result"`
		Scenarios []json.RawMessage `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	return doc.Result.Footprint, len(doc.Scenarios)
}

func TestPlan_SkipsAnswersForUndeclaredQuestions(t *testing.T) {
	setupCLITest(t)

	footprint, scenarios := planFootprint(t, "--answers-file", answersFile, "--answer", "retired_q=x")
	assert.InDelta(t, 1030.0, footprint, 1e-9)
	assert.Equal(t, 3, scenarios)
}

func TestPlan_MissingChoicePolicy(t *testing.T) {
	t.Run("strict rejects an unknown choice", func(t *testing.T) {
		setupCLITest(t)
		_, _, err := runCLI(t, definitionArgs("plan", "--answers-file", answersFile,
			"--answer", "car_km=km_gone")...)
		require.ErrorIs(t, err, engine.ErrMissingChoice)
	})

	t.Run("lenient skips an unknown choice on a hidden question", func(t *testing.T) {
		setupCLITest(t)
		footprint, scenarios := planFootprint(t, "--missing-choice", "lenient",
			"--answer", "has_car=car_no", "--answer", "car_km=km_gone", "--answer", "diet=diet_some")
		assert.InDelta(t, 30.0, footprint, 1e-9)
		assert.Equal(t, 2, scenarios)
	})

	t.Run("lenient leaves a visible question with an unknown choice unanswered", func(t *testing.T) {
		setupCLITest(t)
		_, _, err := runCLI(t, definitionArgs("plan", "--missing-choice", "lenient",
			"--answers-file", answersFile, "--answer", "car_km=km_gone")...)
		require.ErrorIs(t, err, session.ErrIncompleteAnswers)
		assert.Contains(t, err.Error(), "car_km")
	})
}

func TestPlan_InvalidWindow(t *testing.T) {
	setupCLITest(t)

	_, _, err := runCLI(t, definitionArgs("plan", "--answers-file", answersFile, "--sort", "price")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort field")

	_, _, err = runCLI(t, definitionArgs("plan", "--answers-file", answersFile, "--offset", "-1")...)
	require.Error(t, err)
}

func TestPlan_XLSX(t *testing.T) {
	setupCLITest(t)
	out := filepath.Join(t.TempDir(), "plan.xlsx")

	_, stderr, err := runCLI(t, definitionArgs("plan", "--answers-file", answersFile, "--xlsx", out)...)
	require.NoError(t, err)

	info, statErr := os.Stat(out)
	require.NoError(t, statErr)
	assert.Positive(t, info.Size())
	assert.Contains(t, stderr, "Scenario workbook written to")
}

func TestValidate(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, definitionArgs("validate")...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Questionnaire is valid (3 questions, 2 constants)")
}

func TestValidate_Invalid(t *testing.T) {
	setupCLITest(t)

	stdout, _, err := runCLI(t, "validate", "--questions", "testdata/invalid_questions.yaml", "--constants", constantsFile)

	require.ErrorIs(t, err, questionnaire.ErrInvalidQuestionnaire)
	assert.Contains(t, stdout, "duplicate question id")
	assert.NotContains(t, stdout, "is valid")
}

func TestInteractive_RequiresTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("attached to a terminal")
	}
	setupCLITest(t)

	_, _, err := runCLI(t, definitionArgs("interactive")...)
	require.ErrorIs(t, err, cli.ErrNotATerminal)
}

func TestParseAnswerFlags(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		expected    questionnaire.Answers
		errContains string
	}{
		{
			name:     "single answer",
			input:    []string{"has_car=car_yes"},
			expected: questionnaire.Answers{"has_car": "car_yes"},
		},
		{
			name:     "spaces trimmed and later flags win",
			input:    []string{" diet = diet_none ", "diet=diet_some"},
			expected: questionnaire.Answers{"diet": "diet_some"},
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: questionnaire.Answers{},
		},
		{name: "missing separator", input: []string{"diet"}, errContains: "expected question_id=choice_key"},
		{name: "empty id", input: []string{"=diet_none"}, errContains: "question id cannot be empty"},
		{name: "empty choice", input: []string{"diet="}, errContains: "choice key cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cli.ParseAnswerFlags(tt.input)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadAnswersFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("flat yaml", func(t *testing.T) {
		got, err := cli.LoadAnswersFile(answersFile)
		require.NoError(t, err)
		assert.Equal(t, questionnaire.Answers{"has_car": "car_yes", "car_km": "km_high", "diet": "diet_some"}, got)
	})

	t.Run("session snapshot json", func(t *testing.T) {
		path := write("snapshot.json",
			`{"session_id":"01J","mode":"planning","answers":{"diet":"diet_none"},"result":{"footprint":0}}`)
		got, err := cli.LoadAnswersFile(path)
		require.NoError(t, err)
		assert.Equal(t, questionnaire.Answers{"diet": "diet_none"}, got)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := cli.LoadAnswersFile(write("empty.yaml", ""))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := cli.LoadAnswersFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestDefinitionFlags_ResolvePaths(t *testing.T) {
	cfg := config.Default()
	cfg.Questionnaire.Questions = "q.yaml"
	cfg.Questionnaire.Constants = "c.yaml"

	q, c, err := cli.DefinitionFlags{Questions: "mine.hcl"}.ResolvePaths(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mine.hcl", q)
	assert.Equal(t, "c.yaml", c)

	_, _, err = cli.DefinitionFlags{Questions: "mine.hcl"}.ResolvePaths(config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--constants required")
}
