package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/footprint/internal/config"
	"github.com/rshade/footprint/internal/engine"
	"github.com/rshade/footprint/internal/logging"
	"github.com/rshade/footprint/internal/questionnaire"
)

// DefinitionFlags holds the flags shared by every command that loads a
// questionnaire. Exported for testing.
type DefinitionFlags struct {
	Questions string
	Constants string
}

// AnswerFlags holds the answer inputs. Exported for testing.
type AnswerFlags struct {
	// Answers are "question_id=choice_key" pairs.
	Answers     []string
	AnswersFile string
}

// keyValueParts is the expected number of parts when splitting key=value strings.
const keyValueParts = 2

// DoS protection limits for answer parsing.
const (
	maxAnswerFlags  = 1000
	maxAnswerKeyLen = 128
)

func addDefinitionFlags(cmd *cobra.Command, f *DefinitionFlags) {
	cmd.Flags().StringVar(&f.Questions, "questions", "",
		"questionnaire file (.yaml, .json, .toml or .hcl; default from config questionnaire.questions)")
	cmd.Flags().StringVar(&f.Constants, "constants", "",
		"constants file (.yaml, .json, .toml or .hcl; default from config questionnaire.constants)")
}

func addAnswerFlags(cmd *cobra.Command, f *AnswerFlags) {
	cmd.Flags().StringArrayVar(&f.Answers, "answer", nil, "answer question_id=choice_key (repeatable)")
	cmd.Flags().StringVar(&f.AnswersFile, "answers-file", "",
		"YAML or JSON file mapping question ids to choice keys (flags override it)")
}

// ResolvePaths fills empty paths from the questionnaire section of cfg.
func (f DefinitionFlags) ResolvePaths(cfg *config.Config) (string, string, error) {
	questions, constants := f.Questions, f.Constants
	if questions == "" && cfg != nil {
		questions = cfg.Questionnaire.Questions
	}
	if constants == "" && cfg != nil {
		constants = cfg.Questionnaire.Constants
	}

	var missing []string
	if questions == "" {
		missing = append(missing, "--questions")
	}
	if constants == "" {
		missing = append(missing, "--constants")
	}
	if len(missing) > 0 {
		return "", "", fmt.Errorf("%s required (or set questionnaire paths in config)", strings.Join(missing, " and "))
	}
	return questions, constants, nil
}

// loadDefinitions reads both definition files concurrently.
func loadDefinitions(ctx context.Context, f DefinitionFlags, cfg *config.Config) (*questionnaire.Definitions, error) {
	questions, constants, err := f.ResolvePaths(cfg)
	if err != nil {
		return nil, err
	}
	defs, err := questionnaire.Load(ctx, questions, constants)
	if err != nil {
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	return defs, nil
}

// newEngine loads the definitions and builds an engine configured from cfg.
// Authoring warnings are logged; they never stop a run because failing
// formulas already contribute zero.
func newEngine(ctx context.Context, f DefinitionFlags, cfg *config.Config) (*engine.Engine, error) {
	log := logging.FromContext(ctx)

	defs, err := loadDefinitions(ctx, f, cfg)
	if err != nil {
		return nil, err
	}

	for _, issue := range questionnaire.Validate(defs.Questionnaire, defs.Constants) {
		log.Warn().Ctx(ctx).
			Str("operation", "load_definitions").
			Str("severity", string(issue.Severity)).
			Str("question_id", issue.QuestionID).
			Msg(issue.Message)
	}

	policy, err := engine.ParseMissingChoicePolicy(cfg.Engine.MissingChoice)
	if err != nil {
		return nil, err
	}
	return engine.New(defs.Questionnaire, defs.Constants, engine.Options{
		MissingChoice: policy,
		MemoSize:      cfg.EffectiveMemoSize(),
	})
}

// ParseAnswerFlags parses --answer question_id=choice_key flags.
// Exported for testing.
func ParseAnswerFlags(values []string) (questionnaire.Answers, error) {
	// DoS protection: limit number of answers
	if len(values) > maxAnswerFlags {
		return nil, fmt.Errorf("too many answers: %d (max %d)", len(values), maxAnswerFlags)
	}

	answers := make(questionnaire.Answers, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, "=", keyValueParts)
		if len(parts) != keyValueParts {
			return nil, fmt.Errorf("invalid answer format %q: expected question_id=choice_key", v)
		}
		id := strings.TrimSpace(parts[0])
		choice := strings.TrimSpace(parts[1])
		if id == "" {
			return nil, fmt.Errorf("question id cannot be empty in %q", v)
		}
		if choice == "" {
			return nil, fmt.Errorf("choice key cannot be empty in %q", v)
		}
		if len(id) > maxAnswerKeyLen || len(choice) > maxAnswerKeyLen {
			return nil, fmt.Errorf("answer %q exceeds %d bytes", v, maxAnswerKeyLen)
		}
		answers[id] = choice
	}
	return answers, nil
}

// LoadAnswersFile reads an answer set from YAML or JSON. Both a flat mapping
// and a document with a top-level "answers" mapping (as written by session
// snapshots) are accepted.
func LoadAnswersFile(path string) (questionnaire.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}

	var doc struct {
		Answers questionnaire.Answers `yaml:"answers"`
	}
	if err = yaml.Unmarshal(data, &doc); err == nil && doc.Answers != nil {
		return doc.Answers, nil
	}

	var flat questionnaire.Answers
	if err = yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("parsing answers file %s: %w", path, err)
	}
	if flat == nil {
		return nil, errors.New("answers file is empty")
	}
	return flat, nil
}

// CollectAnswers merges the answers file with --answer flags, flags winning.
// Exported for testing.
func CollectAnswers(f AnswerFlags) (questionnaire.Answers, error) {
	answers := questionnaire.Answers{}
	if f.AnswersFile != "" {
		fromFile, err := LoadAnswersFile(f.AnswersFile)
		if err != nil {
			return nil, err
		}
		for id, choice := range fromFile {
			answers[id] = choice
		}
	}

	fromFlags, err := ParseAnswerFlags(f.Answers)
	if err != nil {
		return nil, err
	}
	for id, choice := range fromFlags {
		answers[id] = choice
	}
	return answers, nil
}

// outputFormat prefers the flag and falls back to the configured default.
func outputFormat(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Output.DefaultFormat
}
