package questionnaire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rshade/footprint/internal/logging"
)

// SupportedSchemaConstraint is the range of questionnaire schema versions this
// build understands.
const SupportedSchemaConstraint = ">= 1.0.0, < 2.0.0"

// DefaultSchemaVersion is assumed when a questionnaire omits schema_version.
const DefaultSchemaVersion = "1.0.0"

// Format identifies a definition file encoding.
type Format string

// Supported definition formats.
const (
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
	FormatTOML Format = "toml"
)

// DetectFormat picks a decoder from the file extension. JSON is decoded as
// YAML, of which it is a subset.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Definitions bundles a loaded questionnaire with its constants.
type Definitions struct {
	Questionnaire *Questionnaire
	Constants     Constants
}

// Load reads the questionnaire and constants files concurrently. Either read
// failing fails the load; nothing is retried.
func Load(ctx context.Context, questionsPath, constantsPath string) (*Definitions, error) {
	var defs Definitions
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, err := LoadQuestionnaire(gCtx, questionsPath)
		if err != nil {
			return err
		}
		defs.Questionnaire = q
		return nil
	})
	g.Go(func() error {
		c, err := LoadConstants(gCtx, constantsPath)
		if err != nil {
			return err
		}
		defs.Constants = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// LoadQuestionnaire reads and decodes a questionnaire file and checks its
// schema version.
func LoadQuestionnaire(ctx context.Context, path string) (*Questionnaire, error) {
	log := logging.FromContext(ctx)

	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questionnaire %s: %w", path, err)
	}

	q, err := DecodeQuestionnaire(path, format, data)
	if err != nil {
		return nil, err
	}
	if err = CheckSchemaVersion(q.SchemaVersion); err != nil {
		return nil, fmt.Errorf("questionnaire %s: %w", path, err)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "questionnaire").
		Str("path", path).
		Str("format", string(format)).
		Str("schema_version", q.SchemaVersion).
		Int("questions", len(q.Questions)).
		Msg("questionnaire loaded")
	return q, nil
}

// DecodeQuestionnaire decodes data in the given format.
func DecodeQuestionnaire(path string, format Format, data []byte) (*Questionnaire, error) {
	var raw Questionnaire
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing questionnaire YAML from %s: %w", path, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing questionnaire TOML from %s: %w", path, err)
		}
	case FormatHCL:
		return finishDecode(decodeHCLQuestionnaire(path, data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return finishDecode(New(raw.SchemaVersion, raw.Unit, raw.Questions), nil)
}

func finishDecode(q *Questionnaire, err error) (*Questionnaire, error) {
	if err != nil {
		return nil, err
	}
	if q.SchemaVersion == "" {
		q.SchemaVersion = DefaultSchemaVersion
	}
	return q, nil
}

// CheckSchemaVersion reports ErrUnsupportedSchema when version is malformed
// or outside SupportedSchemaConstraint.
func CheckSchemaVersion(version string) error {
	if version == "" {
		version = DefaultSchemaVersion
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedSchema, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchemaConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SupportedSchemaConstraint)
	}
	return nil
}

// LoadConstants reads the constant store. It is called once per process;
// the returned Constants is immutable.
func LoadConstants(ctx context.Context, path string) (Constants, error) {
	log := logging.FromContext(ctx)

	format, err := DetectFormat(path)
	if err != nil {
		return Constants{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, fmt.Errorf("reading constants %s: %w", path, err)
	}

	values, err := DecodeConstants(path, format, data)
	if err != nil {
		return Constants{}, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "questionnaire").
		Str("path", path).
		Int("constants", len(values)).
		Msg("constants loaded")
	return NewConstants(values), nil
}

// DecodeConstants decodes a flat name-to-number mapping.
func DecodeConstants(path string, format Format, data []byte) (map[string]float64, error) {
	values := map[string]float64{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parsing constants YAML from %s: %w", path, err)
		}
	case FormatTOML:
		var raw map[string]interface{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing constants TOML from %s: %w", path, err)
		}
		for name, v := range raw {
			switch n := v.(type) {
			case int64:
				values[name] = float64(n)
			case float64:
				values[name] = n
			default:
				return nil, fmt.Errorf("constant %s in %s: expected number, got %T", name, path, v)
			}
		}
	case FormatHCL:
		return decodeHCLConstants(path, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return values, nil
}
