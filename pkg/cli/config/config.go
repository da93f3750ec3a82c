package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/grc-lab/periksa/pkg/domain/model"
	domainConfig "github.com/grc-lab/periksa/pkg/domain/model/config"
	"github.com/grc-lab/periksa/pkg/domain/types"
)

// AppConfig holds the application data loaded from the TOML config
// file: scoring normalization, default quota limits and the active
// question sets.
type AppConfig struct {
	path string

	Scoring      ScoringConfig       `toml:"scoring"`
	Quotas       []QuotaConfig       `toml:"quota"`
	QuestionSets []QuestionSetConfig `toml:"question_set"`
}

// ScoringConfig is the health-score normalization section
type ScoringConfig struct {
	MaxPointsPerQuestion int `toml:"max_points_per_question"`
}

// Validate checks the scoring section
func (s *ScoringConfig) Validate() error {
	if s.MaxPointsPerQuestion < 0 {
		return goerr.Wrap(ErrInvalidConfig, "max_points_per_question cannot be negative",
			goerr.V("value", s.MaxPointsPerQuestion))
	}
	return nil
}

// QuotaConfig is one default submission cap. A missing limit means
// unlimited.
type QuotaConfig struct {
	Type  string `toml:"type"`
	Limit *int   `toml:"limit"`
}

// Validate checks the quota section entry
func (q *QuotaConfig) Validate() error {
	if _, err := types.ParseAssessmentType(q.Type); err != nil {
		return goerr.Wrap(ErrInvalidConfig, "invalid quota type", goerr.V("type", q.Type))
	}
	if q.Limit != nil && *q.Limit < 0 {
		return goerr.Wrap(ErrInvalidConfig, "quota limit cannot be negative",
			goerr.V("type", q.Type), goerr.V("limit", *q.Limit))
	}
	return nil
}

// QuestionSetConfig is one questionnaire definition
type QuestionSetConfig struct {
	Type      string           `toml:"type"`
	Questions []QuestionConfig `toml:"question"`
}

// QuestionConfig is one question of a set
type QuestionConfig struct {
	ID       string         `toml:"id"`
	Category string         `toml:"category"`
	Text     string         `toml:"text"`
	Options  []OptionConfig `toml:"option"`
}

// OptionConfig is one selectable option of a standard question
type OptionConfig struct {
	Label  string `toml:"label"`
	Points int    `toml:"points"`
}

// ToModel converts the section to the domain question set
func (q *QuestionSetConfig) ToModel() *model.QuestionSet {
	set := &model.QuestionSet{
		Type:      types.AssessmentType(q.Type),
		Questions: make([]*model.Question, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		m := &model.Question{
			ID:       types.QuestionID(question.ID),
			Category: types.DimensionName(question.Category),
			Text:     question.Text,
		}
		for _, opt := range question.Options {
			m.Options = append(m.Options, model.AnswerOption{Label: opt.Label, Points: opt.Points})
		}
		set.Questions = append(set.Questions, m)
	}
	return set
}

// Validate checks the question set via the domain rules
func (q *QuestionSetConfig) Validate() error {
	if err := q.ToModel().Validate(); err != nil {
		return goerr.Wrap(err, "invalid question set", goerr.V("type", q.Type))
	}
	return nil
}

// Validate checks the whole config
func (a *AppConfig) Validate() error {
	if err := a.Scoring.Validate(); err != nil {
		return err
	}

	quotaTypes := make(map[string]bool)
	for _, q := range a.Quotas {
		if err := q.Validate(); err != nil {
			return err
		}
		if quotaTypes[q.Type] {
			return goerr.Wrap(ErrInvalidConfig, "duplicate quota type", goerr.V("type", q.Type))
		}
		quotaTypes[q.Type] = true
	}

	setTypes := make(map[string]bool)
	for _, set := range a.QuestionSets {
		if err := set.Validate(); err != nil {
			return err
		}
		if setTypes[set.Type] {
			return goerr.Wrap(ErrInvalidConfig, "duplicate question set type", goerr.V("type", set.Type))
		}
		setTypes[set.Type] = true
	}

	return nil
}

// Flags returns the CLI flags of the app config
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to the TOML application config",
			Required:    true,
			Sources:     cli.EnvVars("PERIKSA_CONFIG"),
			Destination: &a.path,
		},
	}
}

// LoadAppConfig reads and validates the TOML config at path
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{path: path}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates the config file referenced by the flags
func (a *AppConfig) Load() error {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		return goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, a.path))
	}

	if err := toml.Unmarshal(data, a); err != nil {
		return goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, a.path))
	}

	if err := a.Validate(); err != nil {
		return goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, a.path))
	}

	return nil
}

// ToEngineConfig converts the config to the domain engine configuration
func (a *AppConfig) ToEngineConfig() *domainConfig.EngineConfig {
	cfg := &domainConfig.EngineConfig{
		Scoring: domainConfig.Scoring{MaxPointsPerQuestion: a.Scoring.MaxPointsPerQuestion},
	}
	for _, q := range a.Quotas {
		quota := domainConfig.QuotaDefault{Type: types.AssessmentType(q.Type)}
		if q.Limit != nil {
			limit := *q.Limit
			quota.Limit = &limit
		}
		cfg.QuotaDefaults = append(cfg.QuotaDefaults, quota)
	}
	return cfg
}

// ToQuestionSets converts every question set section to domain models
func (a *AppConfig) ToQuestionSets() []*model.QuestionSet {
	sets := make([]*model.QuestionSet, 0, len(a.QuestionSets))
	for _, set := range a.QuestionSets {
		sets = append(sets, set.ToModel())
	}
	return sets
}
