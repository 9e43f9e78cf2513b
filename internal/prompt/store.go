// Package prompt provides the template store for participant prompts.
// Templates are keyed by purpose (opening_prompt, judge_scoring_prompt, ...)
// and use {named} placeholders substituted at render time. Built-in
// defaults are embedded; a user YAML file can override any subset of them.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/podium-ai/podium/internal/logging"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Template keys recognized by the debate engine.
const (
	KeyModeratorSystem   = "moderator_system"
	KeyAffirmativeSystem = "affirmative_system"
	KeyNegativeSystem    = "negative_system"
	KeyJudgeSystem       = "judge_system"

	KeyIntroduce     = "introduce_prompt"
	KeyOpening       = "opening_prompt"
	KeyCrossQuestion = "cross_question_prompt"
	KeyCrossResponse = "cross_response_prompt"
	KeyFreeDebate    = "free_debate_prompt"
	KeyClosing       = "closing_prompt"
	KeyJudgeScoring  = "judge_scoring_prompt"
	KeyFinalVerdict  = "final_verdict_prompt"
)

// Vars holds the named values substituted into a template.
type Vars map[string]any

// Store is a key→template lookup. It is immutable after construction and
// safe for concurrent use.
type Store struct {
	templates map[string]string
	log       *logging.Logger
}

// promptFile is the YAML shape shared by the embedded defaults and user
// override files.
type promptFile struct {
	Prompts map[string]string `yaml:"prompts"`
}

// NewStore returns a store holding the embedded default templates.
func NewStore(log *logging.Logger) *Store {
	if log == nil {
		log = logging.NopLogger()
	}

	var defaults promptFile
	// The embedded defaults are fixed at build time; a parse failure here
	// is a programming error, not a runtime condition.
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		panic(fmt.Sprintf("prompt: embedded defaults.yaml is invalid: %v", err))
	}

	return &Store{
		templates: defaults.Prompts,
		log:       log,
	}
}

// Load returns a store with templates from the given YAML file merged over
// the embedded defaults. Keys absent from the file keep their defaults.
func Load(path string, log *logging.Logger) (*Store, error) {
	s := NewStore(log)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read %s: %w", path, err)
	}

	var overrides promptFile
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("prompt: parse %s: %w", path, err)
	}

	merged := make(map[string]string, len(s.templates)+len(overrides.Prompts))
	for key, tmpl := range s.templates {
		merged[key] = tmpl
	}
	for key, tmpl := range overrides.Prompts {
		merged[key] = tmpl
	}
	s.templates = merged

	return s, nil
}

// Get returns the raw template for a key, or the empty string when the key
// is unknown. A missing key degrades to an empty prompt rather than a hard
// failure, matching the reference behavior; the gap is logged so
// misconfigured template files are visible.
func (s *Store) Get(key string) string {
	tmpl, ok := s.templates[key]
	if !ok {
		s.log.Warn("prompt template missing, using empty prompt", "key", key)
		return ""
	}
	return tmpl
}

// Render substitutes {named} placeholders in the template for key with the
// given vars. Placeholders without a matching var are left intact.
func (s *Store) Render(key string, vars Vars) string {
	tmpl := s.Get(key)
	if tmpl == "" || len(vars) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Keys returns the set of template keys the store holds.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.templates))
	for key := range s.templates {
		keys = append(keys, key)
	}
	return keys
}
