package commands

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/surf/pkg/browser"
)

// Script is a declarative sequence of browser steps, optionally spread over
// several named sessions. Steps without a session name use "main".
type Script struct {
	Sessions map[string]ScriptSession `yaml:"sessions"`
	Steps    []ScriptStep             `yaml:"steps"`
}

// ScriptSession overrides launch options for one named session.
type ScriptSession struct {
	Engine string `yaml:"engine"`
	Headed bool   `yaml:"headed"`
}

// ScriptStep is one action in a script. Which fields apply depends on Action.
type ScriptStep struct {
	Session string `yaml:"session"`
	Action  string `yaml:"action"`

	// navigate
	URL       string `yaml:"url"`
	WaitUntil string `yaml:"wait_until"`

	// click, fill, wait, extract, screenshot
	Selector string  `yaml:"selector"`
	Timeout  float64 `yaml:"timeout"`

	// click
	Button string `yaml:"button"`
	Double bool   `yaml:"double"`

	// fill
	Value string `yaml:"value"`
	Enter bool   `yaml:"enter"`

	// wait
	State string `yaml:"state"`

	// screenshot
	Output   string `yaml:"output"`
	FullPage bool   `yaml:"full_page"`

	// eval
	Expression string `yaml:"expression"`

	// extract
	Format    string `yaml:"format"`
	MaxLength int    `yaml:"max_length"`

	// search
	Pattern       string `yaml:"pattern"`
	CaseSensitive bool   `yaml:"case_sensitive"`
	Max           int    `yaml:"max"`
}

// parseScript decodes and validates a script document.
func parseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	for i, step := range script.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &script, nil
}

func (s ScriptStep) validate() error {
	switch s.Action {
	case "navigate":
		if s.URL == "" {
			return fmt.Errorf("navigate requires url")
		}
		if s.WaitUntil != "" && !browser.ValidWaitUntil(s.WaitUntil) {
			return fmt.Errorf("invalid wait_until %q", s.WaitUntil)
		}
	case "click":
		if s.Selector == "" {
			return fmt.Errorf("click requires selector")
		}
		if !browser.ValidButton(s.Button) {
			return fmt.Errorf("invalid button %q", s.Button)
		}
	case "fill":
		if s.Selector == "" {
			return fmt.Errorf("fill requires selector")
		}
	case "wait":
		if s.Selector == "" {
			return fmt.Errorf("wait requires selector")
		}
		if !browser.ValidWaitState(s.State) {
			return fmt.Errorf("invalid state %q", s.State)
		}
	case "screenshot":
		if s.Output == "" {
			return fmt.Errorf("screenshot requires output")
		}
	case "eval":
		if s.Expression == "" {
			return fmt.Errorf("eval requires expression")
		}
	case "extract":
		switch browser.ExtractFormat(s.Format) {
		case "", browser.FormatText, browser.FormatMarkdown, browser.FormatHTML:
		default:
			return fmt.Errorf("invalid format %q", s.Format)
		}
	case "search":
		if s.Pattern == "" {
			return fmt.Errorf("search requires pattern")
		}
	case "":
		return fmt.Errorf("missing action")
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

// sessionName returns the session a step runs in.
func (s ScriptStep) sessionName() string {
	if s.Session == "" {
		return "main"
	}
	return s.Session
}
