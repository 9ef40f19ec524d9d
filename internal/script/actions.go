package script

import "fmt"

// ActionType is the kind tag of an Action.
type ActionType string

const (
	ActionClick      ActionType = "click"
	ActionFill       ActionType = "fill"
	ActionNavigate   ActionType = "navigate"
	ActionWait       ActionType = "wait"
	ActionScreenshot ActionType = "screenshot"
)

// DefaultWaitTimeout is used by a wait action that names neither a selector nor a timeout (ms)
const DefaultWaitTimeout = 1000

// Action represents a single declarative browser step
type Action struct {
	Type     ActionType `json:"type" yaml:"type"`                             // click, fill, navigate, wait, screenshot
	Selector string     `json:"selector,omitempty" yaml:"selector,omitempty"` // CSS selector for the target element
	Value    string     `json:"value,omitempty" yaml:"value,omitempty"`       // Value to set (for fill)
	URL      string     `json:"url,omitempty" yaml:"url,omitempty"`           // URL for navigate action
	Timeout  *int       `json:"timeout,omitempty" yaml:"timeout,omitempty"`   // Sleep duration in ms (for wait without selector)
	Path     string     `json:"path,omitempty" yaml:"path,omitempty"`         // Output file (for screenshot)
	FullPage bool       `json:"fullPage,omitempty" yaml:"fullPage,omitempty"` // Capture the whole page (for screenshot)
	MaxWidth uint       `json:"maxWidth,omitempty" yaml:"maxWidth,omitempty"` // Downscale width in px (for screenshot)
	Wait     *int       `json:"wait,omitempty" yaml:"wait,omitempty"`         // Settle delay in ms after the action
}

// Known reports whether t is part of the action vocabulary.
func (t ActionType) Known() bool {
	switch t {
	case ActionClick, ActionFill, ActionNavigate, ActionWait, ActionScreenshot:
		return true
	}
	return false
}

// WaitMillis returns the effective sleep of a wait action without a selector.
func (a Action) WaitMillis() int {
	if a.Timeout == nil {
		return DefaultWaitTimeout
	}
	return *a.Timeout
}

// Describe renders the action for progress output.
func (a Action) Describe() string {
	switch a.Type {
	case ActionFill:
		return string(a.Type) + " → " + a.Selector
	case ActionNavigate:
		return string(a.Type) + " → " + a.URL
	case ActionWait:
		if a.Selector != "" {
			return string(a.Type) + " → " + a.Selector
		}
		return fmt.Sprintf("%s → %dms", a.Type, a.WaitMillis())
	case ActionScreenshot:
		if a.Path != "" {
			return string(a.Type) + " → " + a.Path
		}
		return string(a.Type)
	default:
		return string(a.Type) + " → " + a.Selector
	}
}

// Millis returns a pointer to n, for building actions in code.
func Millis(n int) *int {
	return &n
}
