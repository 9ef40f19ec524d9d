package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Example returns a template config covering every action type.
func Example() *Config {
	return &Config{
		Login: &Login{
			URL:      "https://p.secure.freee.co.jp/",
			Username: "your-username",
			Password: "your-password",
			Selectors: Selectors{
				Username: "input[name='loginId']",
				Password: "input[name='password']",
				Submit:   "button[type='submit']",
			},
		},
		Actions: []Action{
			{Type: ActionWait, Timeout: Millis(2000)},
			{Type: ActionNavigate, URL: "https://p.secure.freee.co.jp/"},
			{Type: ActionClick, Selector: "button.important-button", Wait: Millis(1000)},
			{Type: ActionFill, Selector: `[data-testid="出勤"]`, Value: "automated input"},
			{Type: ActionScreenshot, Path: "result.png"},
		},
	}
}

// WriteExample writes the template config to path, as YAML when the extension asks for it.
func WriteExample(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(Example())
	default:
		data, err = json.MarshalIndent(Example(), "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
