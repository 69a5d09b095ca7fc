package suggestion

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.yaml
var promptFiles embed.FS

// Profile holds the prompt material for one project type.
type Profile struct {
	Name          string `yaml:"name"`
	SchemaName    string `yaml:"schema_name"`
	SystemMessage string `yaml:"system_message"`
	PromptIntro   string `yaml:"prompt_intro"`
}

// Profiles manages the embedded prompt profiles
type Profiles struct {
	profiles map[string]*Profile
	mu       sync.RWMutex
}

// LoadProfiles parses every embedded profile
func LoadProfiles() (*Profiles, error) {
	p := &Profiles{profiles: make(map[string]*Profile)}

	for _, name := range []string{"itinerary", "mealplan"} {
		if err := p.loadFile(name); err != nil {
			return nil, fmt.Errorf("failed to load %s profile: %w", name, err)
		}
	}
	return p, nil
}

func (p *Profiles) loadFile(name string) error {
	filename := fmt.Sprintf("prompts/%s.yaml", name)
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if profile.SchemaName == "" || profile.SystemMessage == "" {
		return fmt.Errorf("%s: schema_name and system_message are required", filename)
	}

	p.mu.Lock()
	p.profiles[name] = &profile
	p.mu.Unlock()
	return nil
}

// Get returns the named profile
func (p *Profiles) Get(name string) (*Profile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt profile: %s", name)
	}
	return profile, nil
}
