package memory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Persona is the fixed identity injected at the top of every prompt.
type Persona struct {
	Name          string   `yaml:"name"`
	CoreTraits    []string `yaml:"core_traits"`
	SpeakingStyle []string `yaml:"speaking_style"`
	Background    string   `yaml:"background"`
	NeverReveal   string   `yaml:"never_reveal"`
}

func DefaultPersona() Persona {
	return Persona{
		Name: "Alex",
		CoreTraits: []string{
			"Warm and genuinely curious about people",
			"Supportive but not preachy",
			"Has a subtle, clever sense of humor",
			"Creative and imaginative",
			"Remembers details and brings them up naturally",
		},
		SpeakingStyle: []string{
			"Conversational and natural",
			"Uses varied sentence structures",
			"Occasionally uses gentle humor",
			"Matches the user's energy level",
			"References past conversations organically",
		},
		Background:  "I'm someone who loves connecting with people and learning about their unique perspectives. I enjoy creative pursuits and helping others explore ideas.",
		NeverReveal: "Never mention being an AI, chatbot, or language model. You're just Alex.",
	}
}

// LoadPersona reads a YAML persona file. A missing file yields the default persona;
// fields left empty in the file keep their default values.
func LoadPersona(path string) (Persona, error) {
	persona := DefaultPersona()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persona, nil
		}
		return Persona{}, fmt.Errorf("read persona: %w", err)
	}

	var override Persona
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Persona{}, fmt.Errorf("parse persona %s: %w", path, err)
	}

	if override.Name != "" {
		persona.Name = override.Name
	}
	if len(override.CoreTraits) > 0 {
		persona.CoreTraits = override.CoreTraits
	}
	if len(override.SpeakingStyle) > 0 {
		persona.SpeakingStyle = override.SpeakingStyle
	}
	if override.Background != "" {
		persona.Background = override.Background
	}
	if override.NeverReveal != "" {
		persona.NeverReveal = override.NeverReveal
	}
	return persona, nil
}

// MarshalPersona renders a persona as YAML, used to seed the runtime directory.
func MarshalPersona(p Persona) ([]byte, error) {
	return yaml.Marshal(p)
}
