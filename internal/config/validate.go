package config

import (
	"fmt"
	"unicode/utf8"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Database.validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Annotator.validate(); err != nil {
		return fmt.Errorf("annotator: %w", err)
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if d.MaxConns < 1 {
		return fmt.Errorf("max_conns must be >= 1 (got %d)", d.MaxConns)
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		return fmt.Errorf("min_conns must be between 0 and max_conns (got %d)", d.MinConns)
	}
	if d.ConnectTimeout <= 0 {
		return fmt.Errorf("connect_timeout must be > 0 (got %s)", d.ConnectTimeout)
	}
	return nil
}

func (a *AnnotatorConfig) validate() error {
	if a.MaxWordLength <= 0 {
		return fmt.Errorf("max_word_length must be > 0 (got %d)", a.MaxWordLength)
	}
	if a.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", a.Workers)
	}
	if a.PriorityBatch < 1 {
		return fmt.Errorf("priority_batch must be >= 1 (got %d)", a.PriorityBatch)
	}

	glyphs := []struct {
		name  string
		value string
	}{
		{"open_bracket", a.OpenBracket},
		{"close_bracket", a.CloseBracket},
		{"learning_open", a.LearningOpen},
		{"learning_close", a.LearningClose},
	}
	seen := make(map[string]string, len(glyphs))
	for _, g := range glyphs {
		if utf8.RuneCountInString(g.value) != 1 {
			return fmt.Errorf("%s must be a single character (got %q)", g.name, g.value)
		}
		if other, ok := seen[g.value]; ok {
			return fmt.Errorf("%s duplicates %s (%q)", g.name, other, g.value)
		}
		seen[g.value] = g.name
	}
	return nil
}

func (l *LogConfig) validate() error {
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must be >= 0")
	}
	return nil
}

// Brackets returns the four bracket glyphs as runes: plain open/close and
// learning open/close. It assumes Validate has passed.
func (a AnnotatorConfig) Brackets() (plainOpen, plainClose, learningOpen, learningClose rune) {
	first := func(s string) rune {
		r, _ := utf8.DecodeRuneInString(s)
		return r
	}
	return first(a.OpenBracket), first(a.CloseBracket), first(a.LearningOpen), first(a.LearningClose)
}
