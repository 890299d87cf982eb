// Package translator produces machine translations that the fixer then
// post-edits.
package translator

import (
	"context"
	"fmt"
	"time"
)

type ServiceConfig struct {
	Credentials string        `mapstructure:"credentials" yaml:"credentials"`
	Email       string        `mapstructure:"email" yaml:"email"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type ServiceResult struct {
	ServiceName    string        `json:"service_name"`
	TranslatedText string        `json:"translated_text"`
	Confidence     float64       `json:"confidence"`
	Latency        time.Duration `json:"latency"`
	Error          string        `json:"error,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*ServiceResult, error)
}

// New returns the service called name.
func New(name string, cfg ServiceConfig) (TranslationService, error) {
	switch name {
	case "google":
		return NewGoogleService(cfg.Credentials), nil
	case "mymemory":
		return NewMyMemoryService(cfg.Email, cfg.BaseURL, cfg.Timeout), nil
	}
	return nil, fmt.Errorf("unknown translation service %q", name)
}
