package translator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoTranslation is returned when the service answered successfully but
// the body did not carry a translation.
var ErrNoTranslation = errors.New("no translation in response")

// NetworkError is a transport or HTTP-level failure. Its message is the
// transport's own description of the failure.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newStatusError(code int, status string) *NetworkError {
	if status == "" {
		status = fmt.Sprintf("%d", code)
	}
	return &NetworkError{StatusCode: code, Err: fmt.Errorf("server replied: %s", status)}
}

type ServiceConfig struct {
	Backend     string        `mapstructure:"backend" json:"backend"`
	Endpoint    string        `mapstructure:"endpoint" json:"endpoint"`
	Email       string        `mapstructure:"email" json:"email"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	ProjectID   string        `mapstructure:"project_id" json:"project_id"`
}

type Request struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type Result struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Match          float64           `json:"match"`
	Status         int               `json:"status"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
}

// Service issues one translation per call. Implementations never retry.
type Service interface {
	Name() string
	Translate(ctx context.Context, req Request) (*Result, error)
	SupportedLanguages(ctx context.Context) ([]string, error)
}

// New builds the backend named by cfg.Backend; empty means MyMemory.
func New(cfg ServiceConfig) (Service, error) {
	switch cfg.Backend {
	case "", "mymemory":
		return NewMyMemoryService(cfg.Endpoint, cfg.Email, cfg.Timeout), nil
	case "google":
		return NewGoogleService(cfg.Credentials, cfg.ProjectID), nil
	default:
		return nil, fmt.Errorf("unknown translation backend: %s", cfg.Backend)
	}
}
