package ai

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.EmbeddingHost == "" {
		t.Error("DefaultConfig() EmbeddingHost is empty")
	}
	if cfg.AnalyzerHost == "" {
		t.Error("DefaultConfig() AnalyzerHost is empty")
	}
	if cfg.EmbeddingModel == "" {
		t.Error("DefaultConfig() EmbeddingModel is empty")
	}
	if cfg.AnalyzerModel == "" {
		t.Error("DefaultConfig() AnalyzerModel is empty")
	}
	if cfg.MaxMentions != 20 {
		t.Errorf("DefaultConfig() MaxMentions = %d, want 20", cfg.MaxMentions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate, got %v", err)
	}
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://example.com:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithAnalyzerModel("gpt-4o-mini"),
		WithMaxMentions(5),
	)

	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.AnalyzerModel != "gpt-4o-mini" {
		t.Errorf("AnalyzerModel = %q", cfg.AnalyzerModel)
	}
	if cfg.MaxMentions != 5 {
		t.Errorf("MaxMentions = %d, want 5", cfg.MaxMentions)
	}
	if cfg.EmbeddingHost != cfg.AnalyzerHost {
		t.Errorf("WithHost should set both hosts, got %q and %q", cfg.EmbeddingHost, cfg.AnalyzerHost)
	}
}

func TestNewConfig_SplitHosts(t *testing.T) {
	cfg := NewConfig(
		WithEmbeddingHost("http://embed.local:11434"),
		WithAnalyzerHost("http://chat.local:9100"),
	)
	cfg.Normalize()

	if cfg.EmbeddingHost != "http://embed.local:11434/v1" {
		t.Errorf("EmbeddingHost = %q", cfg.EmbeddingHost)
	}
	if cfg.AnalyzerHost != "http://chat.local:9100/v1" {
		t.Errorf("AnalyzerHost = %q", cfg.AnalyzerHost)
	}
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "bare host gets /v1", host: "http://localhost:11434", want: "http://localhost:11434/v1"},
		{name: "trailing slash handled", host: "http://localhost:11434/", want: "http://localhost:11434/v1"},
		{name: "already normalized", host: "http://localhost:11434/v1", want: "http://localhost:11434/v1"},
		{name: "empty stays empty", host: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingHost: tt.host, AnalyzerHost: tt.host}
			cfg.Normalize()

			if cfg.EmbeddingHost != tt.want {
				t.Errorf("EmbeddingHost = %q, want %q", cfg.EmbeddingHost, tt.want)
			}
			if cfg.AnalyzerHost != tt.want {
				t.Errorf("AnalyzerHost = %q, want %q", cfg.AnalyzerHost, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing embedding host", mutate: func(c *Config) { c.EmbeddingHost = "" }, wantErr: true},
		{name: "missing analyzer host", mutate: func(c *Config) { c.AnalyzerHost = "" }, wantErr: true},
		{name: "missing embedding model", mutate: func(c *Config) { c.EmbeddingModel = "" }, wantErr: true},
		{name: "missing analyzer model", mutate: func(c *Config) { c.AnalyzerModel = "" }, wantErr: true},
		{name: "zero max mentions", mutate: func(c *Config) { c.MaxMentions = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidMentionKind(t *testing.T) {
	for _, kind := range MentionKinds {
		if !ValidMentionKind(kind) {
			t.Errorf("ValidMentionKind(%q) = false", kind)
		}
	}
	if ValidMentionKind("organization") {
		t.Error("ValidMentionKind should reject unknown kinds")
	}
	if ValidMentionKind("") {
		t.Error("ValidMentionKind should reject empty kind")
	}
}
