package logging_test

import (
	"testing"

	"github.com/cowdogmoo/cargo-remote/logging"
	"github.com/stretchr/testify/assert"
)

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"CARGO_REGISTRY_TOKEN", true},
		{"AWS_SECRET_ACCESS_KEY", true},
		{"db_password", true},
		{"GITHUB_AUTH", true},
		{"RUST_BACKTRACE", false},
		{"CC", false},
		{"RUSTFLAGS", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.IsSensitiveKey(tt.key))
		})
	}
}

func TestRedactEnv(t *testing.T) {
	input := []string{"RUST_BACKTRACE=1", "CARGO_REGISTRY_TOKEN=abc123", "NOEQUALS", "CC=clang"}
	got := logging.RedactEnv(input)

	assert.Equal(t, []string{"RUST_BACKTRACE=1", "CARGO_REGISTRY_TOKEN=***", "NOEQUALS", "CC=clang"}, got)
	assert.Equal(t, "CARGO_REGISTRY_TOKEN=abc123", input[1], "input must not be modified")
}

func TestRedactSensitivePatterns(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "token in env prefix",
			input: "source /etc/profile; rustup default stable; cd ~/remote-builds/1/; CARGO_REGISTRY_TOKEN=abc cargo build",
			want:  "source /etc/profile; rustup default stable; cd ~/remote-builds/1/; CARGO_REGISTRY_TOKEN=*** cargo build",
		},
		{
			name:  "harmless assignment untouched",
			input: "RUST_BACKTRACE=1 cargo test",
			want:  "RUST_BACKTRACE=1 cargo test",
		},
		{
			name:  "multiple secrets",
			input: "API_KEY=x DB_PASSWORD=y cargo run",
			want:  "API_KEY=*** DB_PASSWORD=*** cargo run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.RedactSensitivePatterns(tt.input))
		})
	}
}
