package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{input: "250ms", expected: 250 * time.Millisecond},
		{input: "30s", expected: 30 * time.Second},
		{input: "1h30m45s", expected: time.Hour + 30*time.Minute + 45*time.Second},
		{input: "0s", expected: 0},
		{input: "100", wantErr: true},
		{input: "100x", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, d.Duration)
		})
	}
}

func TestDuration_ConfigFormats(t *testing.T) {
	type cfg struct {
		Backoff Duration `json:"backoff" yaml:"backoff" toml:"backoff"`
	}

	var fromJSON cfg
	require.NoError(t, json.Unmarshal([]byte(`{"backoff":"1m30s"}`), &fromJSON))
	require.Equal(t, 90*time.Second, fromJSON.Backoff.Duration)

	var fromYAML cfg
	require.NoError(t, yaml.Unmarshal([]byte("backoff: 500ms\n"), &fromYAML))
	require.Equal(t, 500*time.Millisecond, fromYAML.Backoff.Duration)

	var fromTOML cfg
	_, err := toml.Decode(`backoff = "2h"`, &fromTOML)
	require.NoError(t, err)
	require.Equal(t, 2*time.Hour, fromTOML.Backoff.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"backoff":"soon"}`), &fromJSON))
}

func TestDuration_Roundtrip(t *testing.T) {
	original := struct {
		Timeout Duration `json:"timeout" yaml:"timeout"`
	}{Timeout: NewDuration(5 * time.Minute)}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	require.JSONEq(t, `{"timeout":"5m0s"}`, string(data))

	yamlData, err := yaml.Marshal(original)
	require.NoError(t, err)

	var decoded struct {
		Timeout Duration `yaml:"timeout"`
	}
	require.NoError(t, yaml.Unmarshal(yamlData, &decoded))
	require.Equal(t, original.Timeout.Duration, decoded.Timeout.Duration)
}

func TestDuration_JSONSchema(t *testing.T) {
	schema := Duration{}.JSONSchema()

	require.Equal(t, "string", schema.Type)
	require.Equal(t, "Duration", schema.Title)
	require.Contains(t, schema.Examples, "300ms")
}
