package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", input: "timeout: 2s", want: 2 * time.Second},
		{name: "milliseconds", input: "timeout: 1500ms", want: 1500 * time.Millisecond},
		{name: "empty", input: "timeout: ", want: 0},
		{name: "null", input: "timeout: null", want: 0},
		{name: "invalid", input: "timeout: soon", wantErr: true},
		{name: "negative", input: "timeout: -1s", wantErr: true},
		{name: "sequence", input: "timeout: [1s]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out struct {
				Timeout Duration `yaml:"timeout"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Timeout.Duration())
		})
	}
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"5s"`, string(data))

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"250ms"`), &d))
	assert.Equal(t, 250*time.Millisecond, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Equal(t, time.Duration(0), d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`5`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"bogus"`), &d))
}

func TestDuration_MarshalYAML(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(struct {
		Timeout Duration `yaml:"timeout"`
	}{Timeout: Duration(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, "timeout: 1m0s\n", string(out))
}
