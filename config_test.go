package workplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := Config{}
	SetDefaults(&cfg)

	assert.Equal(t, DefaultCooldownTicks, cfg.CooldownTicks)
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, DefaultCacheFreshFor, cfg.CacheFreshFor)
	assert.Equal(t, DefaultStartupTimeout, cfg.StartupTimeout)
}

func TestSetDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		CooldownTicks: 5,
		PollInterval:  4 * time.Second,
	}
	SetDefaults(&cfg)

	assert.Equal(t, 5, cfg.CooldownTicks)
	assert.Equal(t, 4*time.Second, cfg.PollInterval)
	assert.Equal(t, DefaultTickInterval, cfg.TickInterval)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", func() Config { c := Config{}; SetDefaults(&c); return c }(), false},
		{"negative cooldown ticks", Config{CooldownTicks: -1}, true},
		{"negative tick interval", Config{TickInterval: -time.Second}, true},
		{"negative poll interval", Config{PollInterval: -time.Second}, true},
		{"negative cache freshness", Config{CacheFreshFor: -time.Minute}, true},
		{"negative startup timeout", Config{StartupTimeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	const doc = `
cooldownTicks: 8
tickInterval: 1s
pollInterval: 3s
cacheFreshFor: 2m
startupTimeout: 20s
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))

	assert.Equal(t, 8, cfg.CooldownTicks)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.CacheFreshFor)
	assert.Equal(t, 20*time.Second, cfg.StartupTimeout)

	out, err := yaml.Marshal(&cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg, back)
}
