package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guiperry/playground/config"
	"github.com/guiperry/playground/utils"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAPIBase, cfg.APIBase)
	assert.Equal(t, "auto", cfg.Model)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, utils.LogLevelWarn, cfg.LogLevel)
	assert.Equal(t, 4096, cfg.ReadBufferSize)
	assert.Equal(t, 1, cfg.StartBurst)
	assert.Empty(t, cfg.TokenEncoding)
	assert.NoError(t, config.Validate(cfg))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PLAYGROUND_API_BASE", "http://localhost:8080/")
	t.Setenv("PLAYGROUND_MODEL", "reasoning")
	t.Setenv("PLAYGROUND_TIMEOUT", "90s")
	t.Setenv("PLAYGROUND_LOG_LEVEL", "debug")
	t.Setenv("PLAYGROUND_READ_BUFFER", "16")
	t.Setenv("PLAYGROUND_START_RATE", "0.5")
	t.Setenv("PLAYGROUND_START_BURST", "2")
	t.Setenv("PLAYGROUND_TOKEN_ENCODING", "cl100k_base")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBase)
	assert.Equal(t, "reasoning", cfg.Model)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, 16, cfg.ReadBufferSize)
	assert.InDelta(t, 0.5, cfg.StartRate, 1e-9)
	assert.Equal(t, 2, cfg.StartBurst)
	assert.Equal(t, "cl100k_base", cfg.TokenEncoding)
}

func TestLoadConfigInvalidLogLevel(t *testing.T) {
	t.Setenv("PLAYGROUND_LOG_LEVEL", "chatty")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		opts    []config.ConfigOption
		wantErr bool
	}{
		{name: "defaults"},
		{name: "bad url", opts: []config.ConfigOption{config.SetAPIBase("not a url")}, wantErr: true},
		{name: "unknown model", opts: []config.ConfigOption{config.SetModel("huge")}, wantErr: true},
		{name: "negative rate", opts: []config.ConfigOption{config.SetStartRate(-1, 1)}, wantErr: true},
		{name: "fast model", opts: []config.ConfigOption{config.SetModel("fast")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewConfig()
			config.ApplyOptions(cfg, tc.opts...)
			err := config.Validate(cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := config.NewConfig()
	config.ApplyOptions(cfg,
		config.SetAPIBase("http://example.com/"),
		config.SetTimeout(time.Minute),
		config.SetReadBufferSize(0),
		config.SetStartRate(2, 0),
		config.SetTokenEncoding("o200k_base"),
		config.SetExtraHeaders(map[string]string{"X-Trace": "1"}),
	)

	assert.Equal(t, "http://example.com", cfg.APIBase)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, 1, cfg.ReadBufferSize)
	assert.InDelta(t, 2.0, cfg.StartRate, 1e-9)
	assert.Equal(t, 1, cfg.StartBurst)
	assert.Equal(t, "o200k_base", cfg.TokenEncoding)
	assert.Equal(t, "1", cfg.ExtraHeaders["X-Trace"])
}

func TestSetLogger(t *testing.T) {
	logger := utils.NewMockLogger()

	cfg := config.NewConfig()
	config.ApplyOptions(cfg, config.SetLogger(logger), config.SetLogLevel(utils.LogLevelDebug))

	assert.Same(t, logger, cfg.GetLogger())
	assert.Equal(t, utils.LogLevelDebug, cfg.LogLevel)
}

func TestGetLoggerDefault(t *testing.T) {
	cfg := config.NewConfig()
	assert.NotNil(t, cfg.GetLogger())
}
