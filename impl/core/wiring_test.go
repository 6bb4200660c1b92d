package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ReturnsAgent/internal/config"
	"ReturnsAgent/internal/lib/logger"
	"ReturnsAgent/internal/nlu"
	"ReturnsAgent/internal/state"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateBackend(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()

	conf := &config.Config{}
	backend, err := NewStateBackend(ctx, conf, nil, log)
	require.NoError(t, err)
	assert.IsType(t, &state.Memory{}, backend)

	mr := miniredis.RunT(t)
	conf.State.Backend = BackendRedis
	conf.State.Redis.Addr = mr.Addr()
	conf.State.Redis.Prefix = "test:"
	backend, err = NewStateBackend(ctx, conf, nil, log)
	require.NoError(t, err)
	require.IsType(t, &state.Redis{}, backend)

	require.NoError(t, backend.Save(ctx, map[string][]byte{"k": []byte(`"v"`)}))
	assert.True(t, mr.Exists("test:k"))

	mr.Close()
	_, err = NewStateBackend(ctx, conf, nil, log)
	assert.Error(t, err, "unreachable redis fails fast")

	conf.State.Backend = "cassandra"
	_, err = NewStateBackend(ctx, conf, nil, log)
	assert.ErrorContains(t, err, "cassandra")
}

func TestNewClassifier(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()
	conf := &config.Config{}

	c, err := NewClassifier(ctx, conf, log)
	require.NoError(t, err)
	assert.IsType(t, &nlu.CLU{}, c)

	conf.NLU.Provider = ProviderOpenAI
	conf.NLU.OpenAI.ApiKey = "sk-test"
	c, err = NewClassifier(ctx, conf, log)
	require.NoError(t, err)
	assert.IsType(t, &nlu.OpenAI{}, c)

	conf.NLU.Sentiment = SentimentGoogle
	conf.NLU.Google.ApiKey = "g-test"
	c, err = NewClassifier(ctx, conf, log)
	require.NoError(t, err)
	composite, ok := c.(*nlu.Composite)
	require.True(t, ok)
	assert.IsType(t, &nlu.OpenAI{}, composite.Conversation)
	assert.IsType(t, &nlu.GoogleSentiment{}, composite.Sentiment)

	conf.NLU.Sentiment = "vader"
	_, err = NewClassifier(ctx, conf, log)
	assert.Error(t, err)

	conf.NLU.Provider = "watson"
	_, err = NewClassifier(ctx, conf, log)
	assert.Error(t, err)
}

func TestNewTenantMatcher(t *testing.T) {
	conf := &config.Config{}
	m, err := NewTenantMatcher(conf)
	require.NoError(t, err)
	assert.Equal(t, "NKENKE", m.TenantCode("Nike"))

	path := filepath.Join(t.TempDir(), "brands.yml")
	require.NoError(t, os.WriteFile(path, []byte("Adidas: ADSADS\n"), 0o600))
	conf.Brand.TablePath = path
	m, err = NewTenantMatcher(conf)
	require.NoError(t, err)
	assert.Equal(t, "ADSADS", m.TenantCode("adidas"))
	assert.Equal(t, "FBAFBA", m.TenantCode("Nike"))

	conf.Brand.TablePath = filepath.Join(t.TempDir(), "missing.yml")
	_, err = NewTenantMatcher(conf)
	assert.Error(t, err)
}

func TestNewDialogEngineRejectsBadRule(t *testing.T) {
	conf := &config.Config{}
	conf.Returns.EligibilityRule = "AvailableForReturns &&"
	_, err := NewDialogEngine(conf, nil, nil, nil, nil, logger.Discard())
	assert.Error(t, err)
}
