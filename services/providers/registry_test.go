package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedProvider struct {
	name   string
	config ProviderConfig
}

func (p *namedProvider) Name() string { return p.name }

func (p *namedProvider) ChatCompletion(context.Context, *ChatRequest) (*ChatResponse, error) {
	return nil, errors.New("not used")
}

func builderFor(name string) Builder {
	return func(config ProviderConfig) (Provider, error) {
		return &namedProvider{name: name, config: config}, nil
	}
}

func TestRegistry_RegisterAndBuild(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("openai", builderFor("openai")))

	provider, err := registry.Build("openai", ProviderConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, "sk-test", provider.(*namedProvider).config.APIKey)
}

func TestRegistry_Register_Errors(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("openai", builderFor("openai")))

	assert.ErrorIs(t, registry.Register("openai", builderFor("openai")), ErrProviderAlreadyRegistered)
	assert.Error(t, registry.Register("", builderFor("x")))
	assert.Error(t, registry.Register("x", nil))
}

func TestRegistry_Build_Unknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Build("bedrock", ProviderConfig{})
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.Contains(t, err.Error(), "bedrock")
}

func TestRegistry_Build_BuilderError(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("broken", func(ProviderConfig) (Provider, error) {
		return nil, errors.New("boom")
	}))

	_, err := registry.Build("broken", ProviderConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build provider broken")
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("openai", builderFor("openai")))
	require.NoError(t, registry.Register("azure", builderFor("azure")))

	assert.Equal(t, []string{"azure", "openai"}, registry.Names())
}
