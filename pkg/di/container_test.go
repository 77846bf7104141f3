package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/bncsv/pkg/batch"
)

func TestNewContainer(t *testing.T) {
	c := NewContainer()
	require.NotNil(t, c.GetRegistry())
	require.NotNil(t, c.GetMetrics())
	require.NotNil(t, c.GetPipelineFactory())

	// Each container registers its metrics on a private registry.
	assert.NotPanics(t, func() { NewContainer() })
}

func TestSetPipelineFactory(t *testing.T) {
	c := NewContainer()
	called := false
	c.SetPipelineFactory(func(opts batch.Options) *batch.Pipeline {
		called = true
		return batch.New(opts)
	})

	p := c.GetPipelineFactory()(batch.Options{})
	assert.NotNil(t, p)
	assert.True(t, called)
}
