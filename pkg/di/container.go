// Package di provides dependency injection container
package di

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssargent/bncsv/pkg/batch"
	"github.com/ssargent/bncsv/pkg/metrics"
)

// PipelineFactory builds the batch pipeline used by the CLI
type PipelineFactory func(opts batch.Options) *batch.Pipeline

// Container holds all the dependencies for the application
type Container struct {
	registry        *prometheus.Registry
	metrics         *metrics.Metrics
	pipelineFactory PipelineFactory
}

// NewContainer creates a new dependency injection container with its own
// metrics registry
func NewContainer() *Container {
	registry := prometheus.NewRegistry()
	return &Container{
		registry:        registry,
		metrics:         metrics.New(registry),
		pipelineFactory: batch.New,
	}
}

// GetRegistry returns the metrics registry
func (c *Container) GetRegistry() *prometheus.Registry {
	return c.registry
}

// GetMetrics returns the conversion metrics
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetPipelineFactory returns the pipeline factory
func (c *Container) GetPipelineFactory() PipelineFactory {
	return c.pipelineFactory
}

// SetPipelineFactory allows overriding the pipeline factory (for testing)
func (c *Container) SetPipelineFactory(factory PipelineFactory) {
	c.pipelineFactory = factory
}
