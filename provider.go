package kiln

import (
	"context"

	"github.com/danpasecinic/kiln/internal/container"
)

// Factory builds an instance from its resolved dependencies. Nested
// resolution from inside a factory must use the ctx it was handed.
type Factory[T any] func(ctx context.Context, deps Dependencies) (T, error)

type RegisterOption func(*registerConfig)

type registerConfig struct {
	lifetime     Lifetime
	dependencies []string
	metadata     container.Metadata
}

func newRegisterConfig(opts []RegisterOption) *registerConfig {
	cfg := &registerConfig{lifetime: Singleton}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Register adds or replaces the registration for token. Replacing an
// existing registration logs a warning.
func Register[T any](c *Container, token Token[T], factory Factory[T], opts ...RegisterOption) error {
	cfg := newRegisterConfig(opts)

	provider := func(ctx context.Context, deps container.Dependencies) (any, error) {
		return factory(ctx, deps)
	}

	return c.internal.Register(container.ServiceEntry{
		ID:           token.ID(),
		Provider:     provider,
		Lifetime:     cfg.lifetime,
		Dependencies: cfg.dependencies,
		Metadata:     cfg.metadata,
	})
}

func RegisterSingleton[T any](c *Container, token Token[T], factory Factory[T], opts ...RegisterOption) error {
	return Register(c, token, factory, append(opts, WithLifetime(Singleton))...)
}

func RegisterTransient[T any](c *Container, token Token[T], factory Factory[T], opts ...RegisterOption) error {
	return Register(c, token, factory, append(opts, WithLifetime(Transient))...)
}

func RegisterScoped[T any](c *Container, token Token[T], factory Factory[T], opts ...RegisterOption) error {
	return Register(c, token, factory, append(opts, WithLifetime(Scoped))...)
}

// RegisterInstance registers a prebuilt singleton. Lifetime and dependency
// options are ignored.
func RegisterInstance[T any](c *Container, token Token[T], instance T, opts ...RegisterOption) error {
	cfg := newRegisterConfig(opts)
	return c.internal.RegisterInstance(token.ID(), instance, cfg.metadata)
}

func WithLifetime(l Lifetime) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.lifetime = l
	}
}

func WithDependencies(ids ...string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.dependencies = append(cfg.dependencies, ids...)
	}
}

// DependsOn declares dependencies by token.
func DependsOn(deps ...Identifier) RegisterOption {
	return WithDependencies(ids(deps)...)
}

func WithDescription(description string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.metadata.Description = description
	}
}

func WithCategory(category string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.metadata.Category = category
	}
}

func WithTags(tags ...string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.metadata.Tags = append(cfg.metadata.Tags, tags...)
	}
}

func WithVersion(version string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.metadata.Version = version
	}
}

func WithAuthor(author string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.metadata.Author = author
	}
}

// WithMetadata overwrites every metadata field at once.
func WithMetadata(meta Metadata) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.metadata = meta
	}
}

type Metadata = container.Metadata
