package kiln

import "fmt"

// Module groups registrations so a feature can be wired in one call.
type Module struct {
	name          string
	registrations []func(c *Container) error
	submodules    []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

// Include applies submodule before the module's own registrations.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(c *Container) error {
	for _, sub := range m.submodules {
		if err := sub.apply(c); err != nil {
			return err
		}
	}

	for _, register := range m.registrations {
		if err := register(c); err != nil {
			return err
		}
	}

	return nil
}

func (c *Container) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(c); err != nil {
			return fmt.Errorf("apply module %s: %w", m.name, err)
		}
	}
	return nil
}

func ModuleRegister[T any](m *Module, token Token[T], factory Factory[T], opts ...RegisterOption) *Module {
	m.registrations = append(
		m.registrations, func(c *Container) error {
			return Register(c, token, factory, opts...)
		},
	)
	return m
}

func ModuleRegisterInstance[T any](m *Module, token Token[T], instance T, opts ...RegisterOption) *Module {
	m.registrations = append(
		m.registrations, func(c *Container) error {
			return RegisterInstance(c, token, instance, opts...)
		},
	)
	return m
}
