package impactfx

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		resources: make(map[reflect.Type]any),
		systems:   make(map[string][]systemFn),
		stages:    []Stage{PreUpdate, Update, PostUpdate},
		scene:     NewScene(),
	}}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs modules in registration order and flushes any entities they
// spawned, so the returned app is ready for its first Tick.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		app.modules = append(app.modules, module)
		module.Install(app, commands)
	}
	app.FlushCommands()

	return app
}
