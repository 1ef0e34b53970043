package inject

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ayusman/mudra/internal/plugin"
)

// Plugin action names understood by injection plugins.
const (
	ActionMove     = "move"
	ActionClick    = "click"
	ActionScroll   = "scroll"
	ActionKeyCombo = "key-combo"
	ActionMediaKey = "media-key"
)

// Routes names the plugin that serves each kind of injection. An empty name
// leaves that kind unsupported.
type Routes struct {
	Pointer string `yaml:"pointer"`
	Keys    string `yaml:"keys"`
	Media   string `yaml:"media"`
}

// Plugin forwards injections to external plugins through the plugin executor.
type Plugin struct {
	manager  *plugin.Manager
	executor *plugin.Executor
	routes   Routes
}

// NewPlugin creates a plugin-backed Injector. The manager must already have
// discovered its plugins.
func NewPlugin(manager *plugin.Manager, executor *plugin.Executor, routes Routes) *Plugin {
	return &Plugin{
		manager:  manager,
		executor: executor,
		routes:   routes,
	}
}

// MoveTo implements Injector.
func (p *Plugin) MoveTo(x, y int) error {
	return p.call(p.routes.Pointer, ActionMove, map[string]int{"x": x, "y": y})
}

// Click implements Injector.
func (p *Plugin) Click(b Button) error {
	return p.call(p.routes.Pointer, ActionClick, map[string]string{"button": b.String()})
}

// Scroll implements Injector.
func (p *Plugin) Scroll(amount int) error {
	return p.call(p.routes.Pointer, ActionScroll, map[string]int{"amount": amount})
}

// KeyCombo implements Injector.
func (p *Plugin) KeyCombo(keys ...string) error {
	return p.call(p.routes.Keys, ActionKeyCombo, map[string][]string{"keys": keys})
}

// MediaKey implements Injector.
func (p *Plugin) MediaKey(k MediaKey) error {
	return p.call(p.routes.Media, ActionMediaKey, map[string]string{"key": k.String()})
}

func (p *Plugin) call(pluginName, action string, params any) error {
	if pluginName == "" {
		return fmt.Errorf("%w: no plugin routed for %s", ErrUnsupported, action)
	}

	plug, err := p.manager.Get(pluginName)
	if err != nil {
		return fmt.Errorf("%s via %s: %w", action, pluginName, err)
	}
	if !plug.Manifest.Supports(action) {
		return fmt.Errorf("%w: plugin %s does not handle %s", ErrUnsupported, pluginName, action)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal %s params: %w", action, err)
	}

	resp, err := p.executor.Execute(context.Background(), plug, &plugin.Request{
		Action: action,
		Params: raw,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s %s: %s", pluginName, action, resp.Error)
	}
	return nil
}
