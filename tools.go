package llmprovider

import (
	"fmt"
	"sync"
)

// NewTool creates a ToolDefinition with an object parameter schema built
// from the given properties and required field names.
func NewTool(name, description string, properties map[string]any, required []string) ToolDefinition {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return ToolDefinition{
		Name:            name,
		Description:     description,
		ParameterSchema: schema,
	}
}

// ToolRegistry manages runtime registration of tool definitions.
// This allows library users to assemble a named set of tools once and
// attach them to requests via Definitions().
type ToolRegistry struct {
	tools map[string]ToolDefinition
	order []string
	mu    sync.RWMutex
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]ToolDefinition)}
}

// Register adds a tool definition. Registration order is preserved.
func (r *ToolRegistry) Register(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty: %w", ErrInvalidRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool '%s' is already registered: %w", def.Name, ErrInvalidRequest)
	}

	r.tools[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the named tool definition.
func (r *ToolRegistry) Get(name string) (ToolDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.tools[name]
	return def, ok
}

// Definitions returns all registered tools in registration order,
// ready to attach to GenerationSettings.Tools.
func (r *ToolRegistry) Definitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name])
	}
	return defs
}

// Names returns the registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
