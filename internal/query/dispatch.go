package query

import (
	"context"
	"fmt"
	"log"
)

// Tool names understood by Call
const (
	ToolOverview      = "truenas_overview"
	ToolPluginDocs    = "truenas_plugin_docs"
	ToolAPIDocs       = "truenas_api_docs"
	ToolTestingDocs   = "truenas_testing_docs"
	ToolSubsystemDocs = "truenas_subsystem_docs"
	ToolSearchDocs    = "truenas_search_docs"
)

var toolNames = []string{
	ToolOverview,
	ToolPluginDocs,
	ToolAPIDocs,
	ToolTestingDocs,
	ToolSubsystemDocs,
	ToolSearchDocs,
}

// ToolNames returns the query tool names in registration order
func (e *Engine) ToolNames() []string {
	names := make([]string, len(toolNames))
	copy(names, toolNames)
	return names
}

// Call runs the named query with its arguments and always returns text.
// Unknown names yield "Unknown tool: <name>"; failures and panics yield
// "Error: <message>".
func (e *Engine) Call(ctx context.Context, name string, args map[string]any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error handling tool %s: panic: %v", name, r)
			text = fmt.Sprintf("Error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errorText(name, err)
	}

	text, known, err := e.call(name, args)
	if err != nil {
		return errorText(name, err)
	}
	if !known {
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	return text
}

func (e *Engine) call(name string, args map[string]any) (string, bool, error) {
	a := arguments(args)

	switch name {
	case ToolOverview:
		return e.Overview(), true, nil

	case ToolPluginDocs:
		plugin, err := a.str("plugin_name")
		if err != nil {
			return "", true, err
		}
		topic, err := a.str("topic")
		if err != nil {
			return "", true, err
		}
		text, err := e.PluginDocs(plugin, topic)
		return text, true, err

	case ToolAPIDocs:
		topic, err := a.str("topic")
		if err != nil {
			return "", true, err
		}
		return e.APIDocs(topic), true, nil

	case ToolTestingDocs:
		topic, err := a.str("topic")
		if err != nil {
			return "", true, err
		}
		return e.TestingDocs(topic), true, nil

	case ToolSubsystemDocs:
		subsystem, err := a.str("subsystem")
		if err != nil {
			return "", true, err
		}
		text, err := e.SubsystemDocs(subsystem)
		return text, true, err

	case ToolSearchDocs:
		query, err := a.str("query")
		if err != nil {
			return "", true, err
		}
		return e.SearchDocs(query), true, nil
	}

	return "", false, nil
}

func errorText(name string, err error) string {
	log.Printf("Error handling tool %s: %v", name, err)
	return fmt.Sprintf("Error: %v", err)
}

// arguments reads optional string arguments from a tool call
type arguments map[string]any

// str returns the named argument, or "" when it is absent or null
func (a arguments) str(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, v)
	}
	return s, nil
}
