package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/truenas/docs-mcp-server/internal/runtime"
)

// ToolRunTests is the name of the test runner tool
const ToolRunTests = "truenas_run_tests"

const runTestsDescription = "Run TrueNAS middleware tests using Docker. Can run all tests or specific test files."

// RunTestsInput defines input for truenas_run_tests tool
type RunTestsInput struct {
	RepoPath string `json:"repo_path,omitempty" jsonschema:"Path to the middleware repository (optional, defaults to the configured repository)"`
	TestFile string `json:"test_file,omitempty" jsonschema:"Specific test file to run (e.g. test_construct_schema.py)"`
}

// TestTools runs the middleware test suite on request
type TestTools struct {
	runner *runtime.Runner
}

// NewTestTools creates the test runner tool handler
func NewTestTools(runner *runtime.Runner) *TestTools {
	return &TestTools{runner: runner}
}

// RunTests handles truenas_run_tests
func (t *TestTools) RunTests(ctx context.Context, req *mcp.CallToolRequest, input RunTestsInput) (*mcp.CallToolResult, any, error) {
	run, err := t.runner.Run(ctx, input.RepoPath, input.TestFile)
	if err != nil {
		return textResult(fmt.Sprintf("❌ Error running tests: %v", err)), nil, nil
	}
	return textResult(run.Report()), nil, nil
}

// RegisterTestTools registers truenas_run_tests with the MCP server
func RegisterTestTools(server *mcp.Server, runner *runtime.Runner, env *runtime.Environment) {
	description := runTestsDescription
	if env != nil && !env.HasDocker {
		description += " Docker was not detected on this host, so runs are expected to fail."
	}

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        ToolRunTests,
			Description: description,
		},
		NewTestTools(runner).RunTests,
	)
}
