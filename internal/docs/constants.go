package docs

// Discovery and summarization constants
const (
	// DocFileName is the only file name picked up while walking the docs root
	DocFileName = "CLAUDE.md"

	// DefaultSummaryLines is the line budget used when summarizing the overview
	DefaultSummaryLines = 50

	// maxParallelReads bounds concurrent file reads during Build
	maxParallelReads = 8

	// sectionPrefix marks a top-level section heading. Deeper headings stay in the body.
	sectionPrefix = "## "

	// codeFence toggles fenced code block state in the summarizer
	codeFence = "```"

	// keptCodeBlocks is how many fenced blocks survive summarization
	keptCodeBlocks = 2
)

// Cache keys for singleton categories and prefixes for entity categories
const (
	KeyOverview        = "overview"
	KeyPluginsOverview = "plugins_overview"
	KeyAPI             = "api"
	KeyTesting         = "testing"

	PluginKeyPrefix    = "plugin_"
	SubsystemKeyPrefix = "subsystem_"
)

// Section titles the build step and the query engine look up by name
const (
	SectionPurpose               = "Purpose"
	SectionRepositoryStructure   = "Repository Structure"
	SectionDevelopmentGuidelines = "Development Guidelines"
	SectionServiceTypes          = "Service Types and Base Classes"
	SectionCommonPluginPatterns  = "Common Plugin Patterns"
	SectionKeyPluginsByCategory  = "Key Plugins by Category"
	SectionOverview              = "Overview"
	SectionDirectoryStructure    = "Directory Structure"
	SectionMigration             = "Migration Between Versions"
	SectionKeyConcepts           = "Key Concepts"
	SectionCommonPatterns        = "Common Patterns"
	SectionBestPractices         = "Best Practices"
	SectionTestStructure         = "Test Structure"
	SectionWritingTests          = "Writing Tests"
)
