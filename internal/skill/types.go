package skill

// Manifest is the immutable, parsed content of a skill.yaml file. One
// Manifest corresponds to exactly one entry in the Skill Registry. Only
// Name, Description, and Tags are consumed by the core; InputSchema,
// OutputSchema, PromptTemplate, and Execution are carried through for the
// benefit of skill implementations, which are out of scope here.
type Manifest struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Type        string   `yaml:"type"` // "pure-prompt" | "pure-script" | "hybrid"

	InputSchema    map[string]any `yaml:"input_schema"`
	OutputSchema   map[string]any `yaml:"output_schema"`
	PromptTemplate string         `yaml:"prompt_template"`
	Execution      string         `yaml:"execution"`

	// Dir is the directory the manifest was loaded from: the registry root
	// joined with the subdirectory name, so it is relative when the root
	// is. MCP-sourced manifests carry "mcp://<server>" instead. Set by the
	// loader, never present in skill.yaml itself.
	Dir string `yaml:"-"`
}

// knownTypes enumerates the recognized values of Type. An unrecognized or
// empty Type is left as-is — the core never rejects a manifest for it.
var knownTypes = map[string]bool{
	"pure-prompt": true,
	"pure-script": true,
	"hybrid":      true,
}
