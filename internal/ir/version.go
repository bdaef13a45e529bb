package ir

// Version constants for the IR encoding and the tool.
const (
	// IRVersion is the IR encoding version.
	IRVersion = "1"

	// ToolVersion is the opal tool version.
	ToolVersion = "0.1.0"
)
