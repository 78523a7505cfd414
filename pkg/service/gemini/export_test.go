package gemini

// Exported for testing
var (
	ParseDiarization    = parseDiarization
	BuildDocumentResult = buildDocumentResult
)
