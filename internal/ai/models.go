package ai

// parsedWindow is one window in the model's JSON response, RFC3339 with
// offset.
type parsedWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// parseResult is the structured output the model is instructed to emit.
type parseResult struct {
	Windows []parsedWindow `json:"windows"`
	// Note carries anything the model could not express as a window, for
	// logging only.
	Note string `json:"note,omitempty"`
}
