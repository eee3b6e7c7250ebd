package llm

// Tool describes one entry of the tool schema sent to the model.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// InputSchema is the JSON-schema shape of a tool's arguments.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single tool argument.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Moods enumerates the supported recommendation moods.
var Moods = []string{"happy", "sad", "chill", "energetic", "focus", "party", "workout", "sleep"}

// Tools is the fixed set of actions the model may request. The dispatch
// table in the agent package mirrors these names one to one.
var Tools = []Tool{
	{
		Name:        "play_music",
		Description: "Play a specific song, artist, or resume playback",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {Type: "string", Description: "Song/artist to search and play. Empty to resume."},
			},
		},
	},
	{
		Name:        "pause_music",
		Description: "Pause the current playback",
		InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
	},
	{
		Name:        "skip_track",
		Description: "Skip to the next song",
		InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
	},
	{
		Name:        "previous_track",
		Description: "Go back to previous song",
		InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
	},
	{
		Name:        "search_music",
		Description: "Search for songs without playing",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {Type: "string", Description: "What to search for"},
			},
			Required: []string{"query"},
		},
	},
	{
		Name:        "get_now_playing",
		Description: "Get info about currently playing track",
		InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
	},
	{
		Name:        "set_volume",
		Description: "Set playback volume",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"volume": {Type: "integer", Description: "Volume 0-100"},
			},
			Required: []string{"volume"},
		},
	},
	{
		Name:        "add_to_queue",
		Description: "Add a song to the queue",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {Type: "string", Description: "Song to add"},
			},
			Required: []string{"query"},
		},
	},
	{
		Name:        "get_recommendations",
		Description: "Get music recommendations based on mood",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"mood": {Type: "string", Enum: Moods},
			},
		},
	},
	{
		Name:        "create_playlist",
		Description: "Create a new playlist with curated songs",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"name":  {Type: "string", Description: "Playlist name"},
				"mood":  {Type: "string", Description: "Mood/vibe for the playlist"},
				"count": {Type: "integer", Description: "Number of tracks (default 20)"},
			},
			Required: []string{"name"},
		},
	},
	{
		Name:        "save_current_track",
		Description: "Save/like the currently playing song",
		InputSchema: InputSchema{Type: "object", Properties: map[string]Property{}},
	},
	{
		Name:        "toggle_shuffle",
		Description: "Turn shuffle on or off",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"enabled": {Type: "boolean", Description: "True for on, false for off"},
			},
			Required: []string{"enabled"},
		},
	},
}
