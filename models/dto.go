package models

// VideoRequest is the POST /video body.
type VideoRequest struct {
	URL string `json:"url"`
}

// TextRequest is the POST /convertTextToSpeech body.
type TextRequest struct {
	Text string `json:"text"`
}

// ProcessAudioRequest optionally names the uploaded clip to process; when
// Key is empty the most recently uploaded clip is used.
type ProcessAudioRequest struct {
	Key string `json:"key,omitempty"`
}

// AudioResponse is returned by GET /video/audio in url delivery mode.
type AudioResponse struct {
	Message string `json:"message"`
	Key     string `json:"key"`
	URL     string `json:"url"`
}

// FrameResponse is returned by GET /video/first-frame.
type FrameResponse struct {
	ImageURL string `json:"imageUrl"`
	Key      string `json:"key"`
}

// ProcessAudioResponse pairs the transcript with its translation; the two
// are produced atomically, never one without the other.
type ProcessAudioResponse struct {
	Transcription  string `json:"transcription"`
	Translation    string `json:"translation"`
	TargetLanguage string `json:"targetLanguage"`
}
