package trackid

import (
	"context"
	"encoding/json"
	"net/http"
)

const DefaultYesPlayMusicURL = "http://127.0.0.1:27232/player"

type yesPlayMusicState struct {
	CurrentTrack struct {
		ID json.RawMessage `json:"id"`
	} `json:"currentTrack"`
}

// YesPlayMusic asks the player's local http api for the current track, since
// its mpris track id carries no netease id.
func YesPlayMusic(apiURL string, client *http.Client) Extractor {
	if client == nil {
		client = http.DefaultClient
	}

	return ExtractorFunc(func(ctx context.Context, _ string) string {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return ""
		}

		resp, err := client.Do(req)
		if err != nil {
			return ""
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return ""
		}

		var state yesPlayMusicState
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			return ""
		}

		return rawIDString(state.CurrentTrack.ID)
	})
}

// rawIDString accepts both "123" and 123.
func rawIDString(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String()
	}
	return ""
}
