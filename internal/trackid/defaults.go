package trackid

import "net/http"

// Default registers the players lyricline knows how to map to netease ids.
func Default(yesPlayMusicURL string, client *http.Client) *Registry {
	if yesPlayMusicURL == "" {
		yesPlayMusicURL = DefaultYesPlayMusicURL
	}

	r := NewRegistry()
	r.Register("ElectronNCM", Segment(4, true))
	r.Register("musicfox", Segment(4, true))
	r.Register("feeluown", Segment(6, false))
	r.Register("Qcm", Segment(2, true))
	r.Register("NeteaseCloudMusicGtk4", Segment(5, true))
	r.Register("yesplaymusic", YesPlayMusic(yesPlayMusicURL, client))
	return r
}
