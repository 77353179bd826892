package extract

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fedigrab-cli/fedigrab/fediverse"
)

func parseVideo(t *testing.T, raw string) *fediverse.Video {
	t.Helper()
	var video fediverse.Video
	if err := json.Unmarshal([]byte(raw), &video); err != nil {
		t.Fatal(err)
	}
	return &video
}

func TestFromVideo(t *testing.T) {
	Convey("Every rendition becomes one item", t, func() {
		video := parseVideo(t, `{
			"uuid": "9c9de5e8-0a1e-484a-b099-e80766180a6d",
			"name": "What is PeerTube?",
			"duration": 113,
			"likes": 2,
			"publishedAt": "2018-10-01T10:52:46.396Z",
			"account": {"name": "framasoft", "displayName": "Framasoft", "url": "https://framatube.org/accounts/framasoft"},
			"files": [
				{"fileUrl": "https://files.example/v-720.mp4", "resolution": {"id": 720, "label": "720p"}},
				{"fileUrl": "https://files.example/v-480.mp4", "resolution": {"id": 480, "label": "480p"}}
			]
		}`)
		video.Thumbnail = "https://framatube.org/static/thumbnails/9c9de5e8.jpg"

		result, err := FromVideo(video)

		So(err, ShouldBeNil)
		So(result.ID, ShouldEqual, "9c9de5e8-0a1e-484a-b099-e80766180a6d")
		So(result.Title, ShouldEqual, "What is PeerTube?")
		So(result.Uploader, ShouldEqual, "Framasoft")
		So(result.UploaderID, ShouldEqual, "framasoft")
		So(result.LikeCount, ShouldEqual, 2)
		So(result.Media, ShouldHaveLength, 2)
		So(result.Media[0].ID, ShouldEqual, "9c9de5e8-0a1e-484a-b099-e80766180a6d-720p")
		So(result.Media[0].Kind, ShouldEqual, Video)
		So(result.Media[0].URL, ShouldEqual, "https://files.example/v-720.mp4")
		So(result.Media[0].Height, ShouldEqual, 720)
		So(result.Media[0].Duration, ShouldAlmostEqual, 113)
		So(result.Media[0].Thumbnail, ShouldEqual, video.Thumbnail)
		So(result.Media[0].AudioOnly, ShouldBeFalse)
		So(result.Media[1].Height, ShouldEqual, 480)
	})

	Convey("HLS renditions count like direct files", t, func() {
		video := parseVideo(t, `{
			"uuid": "b3c8c2e0",
			"name": "streamed",
			"duration": 40,
			"streamingPlaylists": [{
				"playlistUrl": "https://tube.example/hls/b3c8c2e0/master.m3u8",
				"files": [{"fileUrl": "https://tube.example/hls/b3c8c2e0-1080.mp4", "resolution": {"id": 1080, "label": "1080p"}}]
			}]
		}`)

		result, err := FromVideo(video)

		So(err, ShouldBeNil)
		So(result.Media, ShouldHaveLength, 1)
		So(result.Media[0].URL, ShouldEqual, "https://tube.example/hls/b3c8c2e0-1080.mp4")
	})

	Convey("A playlist without per-file URLs falls back to the manifest", t, func() {
		video := parseVideo(t, `{
			"uuid": "b3c8c2e0",
			"name": "streamed",
			"duration": 40,
			"streamingPlaylists": [{"playlistUrl": "https://tube.example/hls/b3c8c2e0/master.m3u8"}]
		}`)

		result, err := FromVideo(video)

		So(err, ShouldBeNil)
		So(result.Media, ShouldHaveLength, 1)
		So(result.Media[0].URL, ShouldEqual, "https://tube.example/hls/b3c8c2e0/master.m3u8")
		So(result.Media[0].Kind, ShouldEqual, Video)
	})

	Convey("A video with nothing playable is an error", t, func() {
		video := parseVideo(t, `{"uuid": "deadbeef", "name": "empty"}`)

		_, err := FromVideo(video)

		So(errors.Is(err, ErrNoMediaFound), ShouldBeTrue)
	})
}
