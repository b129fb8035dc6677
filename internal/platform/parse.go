package platform

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// Extraction strategies are ordered from most to least specific. Markup
// changes upstream break the head of the list first; the tail keeps working
// until the page is unrecognizable, at which point the caller gets a typed
// [shared.ErrElementNotFound] instead of a silently wrong id.
var videoIDStrategies = []*regexp.Regexp{
	regexp.MustCompile(`"video_id"\s*:\s*"?(\d+)"?`),
	regexp.MustCompile(`data-video-id="(\d+)"`),
	regexp.MustCompile(`vid:\s*(\d+)`),
}

var titleStrategies = []*regexp.Regexp{
	regexp.MustCompile(`<meta\s+property="og:title"\s+content="([^"]+)"`),
	regexp.MustCompile(`<title>([^<]+)</title>`),
}

// ExtractVideoID pulls the numeric video id out of a video page.
func ExtractVideoID(pageHTML string) (string, error) {
	for _, strategy := range videoIDStrategies {
		if match := strategy.FindStringSubmatch(pageHTML); match != nil {
			return match[1], nil
		}
	}
	return "", fmt.Errorf("%w: video id", shared.ErrElementNotFound)
}

// ExtractTitle pulls the video title out of a video page.
func ExtractTitle(pageHTML string) (string, error) {
	for _, strategy := range titleStrategies {
		if match := strategy.FindStringSubmatch(pageHTML); match != nil {
			return strings.TrimSpace(html.UnescapeString(match[1])), nil
		}
	}
	return "", fmt.Errorf("%w: title", shared.ErrElementNotFound)
}
