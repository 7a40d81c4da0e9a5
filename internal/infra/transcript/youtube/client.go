package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rakhadjo/vidlearn/internal/domain/transcript"
)

const watchURL = "https://www.youtube.com/watch?v=%s"

// Preferred caption languages, tried in order. Falls back to the first
// track the video offers.
var preferredLangs = []string{"en", "en-US", "en-GB"}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch downloads the caption track for the video and returns the joined,
// cleaned transcript text.
func (c *Client) Fetch(ctx context.Context, videoURL string) (string, error) {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		return "", fmt.Errorf("%w: %s", transcript.ErrInvalidURL, videoURL)
	}

	page, err := c.get(ctx, fmt.Sprintf(watchURL, videoID))
	if err != nil {
		return "", fmt.Errorf("fetching watch page: %w", err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return "", err
	}

	track := pickTrack(tracks)
	body, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("fetching caption track: %w", err)
	}

	text, err := parseTimedText(body)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", transcript.ErrUnavailable
	}
	return text, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// ExtractVideoID pulls the 11-char video id out of the common YouTube URL
// shapes, or accepts a bare id.
func ExtractVideoID(url string) (string, bool) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); len(m) == 2 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

// parseCaptionTracks locates the player-response captionTracks array inside
// the watch page HTML and decodes it.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(string(page), marker)
	if idx < 0 {
		return nil, transcript.ErrUnavailable
	}

	dec := json.NewDecoder(strings.NewReader(string(page[idx+len(marker):])))
	var tracks []captionTrack
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("%w: decoding caption tracks: %v", transcript.ErrUnavailable, err)
	}
	if len(tracks) == 0 {
		return nil, transcript.ErrUnavailable
	}
	return tracks, nil
}

func pickTrack(tracks []captionTrack) captionTrack {
	for _, lang := range preferredLangs {
		for _, t := range tracks {
			if t.LanguageCode == lang {
				return t
			}
		}
	}
	return tracks[0]
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// parseTimedText joins the caption segments into one text, unescaping HTML
// entities and dropping the [Music]/[Applause] markers.
func parseTimedText(body []byte) (string, error) {
	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("%w: parsing timedtext: %v", transcript.ErrUnavailable, err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		s := html.UnescapeString(t.Body)
		s = strings.ReplaceAll(s, "[Music]", "")
		s = strings.ReplaceAll(s, "[Applause]", "")
		s = strings.TrimSpace(s)
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
