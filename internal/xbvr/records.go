package xbvr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// File is a media or script file known to the server.
type File struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	Filename    string `json:"filename" validate:"required"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	CreatedTime string `json:"created_time"`
}

// Scene is a catalog entry. SceneID is the catalog identifier used when
// binding files; ID is the numeric primary key used by delete and
// alternate-source lookups.
type Scene struct {
	ID           int64  `json:"id" validate:"required,gt=0"`
	SceneID      string `json:"scene_id" validate:"required"`
	Title        string `json:"title"`
	Site         string `json:"site"`
	FilenamesArr string `json:"filenames_arr"`
}

// KnownFilenames decodes the scene's JSON-encoded filename list.
func (s Scene) KnownFilenames() ([]string, error) {
	raw := strings.TrimSpace(s.FilenamesArr)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decode filenames for scene %s: %w", s.SceneID, err)
	}
	return names, nil
}

// ShortTitle truncates the title to at most n runes.
func (s Scene) ShortTitle(n int) string {
	runes := []rune(s.Title)
	if n < 0 || len(runes) <= n {
		return s.Title
	}
	return string(runes[:n])
}

// AlternateSource links a scene to the same release on another site.
type AlternateSource struct {
	ExternalID     string `json:"external_id" validate:"required"`
	URL            string `json:"url"`
	ExternalSource string `json:"external_source"`
}

// SearchResult is the response of the quick-search endpoint.
type SearchResult struct {
	Results int     `json:"results"`
	Scenes  []Scene `json:"scenes" validate:"dive"`
}

// SceneList is the response of the scene listing endpoint.
type SceneList struct {
	Results int     `json:"results"`
	Scenes  []Scene `json:"scenes" validate:"dive"`
}

// SceneFilter narrows a scene listing. Zero values mean "any".
type SceneFilter struct {
	Sites      []string
	Attributes []string
}

type sceneListRequest struct {
	DLState      string   `json:"dlState"`
	CardSize     string   `json:"cardSize"`
	Lists        []string `json:"lists"`
	IsHidden     bool     `json:"isHidden"`
	ReleaseMonth string   `json:"releaseMonth"`
	Cast         []string `json:"cast"`
	Sites        []string `json:"sites"`
	Tags         []string `json:"tags"`
	Cuepoint     []string `json:"cuepoint"`
	Attributes   []string `json:"attributes,omitempty"`
	Sort         string   `json:"sort"`
	Limit        int      `json:"limit"`
	Offset       int      `json:"offset"`
}

func newSceneListRequest(filter SceneFilter) sceneListRequest {
	return sceneListRequest{
		DLState:    "any",
		CardSize:   "1",
		Lists:      []string{},
		Cast:       []string{},
		Sites:      nonNil(filter.Sites),
		Tags:       []string{},
		Cuepoint:   []string{},
		Attributes: filter.Attributes,
		Sort:       "release_desc",
		Limit:      -1,
	}
}

type fileListRequest struct {
	Sort        string   `json:"sort"`
	State       string   `json:"state"`
	CreatedDate []string `json:"createdDate"`
	Resolutions []string `json:"resolutions"`
	Framerates  []string `json:"framerates"`
	Bitrates    []string `json:"bitrates"`
	Filename    string   `json:"filename"`
}

type matchRequest struct {
	FileID  int64  `json:"file_id"`
	SceneID string `json:"scene_id"`
}

type scrapeJAVRequest struct {
	Query    string `json:"q"`
	Provider string `json:"s"`
}

type singleScrapeRequest struct {
	Site           string   `json:"site"`
	SceneURL       string   `json:"sceneurl"`
	AdditionalInfo []string `json:"additional_info"`
}

type deleteRequest struct {
	SceneID int64 `json:"scene_id"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
