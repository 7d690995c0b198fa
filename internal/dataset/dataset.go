// Package dataset defines the on-disk records the enrichment pipeline fills
// in: one test entry per regression-test run, carrying the repository URL,
// the commit pair, and, after processing, the diff and per-file snapshots.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// UnixTime is a timestamp serialized as a JSON number of seconds since the
// epoch, the encoding the upstream extractors use for dates. Fractional
// seconds are preserved.
type UnixTime struct {
	time.Time
}

func (t UnixTime) MarshalJSON() ([]byte, error) {
	sec := float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
	return json.Marshal(sec)
}

func (t *UnixTime) UnmarshalJSON(data []byte) error {
	var sec float64
	if err := json.Unmarshal(data, &sec); err != nil {
		return fmt.Errorf("date is not a unix timestamp: %w", err)
	}
	whole, frac := math.Modf(sec)
	t.Time = time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()
	return nil
}

// SPRTResults holds the statistics of a sequential probability ratio test.
type SPRTResults struct {
	LLR         float64 `json:"llr"`
	LowerBound  float64 `json:"lower_bound"`
	UpperBound  float64 `json:"upper_bound"`
	Elo0        float64 `json:"elo0"`
	Elo1        float64 `json:"elo1"`
	Pentanomial []int   `json:"pentanomial"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
}

// FileContent is one file snapshot. Content is null in JSON when the file
// did not exist at the commit, as opposed to an empty string for an existing
// but (possibly post-sanitization) empty file.
type FileContent struct {
	Filepath string  `json:"filepath"`
	Content  *string `json:"content"`
}

// TestEntry is a single regression-test record.
type TestEntry struct {
	User        string `json:"user"`
	Engine      string `json:"engine"`
	TestName    string `json:"testname"`
	URL         string `json:"url"`
	TimeControl string `json:"time_control"`
	StatBlock   string `json:"statblock"`

	BaseHash string       `json:"base_hash"`
	NewHash  string       `json:"new_hash"`
	Results  *SPRTResults `json:"results"`
	Date     *UnixTime    `json:"date"`

	// Exists reports that both commits were proven retrievable from the
	// mirror, possibly after reconstruction.
	Exists bool `json:"exists"`

	GitDiff         *string       `json:"git_diff"`
	OldFileVersions []FileContent `json:"old_file_versions"`
	NewFileVersions []FileContent `json:"new_file_versions"`
}

// RunEntryList is the top-level collection format.
type RunEntryList struct {
	List []TestEntry `json:"list"`
}

// Load reads a RunEntryList from a JSON file. A malformed file is fatal for
// the batch; nothing downstream can run without parseable input.
func Load(path string) (*RunEntryList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var list RunEntryList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("malformed JSON in %s: %w", path, err)
	}
	return &list, nil
}

// Save writes the list as indented JSON.
func Save(path string, list *RunEntryList) error {
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
