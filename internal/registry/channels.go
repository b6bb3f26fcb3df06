// Package registry holds the roster of congressional committee YouTube
// channels the fetch pipeline watches. A built-in roster covers the
// major House and Senate committees; a YAML file can extend or override
// it without a rebuild.
package registry

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Channel is one committee YouTube channel.
type Channel struct {
	ID        string `yaml:"id"`
	Committee string `yaml:"committee"`
	Chamber   string `yaml:"chamber"`
	// Code is the Congress.gov committee system code (e.g. hsif00)
	// used to scope event fetches, when known.
	Code string `yaml:"code,omitempty"`
}

// defaultChannels is the built-in roster of verified committee channels.
var defaultChannels = map[string]Channel{
	"UCVvQkEb8GkqB14I5oLNEk3A": {Committee: "House Armed Services Committee", Chamber: "House", Code: "hsas00"},
	"UCL6Clx5s9O-FkJewfM65tzQ": {Committee: "House Foreign Affairs Committee", Chamber: "House", Code: "hsfa00"},
	"UCa-Al3CKLjRCQKhtfbn_FUg": {Committee: "House Financial Services Committee", Chamber: "House", Code: "hsba00"},
	"UC8vKJ3p4FExYEj5OFsQAJlw": {Committee: "House Science Committee", Chamber: "House", Code: "hssy00"},
	"UCPxvyZJblT2cz8g9SLtyXtA": {Committee: "House Veterans Affairs Committee", Chamber: "House", Code: "hsvr00"},
	"UCQtsiDrwfsEfX9EztXvA1ww": {Committee: "House Natural Resources Committee", Chamber: "House", Code: "hsii00"},
	"UCiQcpX6mJwB6OwBL_jLNjDQ": {Committee: "House Administration Committee", Chamber: "House", Code: "hsha00"},
	"UC5s1kIfkfWbap31d5ef-VtQ": {Committee: "House Energy and Commerce Committee", Chamber: "House", Code: "hsif00"},
	"UCrBJdS5FAyGq6rGwJlCyJ3A": {Committee: "House Oversight Committee", Chamber: "House", Code: "hsgo00"},
	"UCU6w8CfBGPSHNOeeHRb5t1A": {Committee: "House Judiciary Committee", Chamber: "House", Code: "hsju00"},
	"UC5Z9wT6onnCFenRzCQ0TiGg": {Committee: "Senate Finance Committee", Chamber: "Senate", Code: "ssfi00"},
	"UCCBJESjTTWeGSifHHq_VT6A": {Committee: "Senate Armed Services Committee", Chamber: "Senate", Code: "ssas00"},
	"UCUlGq0zaT3gYiVdBIGXl-EQ": {Committee: "Senate Commerce Committee", Chamber: "Senate", Code: "sscm00"},
	"UCVlD1YGzy1FqUlgEwzNuE5A": {Committee: "Senate Judiciary Committee", Chamber: "Senate", Code: "ssju00"},
	"UCcSGCxGOOBoq4PrAahRlhZg": {Committee: "Senate Foreign Relations Committee", Chamber: "Senate", Code: "ssfr00"},
	"UCdp4NBEw65xGYkKh1tAH73g": {Committee: "Senate Environment and Public Works", Chamber: "Senate", Code: "ssev00"},
	"UCmIBKDO8H5Z88cFvQ1RTkGA": {Committee: "Senate Budget Committee", Chamber: "Senate", Code: "ssbu00"},
	"UCqIKINGgWZ0Hv11O0zzLLpw": {Committee: "Senate Banking Committee", Chamber: "Senate", Code: "ssbk00"},
	"UCzxJy_xgDLJCqcCYjdF8wNw": {Committee: "Senate Veterans Affairs Committee", Chamber: "Senate", Code: "ssva00"},
}

// Roster maps channel IDs to committee channels.
type Roster struct {
	channels map[string]Channel
}

// Default returns the built-in roster.
func Default() *Roster {
	return &Roster{channels: cloneChannels(defaultChannels)}
}

// Load returns the built-in roster overlaid with the channels from a
// YAML file. An empty path returns the defaults unchanged.
func Load(path string) (*Roster, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read channels file")
	}

	var file struct {
		Channels []Channel `yaml:"channels"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "registry: parse channels file")
	}

	for _, ch := range file.Channels {
		if ch.ID == "" || ch.Committee == "" {
			zap.L().Warn("registry: skipping channel entry without id or committee",
				zap.String("id", ch.ID),
			)
			continue
		}
		r.channels[ch.ID] = ch
	}

	zap.L().Debug("registry: loaded channel roster",
		zap.String("path", path),
		zap.Int("channels", len(r.channels)),
	)
	return r, nil
}

// Channels returns all channels sorted by committee name.
func (r *Roster) Channels() []Channel {
	out := make([]Channel, 0, len(r.channels))
	for id, ch := range r.channels {
		ch.ID = id
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Committee < out[j].Committee
	})
	return out
}

// Lookup returns the channel for an ID.
func (r *Roster) Lookup(id string) (Channel, bool) {
	ch, ok := r.channels[id]
	if ok {
		ch.ID = id
	}
	return ch, ok
}

// Committee returns the committee name for a channel ID, or "" if the
// channel is not in the roster.
func (r *Roster) Committee(id string) string {
	if ch, ok := r.channels[id]; ok {
		return ch.Committee
	}
	return ""
}

// CommitteeCodes returns the distinct Congress.gov committee system
// codes covered by the roster, sorted.
func (r *Roster) CommitteeCodes() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, ch := range r.channels {
		if ch.Code != "" && !seen[ch.Code] {
			seen[ch.Code] = true
			codes = append(codes, ch.Code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of channels in the roster.
func (r *Roster) Len() int {
	return len(r.channels)
}

func cloneChannels(in map[string]Channel) map[string]Channel {
	out := make(map[string]Channel, len(in))
	for id, ch := range in {
		ch.ID = id
		out[id] = ch
	}
	return out
}
