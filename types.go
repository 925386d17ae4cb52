package siteconf

import (
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Placeholder is the token URL templates substitute with the content slug.
const Placeholder = "{slug}"

// SiteConfig is the flat record of settings handed to the site generator.
// Field names in the generator's settings module are listed in settings.go.
type SiteConfig struct {
	Author      string `yaml:"author" json:"author"`
	SiteName    string `yaml:"sitename" json:"sitename"`
	SiteURL     string `yaml:"siteurl" json:"siteurl"` // empty for document-relative dev builds
	ContentPath string `yaml:"path" json:"path"`
	Timezone    string `yaml:"timezone" json:"timezone"`
	DefaultLang string `yaml:"default_lang" json:"default_lang"`

	Feeds FeedPolicy `yaml:"feeds" json:"feeds"`

	Links  []Link       `yaml:"links" json:"links"`
	Social []SocialLink `yaml:"social" json:"social"`

	Pagination Pagination `yaml:"default_pagination" json:"default_pagination"`

	ArticleURL    string `yaml:"article_url" json:"article_url"`
	ArticleSaveAs string `yaml:"article_save_as" json:"article_save_as"`

	RelativeURLs bool     `yaml:"relative_urls,omitempty" json:"relative_urls,omitempty"`
	PluginPaths  []string `yaml:"plugin_paths,omitempty" json:"plugin_paths,omitempty"`
	Plugins      []string `yaml:"plugins,omitempty" json:"plugins,omitempty"`

	Theme          string `yaml:"theme" json:"theme"`
	DisableURLHash bool   `yaml:"disable_url_hash" json:"disable_url_hash"`

	// Extra carries settings this package does not model, as Python literals.
	Extra []Extra `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// FeedPolicy groups the feed toggles and RSS path templates.
type FeedPolicy struct {
	AllAtom         Feed `yaml:"all_atom" json:"all_atom"`
	CategoryAtom    Feed `yaml:"category_atom" json:"category_atom"`
	TranslationAtom Feed `yaml:"translation_atom" json:"translation_atom"`
	AuthorAtom      Feed `yaml:"author_atom" json:"author_atom"`
	AuthorRSS       Feed `yaml:"author_rss" json:"author_rss"`

	AllRSS      string `yaml:"all_rss,omitempty" json:"all_rss,omitempty"`
	CategoryRSS string `yaml:"category_rss,omitempty" json:"category_rss,omitempty"`
}

// Link is a navigation (blogroll) menu entry.
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// SocialLink is a social-widget entry with an optional icon path.
type SocialLink struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// Extra is an unmodelled setting kept verbatim.
type Extra struct {
	Name   string `yaml:"name" json:"name"`
	Python string `yaml:"python" json:"python"`
}

// FeedKind records how a feed toggle was authored.
type FeedKind int

const (
	FeedNull FeedKind = iota // None: generation disabled
	FeedOff                  // False
	FeedOn                   // True: generator default path
	FeedPath                 // explicit output path
)

// Feed is a feed toggle. The zero value is null. The authored form is kept
// so a config marshals back exactly as it was written.
type Feed struct {
	Kind FeedKind
	Path string
}

// FeedAt returns a feed written to path.
func FeedAt(path string) Feed { return Feed{Kind: FeedPath, Path: path} }

// Enabled reports whether the generator emits this feed.
func (f Feed) Enabled() bool {
	return f.Kind == FeedOn || f.Kind == FeedPath
}

func (f Feed) String() string {
	switch f.Kind {
	case FeedOff:
		return "false"
	case FeedOn:
		return "true"
	case FeedPath:
		return f.Path
	}
	return "null"
}

func (f Feed) value() any {
	switch f.Kind {
	case FeedOff:
		return false
	case FeedOn:
		return true
	case FeedPath:
		return f.Path
	}
	return nil
}

func (f *Feed) set(v any) error {
	switch v := v.(type) {
	case nil:
		*f = Feed{}
	case bool:
		if v {
			*f = Feed{Kind: FeedOn}
		} else {
			*f = Feed{Kind: FeedOff}
		}
	case string:
		*f = FeedAt(v)
	default:
		return fmt.Errorf("feed must be null, a boolean or a path, got %T", v)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (f Feed) MarshalYAML() (any, error) { return f.value(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Feed) UnmarshalYAML(n *yaml.Node) error {
	var v any
	if err := n.Decode(&v); err != nil {
		return err
	}
	if err := f.set(v); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Feed) MarshalJSON() ([]byte, error) { return json.Marshal(f.value()) }

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feed) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return f.set(v)
}

// Pagination is DEFAULT_PAGINATION: false disables it, otherwise the number
// of items per listing page. The zero value is disabled.
type Pagination struct {
	PerPage int
}

// Paginated returns pagination with n items per page.
func Paginated(n int) Pagination { return Pagination{PerPage: n} }

// Enabled reports whether listing pages are split.
func (p Pagination) Enabled() bool { return p.PerPage != 0 }

func (p Pagination) value() any {
	if !p.Enabled() {
		return false
	}
	return p.PerPage
}

// MarshalYAML implements yaml.Marshaler.
func (p Pagination) MarshalYAML() (any, error) { return p.value(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Pagination) UnmarshalYAML(n *yaml.Node) error {
	var b bool
	if n.Decode(&b) == nil {
		if b {
			return fmt.Errorf("line %d: default_pagination must be false or a page size", n.Line)
		}
		*p = Pagination{}
		return nil
	}
	var size int
	if err := n.Decode(&size); err != nil {
		return fmt.Errorf("line %d: default_pagination must be false or a page size", n.Line)
	}
	*p = Paginated(size)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Pagination) MarshalJSON() ([]byte, error) { return json.Marshal(p.value()) }

// UnmarshalJSON implements json.Unmarshaler.
func (p *Pagination) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "false", "null":
		*p = Pagination{}
		return nil
	}
	var size int
	if err := json.Unmarshal(b, &size); err != nil {
		return fmt.Errorf("default_pagination must be false or a page size")
	}
	*p = Paginated(size)
	return nil
}

// UnmarshalYAML accepts a mapping or the generator's (label, url) tuple form.
func (l *Link) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		parts, err := tupleStrings(n, 2, 2)
		if err != nil {
			return err
		}
		*l = Link{Label: parts[0], URL: parts[1]}
		return nil
	}
	if err := knownKeys(n, "link", "label", "url"); err != nil {
		return err
	}
	type plain Link
	return n.Decode((*plain)(l))
}

// UnmarshalYAML accepts a mapping or a (label, url[, icon]) tuple.
func (s *SocialLink) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		parts, err := tupleStrings(n, 2, 3)
		if err != nil {
			return err
		}
		*s = SocialLink{Label: parts[0], URL: parts[1]}
		if len(parts) == 3 {
			s.Icon = parts[2]
		}
		return nil
	}
	if err := knownKeys(n, "social link", "label", "url", "icon"); err != nil {
		return err
	}
	type plain SocialLink
	return n.Decode((*plain)(s))
}

// knownKeys rejects mapping keys outside allowed. Decoding through a nested
// node does not inherit the decoder's KnownFields setting.
func knownKeys(n *yaml.Node, what string, allowed ...string) error {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if !slices.Contains(allowed, k.Value) {
			return fmt.Errorf("line %d: field %s not found in %s", k.Line, k.Value, what)
		}
	}
	return nil
}

func tupleStrings(n *yaml.Node, min, max int) ([]string, error) {
	var parts []string
	if err := n.Decode(&parts); err != nil {
		return nil, err
	}
	if len(parts) < min || len(parts) > max {
		return nil, fmt.Errorf("line %d: expected %d to %d items, got %d", n.Line, min, max, len(parts))
	}
	return parts, nil
}
