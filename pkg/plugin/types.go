package plugin

// Wire types mirror the plugin messages in their protojson form, so a
// dynamic message converts to and from them through encoding/json.

// Catalogue entry types.
const (
	EntryContentMatcher   = "CONTENT_MATCHER"
	EntryContentGenerator = "CONTENT_GENERATOR"
)

// Markup types.
const (
	MarkupCommonMark = "COMMON_MARK"
	MarkupHTML       = "HTML"
)

// Content type hints.
const (
	HintDefault = "DEFAULT"
	HintText    = "TEXT"
	HintBinary  = "BINARY"
)

type InitPluginRequest struct {
	Implementation string `json:"implementation,omitempty"`
	Version        string `json:"version,omitempty"`
}

type CatalogueEntry struct {
	Type   string            `json:"type,omitempty"`
	Key    string            `json:"key,omitempty"`
	Values map[string]string `json:"values,omitempty"`
}

type InitPluginResponse struct {
	Catalogue []CatalogueEntry `json:"catalogue,omitempty"`
}

type Catalogue struct {
	Catalogue []CatalogueEntry `json:"catalogue,omitempty"`
}

// Body is a message body. A nil Content means no body was sent, an empty
// one is an empty body.
type Body struct {
	ContentType     string `json:"contentType,omitempty"`
	Content         []byte `json:"content"`
	ContentTypeHint string `json:"contentTypeHint,omitempty"`
}

type MatchingRule struct {
	Type   string         `json:"type,omitempty"`
	Values map[string]any `json:"values"`
}

type MatchingRules struct {
	Rule []MatchingRule `json:"rule,omitempty"`
}

type Generator struct {
	Type   string         `json:"type,omitempty"`
	Values map[string]any `json:"values"`
}

type PluginConfiguration struct {
	InteractionConfiguration map[string]any `json:"interactionConfiguration,omitempty"`
	PactConfiguration        map[string]any `json:"pactConfiguration,omitempty"`
}

type CompareContentsRequest struct {
	Expected            *Body                    `json:"expected,omitempty"`
	Actual              *Body                    `json:"actual,omitempty"`
	AllowUnexpectedKeys bool                     `json:"allowUnexpectedKeys,omitempty"`
	Rules               map[string]MatchingRules `json:"rules,omitempty"`
	PluginConfiguration *PluginConfiguration     `json:"pluginConfiguration,omitempty"`
}

type ContentTypeMismatch struct {
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

type ContentMismatch struct {
	Expected []byte `json:"expected,omitempty"`
	Actual   []byte `json:"actual,omitempty"`
	Mismatch string `json:"mismatch,omitempty"`
	Path     string `json:"path,omitempty"`
	Diff     string `json:"diff,omitempty"`
}

type ContentMismatches struct {
	Mismatches []ContentMismatch `json:"mismatches,omitempty"`
}

type CompareContentsResponse struct {
	Error        string                       `json:"error,omitempty"`
	TypeMismatch *ContentTypeMismatch         `json:"typeMismatch,omitempty"`
	Results      map[string]ContentMismatches `json:"results,omitempty"`
}

// ConfigureInteractionRequest carries the test author's field definitions.
// A nil ContentsConfig means the host sent no configuration at all.
type ConfigureInteractionRequest struct {
	ContentType    string         `json:"contentType,omitempty"`
	ContentsConfig map[string]any `json:"contentsConfig,omitempty"`
}

type InteractionResponse struct {
	Contents              *Body                    `json:"contents,omitempty"`
	Rules                 map[string]MatchingRules `json:"rules,omitempty"`
	Generators            map[string]Generator     `json:"generators,omitempty"`
	MessageMetadata       map[string]any           `json:"messageMetadata,omitempty"`
	PluginConfiguration   *PluginConfiguration     `json:"pluginConfiguration,omitempty"`
	InteractionMarkup     string                   `json:"interactionMarkup,omitempty"`
	InteractionMarkupType string                   `json:"interactionMarkupType,omitempty"`
	PartName              string                   `json:"partName,omitempty"`
}

type ConfigureInteractionResponse struct {
	Error               string                `json:"error,omitempty"`
	Interaction         []InteractionResponse `json:"interaction,omitempty"`
	PluginConfiguration *PluginConfiguration  `json:"pluginConfiguration,omitempty"`
}

type GenerateContentRequest struct {
	Contents            *Body                `json:"contents,omitempty"`
	Generators          map[string]Generator `json:"generators,omitempty"`
	PluginConfiguration *PluginConfiguration `json:"pluginConfiguration,omitempty"`
	TestContext         map[string]any       `json:"testContext,omitempty"`
	TestMode            string               `json:"testMode,omitempty"`
	ContentFor          string               `json:"contentFor,omitempty"`
}

type GenerateContentResponse struct {
	Contents *Body `json:"contents,omitempty"`
}
