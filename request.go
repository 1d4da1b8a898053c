package playground

import "strings"

// Action selects what the unified endpoint does with the request.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionImprove  Action = "improve"
)

// UnifiedRequest is the body posted to /v1/unified. Exactly one of
// GenerateParams and ImproveParams is set, matching Action.
type UnifiedRequest struct {
	Action         Action          `json:"action" validate:"required,oneof=generate improve" jsonschema:"enum=generate,enum=improve"`
	Model          string          `json:"model" validate:"required,oneof=auto fast reasoning" jsonschema:"enum=auto,enum=fast,enum=reasoning,default=auto"`
	GenerateParams *GenerateParams `json:"generate_params,omitempty" validate:"required_if=Action generate,excluded_unless=Action generate"`
	ImproveParams  *ImproveParams  `json:"improve_params,omitempty" validate:"required_if=Action improve,excluded_unless=Action improve"`
}

type GenerateParams struct {
	Brief       string          `json:"brief" validate:"required" jsonschema:"minLength=1"`
	ContentType string          `json:"content_type" validate:"required,oneof=article blog_post product_description landing_page faq email" jsonschema:"enum=article,enum=blog_post,enum=product_description,enum=landing_page,enum=faq,enum=email"`
	Options     GenerateOptions `json:"options"`
}

type GenerateOptions struct {
	CommonOptions
	IncludeFAQ bool     `json:"include_faq"`
	IncludeCTA bool     `json:"include_cta"`
	Keywords   []string `json:"keywords,omitempty" validate:"omitempty,dive,required"`
}

type ImproveParams struct {
	Content string         `json:"content" validate:"required" jsonschema:"minLength=1"`
	Task    string         `json:"task" validate:"required,oneof=rewrite expand shorten seo tone translate" jsonschema:"enum=rewrite,enum=expand,enum=shorten,enum=seo,enum=tone,enum=translate"`
	Options ImproveOptions `json:"options"`
}

type ImproveOptions struct {
	CommonOptions
	PreserveLinks bool `json:"preserve_links"`
}

// CommonOptions are shared by both actions.
type CommonOptions struct {
	Tone               string `json:"tone" validate:"oneof=professional casual formal friendly authoritative conversational" jsonschema:"enum=professional,enum=casual,enum=formal,enum=friendly,enum=authoritative,enum=conversational"`
	TargetLength       string `json:"target_length" validate:"oneof=short medium long" jsonschema:"enum=short,enum=medium,enum=long"`
	UseRAG             bool   `json:"use_rag"`
	Language           string `json:"language" validate:"required,min=2,max=35"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
	Stream             bool   `json:"stream"`
}

func defaultCommonOptions() CommonOptions {
	return CommonOptions{
		Tone:         "professional",
		TargetLength: "medium",
		Language:     "en",
		Stream:       true,
	}
}

// RequestOption adjusts a request built by NewGenerateRequest or
// NewImproveRequest. Options that do not apply to the action are ignored.
type RequestOption func(*UnifiedRequest)

func (r *UnifiedRequest) common() *CommonOptions {
	switch {
	case r.GenerateParams != nil:
		return &r.GenerateParams.Options.CommonOptions
	case r.ImproveParams != nil:
		return &r.ImproveParams.Options.CommonOptions
	default:
		return nil
	}
}

// NewGenerateRequest builds a streaming generate request with the
// playground's defaults.
func NewGenerateRequest(brief, contentType string, opts ...RequestOption) *UnifiedRequest {
	req := &UnifiedRequest{
		Action: ActionGenerate,
		Model:  "auto",
		GenerateParams: &GenerateParams{
			Brief:       brief,
			ContentType: contentType,
			Options:     GenerateOptions{CommonOptions: defaultCommonOptions()},
		},
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// NewImproveRequest builds a streaming improve request with the playground's
// defaults; links are preserved unless WithPreserveLinks(false) is given.
func NewImproveRequest(content, task string, opts ...RequestOption) *UnifiedRequest {
	req := &UnifiedRequest{
		Action: ActionImprove,
		Model:  "auto",
		ImproveParams: &ImproveParams{
			Content: content,
			Task:    task,
			Options: ImproveOptions{CommonOptions: defaultCommonOptions(), PreserveLinks: true},
		},
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

func WithModel(model string) RequestOption {
	return func(r *UnifiedRequest) {
		r.Model = model
	}
}

func WithTone(tone string) RequestOption {
	return func(r *UnifiedRequest) {
		if c := r.common(); c != nil {
			c.Tone = tone
		}
	}
}

func WithTargetLength(length string) RequestOption {
	return func(r *UnifiedRequest) {
		if c := r.common(); c != nil {
			c.TargetLength = length
		}
	}
}

func WithLanguage(language string) RequestOption {
	return func(r *UnifiedRequest) {
		if c := r.common(); c != nil {
			c.Language = language
		}
	}
}

func WithRAG(enabled bool) RequestOption {
	return func(r *UnifiedRequest) {
		if c := r.common(); c != nil {
			c.UseRAG = enabled
		}
	}
}

// WithCustomInstructions is a no-op for blank instructions.
func WithCustomInstructions(instructions string) RequestOption {
	return func(r *UnifiedRequest) {
		if c := r.common(); c != nil && strings.TrimSpace(instructions) != "" {
			c.CustomInstructions = instructions
		}
	}
}

// WithKeywords takes a comma-separated list, dropping blanks.
func WithKeywords(list string) RequestOption {
	return func(r *UnifiedRequest) {
		if r.GenerateParams == nil {
			return
		}
		var kw []string
		for _, k := range strings.Split(list, ",") {
			if k = strings.TrimSpace(k); k != "" {
				kw = append(kw, k)
			}
		}
		r.GenerateParams.Options.Keywords = kw
	}
}

func WithFAQ(enabled bool) RequestOption {
	return func(r *UnifiedRequest) {
		if r.GenerateParams != nil {
			r.GenerateParams.Options.IncludeFAQ = enabled
		}
	}
}

func WithCTA(enabled bool) RequestOption {
	return func(r *UnifiedRequest) {
		if r.GenerateParams != nil {
			r.GenerateParams.Options.IncludeCTA = enabled
		}
	}
}

func WithPreserveLinks(enabled bool) RequestOption {
	return func(r *UnifiedRequest) {
		if r.ImproveParams != nil {
			r.ImproveParams.Options.PreserveLinks = enabled
		}
	}
}
