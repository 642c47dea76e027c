package infra

import (
	"github.com/checkmarble/llmberjack"
	"github.com/checkmarble/llmberjack/llms/openai"
	"github.com/cockroachdb/errors"
)

// NewLlmClient returns nil when no provider is configured: callers then stay on the
// rule based paths.
func NewLlmClient(config LlmConfiguration) (*llmberjack.Llmberjack, error) {
	var provider llmberjack.Llm

	switch config.Provider {
	case LlmProviderNone:
		return nil, nil
	case LlmProviderOpenAI:
		opts := []openai.Opt{}
		if config.Url != "" {
			opts = append(opts, openai.WithBaseUrl(config.Url))
		}
		if config.ApiKey != "" {
			opts = append(opts, openai.WithApiKey(config.ApiKey))
		}
		p, err := openai.New(opts...)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create OpenAI provider")
		}
		provider = p
	default:
		return nil, errors.Errorf("unsupported LLM provider type: %s", config.Provider)
	}

	client, err := llmberjack.New(llmberjack.WithProvider("main", provider))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM adapter")
	}
	return client, nil
}
