package infra

type TelemetryConfiguration struct {
	Enabled         bool
	ApplicationName string
	// Span name or route prefix to sampling ratio, overriding the defaults
	SamplingMap TelemetrySamplingMap
}

type TelemetrySamplingMap struct {
	SpanNames  map[string]float64
	HttpRoutes map[string]float64
}

type LlmProviderType string

const (
	LlmProviderNone   LlmProviderType = ""
	LlmProviderOpenAI LlmProviderType = "openai"
)

type LlmConfiguration struct {
	Provider LlmProviderType
	Url      string
	ApiKey   string
	Model    string

	EnableAdvisor bool
	// Shared by classifier and advisor calls, zero disables throttling
	RequestsPerSecond float64
}

func (c LlmConfiguration) Enabled() bool {
	return c.Provider != LlmProviderNone
}
