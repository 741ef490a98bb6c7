package core

// OpenAI object type constants
const (
	ChatCompletionObjectType = "chat.completion"
	EmbeddingObjectType      = "embedding"
	ListObjectType           = "list"
)

// ID prefix constants
const (
	ResponseIDPrefix = "chatcmpl-"
	RequestIDPrefix  = "req_"
)

// OpenAI finish reason constants
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)

// Monitored endpoint names
const (
	EndpointChatCompletions = "chat.completions"
	EndpointEmbeddings      = "embeddings"
)

// Provider and source identifiers
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMistral    = "mistral"
	DefaultSource      = "go-sdk-wrapper"
)

// DefaultTemperature is logged when the caller leaves temperature unset.
const DefaultTemperature = 1.0

// SimulatedCompletionPrefix starts every fabricated completion.
const SimulatedCompletionPrefix = "This is a simulated response for the prompt: "
