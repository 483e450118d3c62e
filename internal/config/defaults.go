package config

const (
	defaultDataDir           = "~/.local/share/coursesum"
	defaultLogDir            = "~/.local/share/coursesum/logs"
	defaultAPIBind           = "127.0.0.1:7497"
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-2.0-flash-thinking-exp:free"
	defaultLLMTitle          = "Coursera Summarizer"
	defaultLLMTimeoutSeconds = 60
	defaultLLMRetryAttempts  = 1
	defaultContainerSelector = "div.phrases"
	defaultPhraseSelector    = "div.rc-Phrase"
	defaultMinLength         = 20
	defaultResizeDebounceMS  = 300
	defaultSettleDelayMS     = 16
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var defaultAPIOrigins = []string{"https://www.coursera.org"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
			APIOrigins: append([]string(nil), defaultAPIOrigins...),
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Extractor: Extractor{
			ContainerSelector: defaultContainerSelector,
			PhraseSelector:    defaultPhraseSelector,
			MinLength:         defaultMinLength,
		},
		Panel: Panel{
			ResizeDebounceMS: defaultResizeDebounceMS,
			SettleDelayMS:    defaultSettleDelayMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
