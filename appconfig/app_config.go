package appconfig

import (
	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	LLMProvider  string `env:"LLM-PROVIDER" ini:"llm_provider"`
	GroqModel    string `env:"GROQ-MODEL" ini:"groq_model"`
	OpenAIModel  string `env:"OPENAI-MODEL" ini:"openai_model"`
	OllamaModel  string `env:"OLLAMA-MODEL" ini:"ollama_model"`
	SttModel     string `env:"STT-MODEL" ini:"stt_model"`
	MongoTenant  string `env:"MONGO-TENANT" ini:"mongo_tenant"`
	PracticeName string `env:"PRACTICE-NAME" ini:"practice_name"`
	HTTPPort     string `env:"HTTP-PORT" ini:"http_port"`
}
