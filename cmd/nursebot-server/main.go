package main

import (
	"context"
	"net/http"
	"os"

	"github.com/SaiNageswarS/go-api-boot/config"
	"github.com/SaiNageswarS/go-api-boot/dotenv"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/idelcare/nursebot/agents"
	"github.com/idelcare/nursebot/appconfig"
	"github.com/idelcare/nursebot/completion"
	"github.com/idelcare/nursebot/dispatch"
	"github.com/idelcare/nursebot/llm"
	"github.com/idelcare/nursebot/model"
	"github.com/idelcare/nursebot/orchestrator"
	"github.com/idelcare/nursebot/server"
	"github.com/idelcare/nursebot/store"
	"github.com/idelcare/nursebot/voice"
	"go.uber.org/zap"
)

func main() {
	dotenv.LoadEnv()

	ccfgg := &appconfig.AppConfig{}
	err := config.LoadConfig("config.ini", ccfgg)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	agentSet, err := agents.LoadSet()
	if err != nil {
		logger.Fatal("Failed to load agent descriptors", zap.Error(err))
	}

	llmClient := provideLLMClient(ccfgg)
	completionClient := completion.New(llmClient)
	orc := orchestrator.New(completionClient, agentSet)

	memoryStore := store.NewMemoryStore()
	writeStore := provideWriteStore(memoryStore, ccfgg)
	dispatcher := dispatch.NewDispatcher(writeStore)

	transcriber := voice.NewWhisperTranscriber(ccfgg.SttModel)

	settings := model.Settings{
		PracticeName: ccfgg.PracticeName,
		Tone:         "professionnel",
	}
	operator := &model.SessionUser{UserID: "operator-1", Name: "Opérateur", Role: "nurse"}

	srv := server.New(orc, dispatcher, transcriber, memoryStore, settings, operator)

	port := ccfgg.HTTPPort
	if port == "" {
		port = ":8080"
	}
	logger.Info("NurseBot server listening", zap.String("port", port))
	if err := http.ListenAndServe(port, srv.Router()); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func provideLLMClient(ccfgg *appconfig.AppConfig) llm.LLMClient {
	switch ccfgg.LLMProvider {
	case "openai":
		return llm.NewOpenAIClient(ccfgg.OpenAIModel)
	case "ollama":
		return llm.NewOllamaClient(ccfgg.OllamaModel)
	default:
		return llm.NewGroqClient(ccfgg.GroqModel)
	}
}

// provideWriteStore keeps the in-memory mirror in front and, when Mongo is
// configured, tees writes through to the durable store.
func provideWriteStore(memory *store.MemoryStore, ccfgg *appconfig.AppConfig) store.Store {
	if os.Getenv("MONGO_URI") == "" {
		return memory
	}

	mongoClient := odm.ProvideMongoClient()

	tenant := ccfgg.MongoTenant
	if tenant == "" {
		tenant = "idel"
	}

	if err := store.EnsureIndexes(context.Background(), mongoClient, tenant); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	return store.NewTeeStore(memory, store.NewMongoStore(mongoClient, tenant))
}
