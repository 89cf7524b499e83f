package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"casdy/pkg/agent"
	"casdy/pkg/api"
	"casdy/pkg/config"
	"casdy/pkg/emotion"
	"casdy/pkg/imagegen"
	"casdy/pkg/intent"
	"casdy/pkg/llm"
	"casdy/pkg/memory"
	"casdy/pkg/persona"
	"casdy/pkg/relationship"
	"casdy/pkg/store"
)

func main() {
	// Load config.yml
	cfg, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load .env for secrets
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	apiKeys := os.Getenv("LLM_API_KEYS")
	if apiKeys == "" {
		log.Fatal("Missing required environment variable: LLM_API_KEYS")
	}
	baseURL := os.Getenv("LLM_API_BASE")
	if baseURL == "" {
		baseURL = "https://api.totalgpt.ai/v1"
	}

	timeout := time.Duration(cfg.ModelSettings.TimeoutSeconds) * time.Second

	primary := llm.NewClient("primary", baseURL, apiKeys,
		cfg.ModelSettings.Temperature, cfg.ModelSettings.TopP, timeout, llm.DefaultModels, logger)

	providers := []llm.Completer{primary}
	if fbKeys := os.Getenv("FALLBACK_LLM_API_KEYS"); fbKeys != "" {
		fbURL := os.Getenv("FALLBACK_LLM_API_BASE")
		if fbURL == "" {
			fbURL = baseURL
		}
		providers = append(providers, llm.NewClient("fallback", fbURL, fbKeys,
			cfg.ModelSettings.Temperature, cfg.ModelSettings.TopP, timeout, llm.DefaultModels, logger))
		log.Println("Fallback LLM provider configured")
	}
	completer := llm.NewFallback(logger, providers...)

	// Persistence: Redis when available, in-process memory otherwise. The
	// fallback also catches a Redis that dies mid-flight.
	var st store.Store
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStore, err := store.NewRedisStore(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		st = store.NewFallback(redisStore, logger)
		log.Println("Redis store initialized")
	} else {
		st = store.NewMemoryStore()
		log.Println("REDIS_URL not set, state is in-process only")
	}

	// Image generation is optional.
	var generator imagegen.Generator
	if imageURL := os.Getenv("IMAGE_API_URL"); imageURL != "" {
		generator = imagegen.NewHTTPGenerator("image-api", imageURL, os.Getenv("IMAGE_API_KEY"), 60*time.Second, logger)
		log.Println("Image generation backend configured")
	} else {
		log.Println("IMAGE_API_URL not set, image generation disabled")
	}

	extractor, err := intent.NewExtractor(completer, cfg.Intent.CacheSize, logger)
	if err != nil {
		log.Fatalf("Failed to create intent extractor: %v", err)
	}

	relEngine := relationship.NewEngine(st, relationship.Tuning{
		Thresholds:     cfg.Relationship.Thresholds,
		StateTTL:       time.Duration(cfg.Relationship.StateTTLDays) * 24 * time.Hour,
		MilestoneBonus: cfg.Relationship.MilestoneBonus,
	}, logger)

	factStore := memory.NewFactStore(st, memory.Tuning{
		MaxFacts: cfg.Memory.MaxFacts,
		FactTTL:  time.Duration(cfg.Memory.FactTTLDays) * 24 * time.Hour,
	}, logger)

	system := agent.NewSystem(agent.Options{
		Config:       cfg,
		Store:        st,
		Completer:    completer,
		Extractor:    extractor,
		Relationship: relEngine,
		Emotion:      emotion.NewEngine(st, logger),
		Memory:       memory.NewAgent(completer, factStore, logger),
		Generator:    generator,
		Logger:       logger,
	})

	registerCharacters(system)

	server := api.NewServer(cfg.Server.Addr, system, logger)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Printf("Companion service running on %s. Press CTRL-C to exit.", cfg.Server.Addr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	system.Wait()
}

func registerCharacters(system *agent.System) {
	path := os.Getenv("CHARACTERS_FILE")
	if path == "" {
		path = "characters.yml"
	}

	characters, err := persona.LoadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load characters from %s: %v", path, err)
		}
		log.Printf("%s not found, registering the default character", path)
		characters = []*persona.Character{defaultCharacter()}
	}

	for _, c := range characters {
		if err := system.RegisterCharacter(c); err != nil {
			log.Fatalf("Failed to register character %s: %v", c.ID, err)
		}
		log.Printf("Registered character: %s (%s)", c.Name, c.ID)
	}
}

func defaultCharacter() *persona.Character {
	return &persona.Character{
		ID:                "melissa",
		Name:              "Melissa",
		Language:          "french",
		AgeRange:          "20s",
		HairColor:         "long brown hair",
		EyeColor:          "hazel eyes",
		BodyType:          "slim",
		PersonalityTraits: []string{"playful", "affectionate", "curious"},
		Voice:             "douce et taquine",
		Occupation:        "etudiante en photographie",
		Hobbies:           []string{"photographie", "musique", "voyages"},
		RelationshipType:  "girlfriend",
		ClothingStyle:     "casual chic",
		Bio:               "Une jeune femme petillante qui adore discuter de tout et de rien.",
	}
}
