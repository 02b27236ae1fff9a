package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/jo-hoe/cozymind/internal/backend/commands"
	"github.com/jo-hoe/cozymind/internal/backend/commandstructure"
	"github.com/jo-hoe/cozymind/internal/backend/database"
	"github.com/jo-hoe/cozymind/internal/backend/inpaint"
	"github.com/jo-hoe/cozymind/internal/backend/products"
	"github.com/jo-hoe/cozymind/internal/backend/session"
	"github.com/jo-hoe/cozymind/internal/backend/storage"
	"github.com/jo-hoe/cozymind/internal/backend/todo"
)

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	redisClient     *redis.Client
	objectStore     *storage.ObjectStore
	sessions        *session.Store
	inpaintClient   *inpaint.Client
	productClient   *products.Client
	todoGenerator   todo.Generator
	uploadPipeline  *commandstructure.Pipeline
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}

	uploadPipeline, err := getUploadPipeline(config)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Address,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	todoGenerator, err := getTodoGenerator(config)
	if err != nil {
		_ = redisClient.Close()
		_ = databaseService.Close()
		return nil, err
	}

	productCache := products.NewRedisCache(redisClient, time.Duration(config.ProductSearch.CacheTTLMinutes)*time.Minute)

	return &CoreService{
		config:          config,
		databaseService: databaseService,
		redisClient:     redisClient,
		objectStore:     storage.NewObjectStore(databaseService, config.PublicBaseURL),
		sessions:        session.NewStore(redisClient, time.Duration(config.Session.TTLMinutes)*time.Minute),
		inpaintClient: inpaint.NewClient(inpaint.Config{
			APIKey:         config.Stability.APIKey,
			BaseURL:        config.Stability.BaseURL,
			TimeoutSeconds: config.Stability.TimeoutSeconds,
		}),
		productClient: products.NewClient(products.Config{
			APIKey:         config.ProductSearch.APIKey,
			Host:           config.ProductSearch.Host,
			BaseURL:        config.ProductSearch.BaseURL,
			TimeoutSeconds: config.ProductSearch.TimeoutSeconds,
		}, products.WithCache(productCache)),
		todoGenerator:  todoGenerator,
		uploadPipeline: uploadPipeline,
	}, nil
}

// Ping checks that the database and Redis are reachable.
func (service *CoreService) Ping(ctx context.Context) error {
	if !service.databaseService.DoesDatabaseExist() {
		return errors.New("database not reachable")
	}
	if err := service.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis not reachable: %w", err)
	}
	return nil
}

// GetObject returns a stored object for public serving.
func (service *CoreService) GetObject(bucket, path string) (*database.Object, error) {
	object, err := service.objectStore.Get(bucket, path)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return object, err
}

func (service *CoreService) Close() error {
	return errors.Join(service.redisClient.Close(), service.databaseService.Close())
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

func getUploadPipeline(config *ServiceConfig) (*commandstructure.Pipeline, error) {
	configs := make([]commandstructure.CommandConfig, 0, len(config.UploadCommands))
	for _, command := range config.UploadCommands {
		configs = append(configs, commandstructure.CommandConfig{Name: command.Name, Params: command.Params})
	}
	pipeline, err := commandstructure.NewPipeline(commandstructure.DefaultRegistry, configs)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload pipeline: %w", err)
	}
	slog.Info("upload pipeline configured", "commands", pipeline.Len())
	return pipeline, nil
}

func getTodoGenerator(config *ServiceConfig) (todo.Generator, error) {
	if config.Todo.Provider != TodoProviderGenAI {
		return todo.NewStaticGenerator(), nil
	}
	generator, err := todo.NewVisionGenerator(context.Background(), config.Todo.APIKey, config.Todo.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize todo generator: %w", err)
	}
	slog.Info("todo generator initialized", "provider", config.Todo.Provider)
	return generator, nil
}
