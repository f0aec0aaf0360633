package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell-ai/studygraph/backend/internal/queue"
	"github.com/inkwell-ai/studygraph/backend/internal/storage"
	"github.com/inkwell-ai/studygraph/backend/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/inkwell-ai/studygraph/backend/pkg/ai"
	oai "github.com/inkwell-ai/studygraph/backend/pkg/ai/ollama"
	cai "github.com/inkwell-ai/studygraph/backend/pkg/ai/openaicompat"
	"github.com/inkwell-ai/studygraph/backend/pkg/graph"
	"github.com/inkwell-ai/studygraph/backend/pkg/graphstore"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger"
	"github.com/inkwell-ai/studygraph/backend/pkg/logger/console"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleBackend := console.NewConsoleBackend(console.ConsoleBackendParams{
		Debug: debug,
	})
	logger.Init(consoleBackend)

	// Init s3 client
	s3Client := storage.NewS3Client(ctx)

	builder := graph.NewBuilder(graph.BuilderParams{
		MaxKeywords: int(util.GetEnvNumeric("GRAPH_MAX_KEYWORDS", 0)),
		MaxNodes:    int(util.GetEnvNumeric("GRAPH_MAX_NODES", 0)),
	})
	providers := make([]ai.Provider, 0, 3)
	if key := util.GetEnv("DEEPSEEK_API_KEY"); key != "" {
		providers = append(providers, cai.NewClient(cai.NewClientParams{
			Name:    "deepseek",
			BaseURL: util.GetEnvString("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			APIKey:  key,
			Model:   util.GetEnvString("DEEPSEEK_MODEL", "deepseek-chat"),
		}))
	}
	if key := util.GetEnv("GEMINI_API_KEY"); key != "" {
		providers = append(providers, cai.NewClient(cai.NewClientParams{
			Name:    "gemini",
			BaseURL: util.GetEnvString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			APIKey:  key,
			Model:   util.GetEnvString("GEMINI_MODEL", "gemini-2.0-flash"),
		}))
	}
	if url := util.GetEnv("OLLAMA_URL"); url != "" {
		client, err := oai.NewClient(oai.NewClientParams{
			BaseURL: url,
			Model:   util.GetEnvString("OLLAMA_MODEL", "qwen2.5"),
		})
		if err != nil {
			logger.Warn("Skipping ollama provider", "err", err)
		} else {
			providers = append(providers, client)
		}
	}

	router := ai.NewRouter(ai.NewRouterParams{
		Providers: providers,
		Local:     ai.NewHeuristics(builder),
	})

	mirror, err := graphstore.NewStore(graphstore.NewStoreParams{
		URI:      util.GetEnv("NEO4J_URI"),
		User:     util.GetEnv("NEO4J_USER"),
		Password: util.GetEnv("NEO4J_PASSWORD"),
		Database: util.GetEnv("NEO4J_DATABASE"),
	})
	if err != nil {
		logger.Warn("Neo4j mirror unavailable", "err", err)
	}
	if mirror != nil {
		defer mirror.Close(context.Background())
	}

	// Init pgx client
	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.QueueNames); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	logger.Info("Listening for messages")

	// Create a single consumer channel with prefetch=1
	// This ensures only ONE message is delivered at a time across all queues
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queue.QueueNames {
		go func(qName string) {
			consumerTag := fmt.Sprintf("%s_consumer", qName)
			msgs, err := consumerCh.Consume(
				qName,
				consumerTag,
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				var processingErr error
				switch qm.queueName {
				case queue.ProcessQueue:
					processingErr = queue.ProcessDocumentMessage(ctx, s3Client, router, builder, mirror, pgConn, string(qm.msg.Body))
				case queue.DeleteQueue:
					processingErr = queue.ProcessDeleteMessage(ctx, s3Client, mirror, string(qm.msg.Body))
				}

				// If there was an error send to retry or dead-letter, otherwise ack the message
				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					queue.HandleProcessingError(consumerCh, qm.msg, qm.queueName)
				} else {
					err = qm.msg.Ack(false)
					if err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				duration := time.Since(startTime)
				hours := int(duration.Hours())
				minutes := int(duration.Minutes()) % 60
				seconds := int(duration.Seconds()) % 60
				logger.Info(
					"Processing time",
					"duration", fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
				)
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}
