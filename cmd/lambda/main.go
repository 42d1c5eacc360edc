package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mugenreco-backend/infrastructure/config"
	"mugenreco-backend/infrastructure/di"
)

var (
	// chiLambda wraps the router for API Gateway HTTP API payloads
	chiLambda *chiadapter.ChiLambdaV2

	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init runs during cold start
func init() {
	coldStartTime = time.Now()
	log.Println("Lambda cold start initiated")

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	handler := container.Router.Setup()
	chiRouter, ok := handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)
}

// handleRequest proxies API Gateway events through the router
func handleRequest(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if coldStart {
		container.Logger.Info("Lambda cold start completed",
			zap.Duration("duration", time.Since(coldStartTime)),
		)
		coldStart = false
	}
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(handleRequest)
}
