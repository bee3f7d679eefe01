package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/fruitdb/etl/internal/config"
	"github.com/fruitdb/etl/internal/etl"
)

func main() {
	configBuilder := config.NewBuilder(config.WithDotEnv(), config.WithSecrets())
	config, err := configBuilder.BuildConfig(context.Background(), "fruit_etl.buildconfig")
	if err != nil {
		panic(fmt.Errorf("could not build config: %w", err))
	}

	lambda.Start(HandleRequest(etl.New(config)))
}
