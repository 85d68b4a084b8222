package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/samples/counter"
	"github.com/weegigs/wee-counter-go/stores/ds"
	"github.com/weegigs/wee-counter-go/we"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

func respond(status int, body any) (events.APIGatewayV2HTTPResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": we.JsonEncoding},
		Body:       string(encoded),
	}, nil
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}

func createHandler(loader *we.EntityLoader[counter.Counter]) GatewayHandler {
	encoder := counter.ResourceEncoder()

	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		namespace := event.PathParameters["namespace"]
		key := event.PathParameters["key"]

		if namespace == "" || key == "" {
			return respond(http.StatusBadRequest, message("namespace and key are required"))
		}

		if we.EntityType(namespace) != counter.EntityType {
			return respond(http.StatusNotFound, message("not found"))
		}

		entity, err := loader.Load(ctx, we.AggregateId{Type: namespace, Key: key})
		if err != nil {
			log.Error().Err(err).Str("namespace", namespace).Str("key", key).Msg("failed to load counter")
			return respond(http.StatusInternalServerError, message("failed to load counter"))
		}

		if !entity.Initialized() {
			return respond(http.StatusNotFound, message("not found"))
		}

		resource, err := encoder.Resource(&entity)
		if err != nil {
			log.Error().Err(err).Str("namespace", namespace).Str("key", key).Msg("failed to encode counter")
			return respond(http.StatusInternalServerError, message("failed to encode counter"))
		}

		return respond(http.StatusOK, resource)
	}
}

var Live = wire.NewSet(createHandler, counter.Loader, ds.Live)
