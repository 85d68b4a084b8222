package main

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/auth"
	"github.com/weegigs/wee-counter-go/samples/counter"
	"github.com/weegigs/wee-counter-go/stores/memory"
)

func request(namespace string, key string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		PathParameters: map[string]string{"namespace": namespace, "key": key},
	}
}

func TestGetCounter(t *testing.T) {
	ctx := context.Background()
	store := memory.NewEventStore()
	handler := createHandler(counter.Loader(store))

	key, err := auth.GeneratePrivateKey()
	require.NoError(t, err)
	owner := key.Identity()

	service := counter.CreateCounterService(store, nil)
	_, err = service.Execute(auth.WithSigner(ctx, owner), counter.Id("lambda"), counter.Create{Owner: owner})
	require.NoError(t, err)

	t.Run("returns the counter with its account", func(t *testing.T) {
		response, err := handler(ctx, request("counter", "lambda"))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, response.StatusCode, response.Body)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
		assert.Equal(t, owner.String(), body["owner"])

		account, err := base64.StdEncoding.DecodeString(body["$account"].(string))
		require.NoError(t, err)

		decoded, err := counter.DecodeAccount(account)
		require.NoError(t, err)
		assert.Equal(t, counter.Counter{Owner: owner, Count: 0}, decoded)
	})

	t.Run("requires path parameters", func(t *testing.T) {
		response, err := handler(ctx, request("", "lambda"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})

	t.Run("returns not found for absent counters", func(t *testing.T) {
		response, err := handler(ctx, request("counter", "absent"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, response.StatusCode)

		response, err = handler(ctx, request("widget", "lambda"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, response.StatusCode)
	})
}
