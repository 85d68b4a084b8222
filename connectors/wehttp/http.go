package wehttp

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/we"
)

type HandlerOption[T any] func(service *httpService[T])

func Logger[T any](log zerolog.Logger) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.log = log
	}
}

func Encoder[T any](encoder we.EntityEncoder[T]) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.encoder = encoder
	}
}

// RateLimit throttles every request by remote address and, once its
// signature is verified, each command by signer.
func RateLimit[T any](limiter *Limiter) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.limiter = limiter
	}
}

// SignatureWindow bounds how far a command's signing time may be from now.
func SignatureWindow[T any](window time.Duration) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.verifier = newVerifier(window)
	}
}

func MaxBodySize[T any](size int64) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.maxBodySize = size
	}
}

const DefaultMaxBodySize = 64 << 10

// NewHandler serves one entity type:
//
//	GET  /{type}/{key}  renders the entity
//	POST /{type}/{key}  executes a signed command
func NewHandler[T any](entityService we.EntityService[T], options ...HandlerOption[T]) http.Handler {
	var zero T
	service := &httpService[T]{
		entityType:  we.EntityTypeOf(zero),
		controller:  entityService,
		encoder:     we.NewResourceEncoder[T](),
		log:         log.Logger,
		verifier:    newVerifier(DefaultSignatureWindow),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, option := range options {
		option(service)
	}

	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))
	if service.limiter != nil {
		r.Use(service.limiter.Middleware)
	}

	r.Method(http.MethodGet, "/{type}/{key}", service.getResource())
	r.Method(http.MethodPost, "/{type}/{key}", service.executeCommand())

	return WithTelemetry(r, service.entityType.String())
}

type httpService[T any] struct {
	entityType  we.EntityType
	log         zerolog.Logger
	controller  we.EntityService[T]
	encoder     we.EntityEncoder[T]
	limiter     *Limiter
	verifier    *verifier
	maxBodySize int64
}

// commandRequest is the wire form of a remote command. Payload is the
// command's JSON document.
type commandRequest struct {
	Command we.CommandName  `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

func (service *httpService[T]) aggregateId(w http.ResponseWriter, r *http.Request) (we.AggregateId, bool) {
	t := chi.URLParam(r, "type")
	key := chi.URLParam(r, "key")

	if we.EntityType(t) != service.entityType || key == "" {
		http.NotFound(w, r)
		return we.AggregateId{}, false
	}

	return we.AggregateId{Type: t, Key: key}, true
}

func (service *httpService[T]) getResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := service.aggregateId(w, r)
		if !ok {
			return
		}

		entity, err := service.controller.Load(r.Context(), id)
		if err != nil {
			service.log.Info().Err(err).Str("id", id.String()).Msg("failed to load resource")
			http.Error(w, "failed to load resource", http.StatusInternalServerError)
			return
		}

		if !entity.Initialized() {
			http.NotFound(w, r)
			return
		}

		if err := service.encoder.Encode(w, r, &entity); err != nil {
			service.log.Warn().Err(err).Str("id", id.String()).Msg("failed to encode resource")
		}
	}
}

func (service *httpService[T]) executeCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := service.aggregateId(w, r)
		if !ok {
			return
		}

		contentType := r.Header.Get("Content-Type")
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || mediaType != we.JsonEncoding {
			http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, service.maxBodySize))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}

			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, err := service.verifier.authenticate(r.Context(), r, body)
		if err != nil {
			service.log.Info().Err(err).Str("id", id.String()).Msg("rejected unauthenticated command")
			writeError(w, err)
			return
		}

		if service.limiter != nil && !service.limiter.Allow(signerKey(ctx)) {
			tooManyRequests(w)
			return
		}

		var request commandRequest
		if err := json.Unmarshal(body, &request); err != nil || request.Command == "" {
			service.log.Info().Err(err).Msg("failed to unmarshal command")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		payload := request.Payload
		if len(payload) == 0 {
			payload = json.RawMessage("{}")
		}

		command := we.RemoteCommand{
			CommandName: request.Command,
			Payload:     we.Data{Encoding: we.JsonEncoding, Data: payload},
		}

		entity, err := service.controller.Execute(ctx, id, command)
		if err != nil {
			service.log.Info().Err(err).Str("id", id.String()).Str("command", request.Command.String()).Msg("failed to execute command")
			writeError(w, err)
			return
		}

		if err := service.encoder.Encode(w, r, &entity); err != nil {
			service.log.Warn().Err(err).Str("id", id.String()).Msg("failed to encode resource")
		}
	}
}
