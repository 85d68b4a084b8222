package we_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/auth"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/we"
)

type Note struct {
	Text string `json:"text"`
}

func (Note) Space() int {
	return 64
}

type Draft struct {
	Text    string `json:"text"`
	Reserve int    `json:"reserve"`
}

func (d Draft) Allocation() int {
	return d.Reserve
}

type Edit struct {
	Text string `json:"text"`
}

type Drafted struct {
	Text string `json:"text"`
}

type Edited struct {
	Text string `json:"text"`
}

func noteDescriptor() we.ServiceDescriptor[Note] {
	return we.ServiceDescriptor[Note]{
		Handlers: map[we.CommandName]func() we.CommandHandler[Note]{
			we.CommandNameOf(Draft{}): func() we.CommandHandler[Note] {
				var handler we.CommandHandlerFunction[Note, Draft] = func(ctx context.Context, cmd Draft, state we.Entity[Note], publish we.EventPublisher) error {
					_, err := publish(ctx, state.Aggregate, we.Options(), Drafted{Text: cmd.Text})
					return err
				}
				return handler
			},
			we.CommandNameOf(Edit{}): func() we.CommandHandler[Note] {
				var handler we.CommandHandlerFunction[Note, Edit] = func(ctx context.Context, cmd Edit, state we.Entity[Note], publish we.EventPublisher) error {
					if cmd.Text == state.State.Text {
						return nil
					}
					_, err := publish(ctx, state.Aggregate, we.Options(), Edited{Text: cmd.Text})
					return err
				}
				return handler
			},
		},
		Initializers: map[we.EventType]func() we.Initializer[Note]{
			we.EventTypeOf(Drafted{}): func() we.Initializer[Note] {
				var initializer we.InitializerFunction[Note, Drafted] = func(evt *Drafted) (*Note, error) {
					return &Note{Text: evt.Text}, nil
				}
				return initializer
			},
		},
		Reducers: map[we.EventType]func() we.Reducer[Note]{
			we.EventTypeOf(Edited{}): func() we.Reducer[Note] {
				var reducer we.ReducerFunction[Note, Edited] = func(state *Note, evt *Edited) error {
					state.Text = evt.Text
					return nil
				}
				return reducer
			},
		},
	}
}

type conflictingStore struct {
	we.EventStore
	conflicts int
}

func (s *conflictingStore) Publish(ctx context.Context, id we.AggregateId, options we.PublishOptions, events ...we.DomainEvent) (we.Revision, error) {
	if s.conflicts > 0 {
		s.conflicts--
		return "", we.RevisionConflict
	}

	return s.EventStore.Publish(ctx, id, options, events...)
}

func signed(t *testing.T) (context.Context, auth.Identity) {
	key, err := auth.GeneratePrivateKey()
	require.NoError(t, err)

	return auth.WithSigner(context.Background(), key.Identity()), key.Identity()
}

func noteId(key string) we.AggregateId {
	return we.AggregateId{Type: "note", Key: key}
}

func allocatesEntity(t *testing.T) {
	store := memory.NewEventStore()
	service := we.CreateService(store, noteDescriptor(), nil)
	ctx, payer := signed(t)

	entity, err := service.Execute(ctx, noteId("allocates"), Draft{Text: "hello", Reserve: 64})
	require.NoError(t, err)

	assert.True(t, entity.Initialized())
	assert.Equal(t, "hello", entity.State.Text)

	aggregate, err := store.Load(ctx, noteId("allocates"))
	require.NoError(t, err)
	require.Len(t, aggregate.Events, 2)
	assert.Equal(t, we.AllocatedEvent, aggregate.Events[0].EventType)

	var allocated we.Allocated
	require.NoError(t, we.UnmarshalFromData(aggregate.Events[0].Data, &allocated))
	assert.Equal(t, we.Allocated{Payer: payer, Space: 64}, allocated)
}

func rejectsDuplicateAllocation(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	_, err := service.Execute(ctx, noteId("duplicate"), Draft{Text: "first", Reserve: 64})
	require.NoError(t, err)

	_, err = service.Execute(ctx, noteId("duplicate"), Draft{Text: "second", Reserve: 64})
	assert.ErrorIs(t, err, we.ErrAccountInUse)

	entity, err := service.Load(ctx, noteId("duplicate"))
	require.NoError(t, err)
	assert.Equal(t, "first", entity.State.Text)
}

func rejectsInsufficientSpace(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	_, err := service.Execute(ctx, noteId("small"), Draft{Text: "tiny", Reserve: 63})
	assert.ErrorIs(t, err, we.ErrInsufficientSpace)

	entity, err := service.Load(ctx, noteId("small"))
	require.NoError(t, err)
	assert.False(t, entity.Initialized())
	assert.Equal(t, we.InitialRevision, entity.Revision)
}

func rejectsUninitializedEntity(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	_, err := service.Execute(ctx, noteId("missing"), Edit{Text: "nothing"})
	assert.ErrorIs(t, err, we.ErrAccountNotInitialized)
}

func requiresSigner(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)

	_, err := service.Execute(context.Background(), noteId("unsigned"), Draft{Text: "anonymous", Reserve: 64})
	assert.ErrorIs(t, err, we.ErrMissingSigner)
}

func rejectsUnknownCommand(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	_, err := service.Execute(ctx, noteId("unknown"), we.RemoteCommand{CommandName: "note:shred"})
	assert.Equal(t, we.CommandNotFound("note:shred"), err)
}

func executesRemoteCommand(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	payload, err := we.MarshalToData(Draft{Text: "remote", Reserve: 128})
	require.NoError(t, err)

	entity, err := service.Execute(ctx, noteId("remote"), we.RemoteCommand{
		CommandName: we.CommandNameOf(Draft{}),
		Payload:     payload,
	})
	require.NoError(t, err)
	assert.Equal(t, "remote", entity.State.Text)
}

func rejectsUndecodableCommand(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	_, err := service.Execute(ctx, noteId("undecodable"), we.RemoteCommand{
		CommandName: we.CommandNameOf(Draft{}),
		Payload:     we.Data{Encoding: we.JsonEncoding, Data: []byte(`{"reserve": "lots"}`)},
	})

	var invalid we.InvalidCommandError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, we.CommandNameOf(Draft{}), invalid.Command)
}

func skipsReloadWhenNothingPublished(t *testing.T) {
	service := we.CreateService(memory.NewEventStore(), noteDescriptor(), nil)
	ctx, _ := signed(t)

	created, err := service.Execute(ctx, noteId("unchanged"), Draft{Text: "same", Reserve: 64})
	require.NoError(t, err)

	entity, err := service.Execute(ctx, noteId("unchanged"), Edit{Text: "same"})
	require.NoError(t, err)
	assert.Equal(t, created.Revision, entity.Revision)
}

func retriesRevisionConflicts(t *testing.T) {
	store := &conflictingStore{EventStore: memory.NewEventStore()}
	service := we.CreateService(store, noteDescriptor(), nil)
	ctx, _ := signed(t)

	_, err := service.Execute(ctx, noteId("contended"), Draft{Text: "draft", Reserve: 64})
	require.NoError(t, err)

	store.conflicts = 2
	entity, err := service.Execute(ctx, noteId("contended"), Edit{Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", entity.State.Text)

	store.conflicts = 5
	_, err = service.Execute(ctx, noteId("contended"), Edit{Text: "lost"})
	assert.ErrorIs(t, err, we.RevisionConflict)
}

func countsDispatchOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := we.NewMetrics(registry)
	require.NoError(t, err)

	store := memory.NewEventStore()
	descriptor := noteDescriptor()
	service := we.NewEntityService(descriptor.Loader(store), descriptor.Dispatcher(store, metrics))
	ctx, _ := signed(t)

	_, err = service.Execute(ctx, noteId("metered"), Draft{Text: "one", Reserve: 64})
	require.NoError(t, err)

	_, err = service.Execute(ctx, noteId("metered"), Draft{Text: "two", Reserve: 64})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(registry, "we_commands_dispatched_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEntityService(t *testing.T) {
	t.Run("allocates entity", allocatesEntity)
	t.Run("rejects duplicate allocation", rejectsDuplicateAllocation)
	t.Run("rejects insufficient space", rejectsInsufficientSpace)
	t.Run("rejects uninitialized entity", rejectsUninitializedEntity)
	t.Run("requires signer", requiresSigner)
	t.Run("rejects unknown command", rejectsUnknownCommand)
	t.Run("executes remote command", executesRemoteCommand)
	t.Run("rejects undecodable command", rejectsUndecodableCommand)
	t.Run("skips reload when nothing published", skipsReloadWhenNothingPublished)
	t.Run("retries revision conflicts", retriesRevisionConflicts)
	t.Run("counts dispatch outcomes", countsDispatchOutcomes)
}
