package messaging

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orghub-server/internal/models"
)

// fakeStore is an in-memory Store for exercising the resolver without a
// database.
type fakeStore struct {
	messages map[string]*models.Message
	updates  []string // ids passed to UpdateFields, in order
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*models.Message)}
}

func (s *fakeStore) add(msg *models.Message) *models.Message {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	s.messages[msg.ID] = msg
	return msg
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*models.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

func (s *fakeStore) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	msg, ok := s.messages[id]
	if !ok {
		return ErrMessageNotFound
	}
	if v, ok := fields["is_thread"]; ok {
		msg.IsThread = v.(bool)
	}
	s.updates = append(s.updates, id)
	return nil
}

// send runs the full resolver flow for a new message the way the handler
// does: resolve, persist, flag parent.
func send(t *testing.T, store *fakeStore, msg *models.Message) *models.Message {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, ResolveThreadID(ctx, store, msg))
	store.add(msg)
	require.NoError(t, FlagParentAsThread(ctx, store, msg))
	return msg
}

func TestReplyChainConvergesOnRoot(t *testing.T) {
	store := newFakeStore()

	root := send(t, store, &models.Message{Subject: "budget"})
	require.Nil(t, root.ThreadID)

	reply := send(t, store, &models.Message{ParentMessageID: &root.ID})
	require.NotNil(t, reply.ThreadID)
	assert.Equal(t, root.ID, *reply.ThreadID)
	assert.True(t, root.IsThread, "root must be flagged once the first reply is saved")

	// Reply to the reply: ThreadID still resolves to the original root.
	deep := send(t, store, &models.Message{ParentMessageID: &reply.ID})
	require.NotNil(t, deep.ThreadID)
	assert.Equal(t, root.ID, *deep.ThreadID)
}

func TestMissingParentLeavesMessageStandalone(t *testing.T) {
	store := newFakeStore()
	ghost := uuid.New().String()

	msg := send(t, store, &models.Message{ParentMessageID: &ghost})
	assert.Nil(t, msg.ThreadID)
	assert.Empty(t, store.updates, "no parent update should be attempted to a fabricated thread")
}

func TestRootWithThreadFlagSelfResolves(t *testing.T) {
	store := newFakeStore()
	msg := store.add(&models.Message{IsThread: true})

	require.NoError(t, ResolveThreadID(context.Background(), store, msg))
	require.NotNil(t, msg.ThreadID)
	assert.Equal(t, msg.ID, *msg.ThreadID)
}

func TestResolveKeepsExistingThreadID(t *testing.T) {
	store := newFakeStore()
	root := store.add(&models.Message{})
	other := uuid.New().String()

	msg := &models.Message{ParentMessageID: &root.ID, ThreadID: &other}
	require.NoError(t, ResolveThreadID(context.Background(), store, msg))
	assert.Equal(t, other, *msg.ThreadID)
}

func TestFlagParentIsIdempotent(t *testing.T) {
	store := newFakeStore()
	root := store.add(&models.Message{})
	reply := store.add(&models.Message{ParentMessageID: &root.ID})

	ctx := context.Background()
	require.NoError(t, FlagParentAsThread(ctx, store, reply))
	require.NoError(t, FlagParentAsThread(ctx, store, reply))
	assert.True(t, root.IsThread)
	assert.Len(t, store.updates, 2)
}

func TestFlagParentNoParentIsNoop(t *testing.T) {
	store := newFakeStore()
	msg := store.add(&models.Message{})

	require.NoError(t, FlagParentAsThread(context.Background(), store, msg))
	assert.Empty(t, store.updates)
}
