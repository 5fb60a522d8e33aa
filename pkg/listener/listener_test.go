package listener

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapulthq/catapult-sdk/pkg/dto"
	"github.com/catapulthq/catapult-sdk/pkg/log"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

type testNode struct {
	server   *httptest.Server
	requests chan subscribeRequest
	push     chan []byte
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()
	node := &testNode{
		requests: make(chan subscribeRequest, 8),
		push:     make(chan []byte, 8),
	}
	upgrader := websocket.Upgrader{}
	node.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		if err := conn.WriteJSON(handshake{UID: "test-uid"}); err != nil {
			return
		}
		go func() {
			for {
				req := subscribeRequest{}
				if err := conn.ReadJSON(&req); err != nil {
					return
				}
				node.requests <- req
			}
		}()
		for data := range node.push {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(node.server.Close)
	t.Cleanup(func() { close(node.push) })
	return node
}

func (n *testNode) endpoint() string {
	return "ws" + strings.TrimPrefix(n.server.URL, "http")
}

func (n *testNode) pushEnvelope(t *testing.T, topic string, data interface{}) {
	t.Helper()
	payload, err := json.Marshal(struct {
		Topic string      `json:"topic"`
		Data  interface{} `json:"data"`
	}{topic, data})
	require.NoError(t, err)
	n.push <- payload
}

func (n *testNode) nextRequest(t *testing.T) subscribeRequest {
	t.Helper()
	select {
	case req := <-n.requests:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a subscription request")
	}
	return subscribeRequest{}
}

func dialTestNode(t *testing.T, node *testNode) *Listener {
	t.Helper()
	listener, err := Dial(context.Background(), node.endpoint(), log.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })
	return listener
}

func listenerAccount(t *testing.T, passphrase string) *model.Account {
	t.Helper()
	account, err := model.NewAccountFromPassphrase(passphrase, model.TestNet)
	require.NoError(t, err)
	return account
}

func transferTo(t *testing.T, recipient model.UnresolvedAddress) *transaction.TransferTransaction {
	t.Helper()
	message, err := model.NewPlainMessage("ping")
	require.NoError(t, err)
	return transaction.NewTransferTransaction(
		recipient,
		[]model.Mosaic{model.NewMosaic(model.MosaicID(0x2CF403E85507F39E), 10)},
		message,
		model.NewDeadlineFromValue(8266897456),
		model.TestNet,
	)
}

func pushTransaction(t *testing.T, node *testNode, topic string, tx transaction.Transaction) {
	t.Helper()
	wrapper, err := dto.MapToWrapper(tx)
	require.NoError(t, err)
	node.pushEnvelope(t, topic, wrapper)
}

func receiveTransaction(t *testing.T, sub *TransactionSubscription) transaction.Transaction {
	t.Helper()
	select {
	case tx, ok := <-sub.Transactions():
		require.True(t, ok)
		return tx
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a transaction")
	}
	return nil
}

func TestDialHandshake(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	assert.Equal(t, "test-uid", listener.UID())
}

func TestDialRejectsMissingUID(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(struct{}{})
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	_, err := Dial(context.Background(), "ws"+strings.TrimPrefix(server.URL, "http"), log.NewSilentLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHandshake)
}

func TestConfirmedAddedDelivery(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	account := listenerAccount(t, "watched")

	sub, err := listener.ConfirmedAdded(account.Address)
	require.NoError(t, err)
	req := node.nextRequest(t)
	assert.Equal(t, "test-uid", req.UID)
	assert.Equal(t, "confirmedAdded/"+account.Address.Plain(), req.Subscribe)

	pushTransaction(t, node, sub.Topic(), transferTo(t, account.Address))

	received := receiveTransaction(t, sub)
	transfer, ok := received.(*transaction.TransferTransaction)
	require.True(t, ok)
	assert.Equal(t, account.Address, transfer.Recipient)
}

func TestFiltersUnrelatedTransactions(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	watched := listenerAccount(t, "watched")
	other := listenerAccount(t, "other")

	sub, err := listener.ConfirmedAdded(watched.Address)
	require.NoError(t, err)
	node.nextRequest(t)

	// A transaction not involving the watched account never reaches the
	// subscription even when the node misroutes it onto the topic.
	pushTransaction(t, node, sub.Topic(), transferTo(t, other.Address))
	pushTransaction(t, node, sub.Topic(), transferTo(t, watched.Address))

	received := receiveTransaction(t, sub)
	transfer, ok := received.(*transaction.TransferTransaction)
	require.True(t, ok)
	assert.Equal(t, watched.Address, transfer.Recipient)
}

func TestAliasedRecipientIsDelivered(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	account := listenerAccount(t, "watched")
	namespaceID, err := model.NewNamespaceIDFromName("watched.alias")
	require.NoError(t, err)

	sub, err := listener.ConfirmedAdded(account.Address, namespaceID)
	require.NoError(t, err)
	node.nextRequest(t)

	pushTransaction(t, node, sub.Topic(), transferTo(t, namespaceID))

	received := receiveTransaction(t, sub)
	transfer, ok := received.(*transaction.TransferTransaction)
	require.True(t, ok)
	assert.Equal(t, namespaceID, transfer.Recipient)
}

func TestStatusDelivery(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	account := listenerAccount(t, "watched")

	sub, err := listener.Status(account.Address)
	require.NoError(t, err)
	req := node.nextRequest(t)
	assert.Equal(t, "status/"+account.Address.Plain(), req.Subscribe)

	node.pushEnvelope(t, sub.topic, TransactionStatus{
		Hash:     make([]byte, 32),
		Code:     "Failure_Core_Insufficient_Balance",
		Deadline: 8266897456,
	})

	select {
	case status := <-sub.Statuses():
		assert.Equal(t, "Failure_Core_Insufficient_Balance", status.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a status")
	}
}

func TestCosignatureDelivery(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	account := listenerAccount(t, "cosigner")

	sub, err := listener.Cosignatures()
	require.NoError(t, err)
	req := node.nextRequest(t)
	assert.Equal(t, "cosignature", req.Subscribe)

	node.pushEnvelope(t, "cosignature", transaction.CosignatureSignedTransaction{
		ParentHash:      make([]byte, 32),
		Signature:       make([]byte, 64),
		SignerPublicKey: account.PublicKey,
	})

	select {
	case cosignature := <-sub.Cosignatures():
		assert.Equal(t, account.PublicKey, cosignature.SignerPublicKey)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a cosignature")
	}
}

func TestCloseSubscriptionUnsubscribes(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	account := listenerAccount(t, "watched")

	sub, err := listener.ConfirmedAdded(account.Address)
	require.NoError(t, err)
	node.nextRequest(t)

	require.NoError(t, listener.CloseSubscription(sub.ID()))
	req := node.nextRequest(t)
	assert.Equal(t, sub.Topic(), req.Unsubscribe)

	_, open := <-sub.Transactions()
	assert.False(t, open)

	require.Error(t, listener.CloseSubscription(sub.ID()))
}

func TestSharedTopicKeepsSubscription(t *testing.T) {
	node := newTestNode(t)
	listener := dialTestNode(t, node)
	account := listenerAccount(t, "watched")

	first, err := listener.ConfirmedAdded(account.Address)
	require.NoError(t, err)
	node.nextRequest(t)
	second, err := listener.ConfirmedAdded(account.Address)
	require.NoError(t, err)
	node.nextRequest(t)

	require.NoError(t, listener.CloseSubscription(first.ID()))

	pushTransaction(t, node, second.Topic(), transferTo(t, account.Address))
	received := receiveTransaction(t, second)
	assert.Equal(t, transaction.TypeTransfer, received.Header().Type)

	select {
	case req := <-node.requests:
		t.Fatalf("unexpected request %+v", req)
	default:
	}
}
