// Package listener implements the websocket subscription client of a
// catapult REST node. The node assigns every connection a uid during the
// handshake; topics are subscribed per uid and delivered as (topic, data)
// envelopes.
package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid"
	"golang.org/x/sync/errgroup"

	"github.com/catapulthq/catapult-sdk/pkg/codec"
	"github.com/catapulthq/catapult-sdk/pkg/dto"
	"github.com/catapulthq/catapult-sdk/pkg/log"
	"github.com/catapulthq/catapult-sdk/pkg/model"
	"github.com/catapulthq/catapult-sdk/pkg/transaction"
)

// Channel names a notification stream served by the node.
type Channel string

const (
	ChannelConfirmedAdded   Channel = "confirmedAdded"
	ChannelUnconfirmedAdded Channel = "unconfirmedAdded"
	ChannelPartialAdded     Channel = "partialAdded"
	ChannelCosignature      Channel = "cosignature"
	ChannelStatus           Channel = "status"
)

var (
	ErrClosed    = errors.New("listener is closed")
	ErrHandshake = errors.New("handshake with the node failed")

	idEntropy = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func newSubscriptionID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}

type handshake struct {
	UID string `json:"uid"`
}

type envelope struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

type subscribeRequest struct {
	UID         string `json:"uid"`
	Subscribe   string `json:"subscribe,omitempty"`
	Unsubscribe string `json:"unsubscribe,omitempty"`
}

// TransactionStatus is the node's rejection notice for an announced
// transaction.
type TransactionStatus struct {
	Hash     codec.Hex       `json:"hash"`
	Code     string          `json:"code"`
	Deadline codec.UInt64Str `json:"deadline"`
}

// TransactionSubscription delivers the typed transactions of one channel
// which concern one account, directly or through one of its namespace
// aliases.
type TransactionSubscription struct {
	id      string
	topic   string
	address model.Address
	aliases []model.NamespaceID
	out     chan transaction.Transaction
}

func (s *TransactionSubscription) ID() string    { return s.id }
func (s *TransactionSubscription) Topic() string { return s.topic }

// Transactions is the delivery channel. It is closed when the subscription
// or the listener closes.
func (s *TransactionSubscription) Transactions() <-chan transaction.Transaction { return s.out }

// CosignatureSubscription delivers detached cosignatures added to partial
// aggregates.
type CosignatureSubscription struct {
	id  string
	out chan *transaction.CosignatureSignedTransaction
}

func (s *CosignatureSubscription) ID() string { return s.id }

func (s *CosignatureSubscription) Cosignatures() <-chan *transaction.CosignatureSignedTransaction {
	return s.out
}

// StatusSubscription delivers error statuses for transactions announced by
// one account.
type StatusSubscription struct {
	id    string
	topic string
	out   chan *TransactionStatus
}

func (s *StatusSubscription) ID() string { return s.id }

func (s *StatusSubscription) Statuses() <-chan *TransactionStatus { return s.out }

// Listener is a websocket client of one node. All subscriptions share the
// single connection; one goroutine reads frames, another dispatches them.
type Listener struct {
	logger log.Logger
	conn   *websocket.Conn
	uid    string

	mu           sync.RWMutex
	transactions map[string]*TransactionSubscription
	cosignatures map[string]*CosignatureSubscription
	statuses     map[string]*StatusSubscription

	writeMu   sync.Mutex
	incoming  chan envelope
	group     *errgroup.Group
	closed    chan struct{}
	closeOnce sync.Once
}

// Dial connects to a node's websocket endpoint and performs the uid
// handshake.
func Dial(ctx context.Context, endpoint string, logger log.Logger) (*Listener, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	welcome := handshake{}
	if err := conn.ReadJSON(&welcome); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	if welcome.UID == "" {
		conn.Close()
		return nil, fmt.Errorf("%w: node sent no uid", ErrHandshake)
	}
	listener := &Listener{
		logger:       logger,
		conn:         conn,
		uid:          welcome.UID,
		transactions: make(map[string]*TransactionSubscription),
		cosignatures: make(map[string]*CosignatureSubscription),
		statuses:     make(map[string]*StatusSubscription),
		incoming:     make(chan envelope, 1),
		closed:       make(chan struct{}),
	}
	group, _ := errgroup.WithContext(ctx)
	group.Go(listener.read)
	group.Go(listener.dispatch)
	listener.group = group
	return listener, nil
}

// UID returns the connection id assigned by the node.
func (l *Listener) UID() string {
	return l.uid
}

// ConfirmedAdded subscribes to transactions confirmed for the address.
func (l *Listener) ConfirmedAdded(address model.Address, aliases ...model.NamespaceID) (*TransactionSubscription, error) {
	return l.subscribeTransactions(ChannelConfirmedAdded, address, aliases)
}

// UnconfirmedAdded subscribes to transactions entering the unconfirmed cache
// for the address.
func (l *Listener) UnconfirmedAdded(address model.Address, aliases ...model.NamespaceID) (*TransactionSubscription, error) {
	return l.subscribeTransactions(ChannelUnconfirmedAdded, address, aliases)
}

// PartialAdded subscribes to bonded aggregates awaiting cosignatures which
// involve the address.
func (l *Listener) PartialAdded(address model.Address, aliases ...model.NamespaceID) (*TransactionSubscription, error) {
	return l.subscribeTransactions(ChannelPartialAdded, address, aliases)
}

func (l *Listener) subscribeTransactions(channel Channel, address model.Address, aliases []model.NamespaceID) (*TransactionSubscription, error) {
	sub := &TransactionSubscription{
		id:      newSubscriptionID(),
		topic:   fmt.Sprintf("%s/%s", channel, address.Plain()),
		address: address,
		aliases: aliases,
		out:     make(chan transaction.Transaction, 16),
	}
	l.mu.Lock()
	l.transactions[sub.id] = sub
	l.mu.Unlock()
	if err := l.send(subscribeRequest{UID: l.uid, Subscribe: sub.topic}); err != nil {
		l.mu.Lock()
		delete(l.transactions, sub.id)
		l.mu.Unlock()
		return nil, err
	}
	return sub, nil
}

// Cosignatures subscribes to detached cosignatures of partial aggregates.
func (l *Listener) Cosignatures() (*CosignatureSubscription, error) {
	sub := &CosignatureSubscription{
		id:  newSubscriptionID(),
		out: make(chan *transaction.CosignatureSignedTransaction, 16),
	}
	l.mu.Lock()
	l.cosignatures[sub.id] = sub
	l.mu.Unlock()
	if err := l.send(subscribeRequest{UID: l.uid, Subscribe: string(ChannelCosignature)}); err != nil {
		l.mu.Lock()
		delete(l.cosignatures, sub.id)
		l.mu.Unlock()
		return nil, err
	}
	return sub, nil
}

// Status subscribes to rejection notices for transactions announced by the
// address.
func (l *Listener) Status(address model.Address) (*StatusSubscription, error) {
	sub := &StatusSubscription{
		id:    newSubscriptionID(),
		topic: fmt.Sprintf("%s/%s", ChannelStatus, address.Plain()),
		out:   make(chan *TransactionStatus, 16),
	}
	l.mu.Lock()
	l.statuses[sub.id] = sub
	l.mu.Unlock()
	if err := l.send(subscribeRequest{UID: l.uid, Subscribe: sub.topic}); err != nil {
		l.mu.Lock()
		delete(l.statuses, sub.id)
		l.mu.Unlock()
		return nil, err
	}
	return sub, nil
}

// CloseSubscription removes a subscription by id and closes its channel. The
// topic is unsubscribed from the node once no other subscription uses it.
func (l *Listener) CloseSubscription(id string) error {
	l.mu.Lock()
	topic := ""
	if sub, exist := l.transactions[id]; exist {
		topic = sub.topic
		delete(l.transactions, id)
		close(sub.out)
	} else if sub, exist := l.cosignatures[id]; exist {
		topic = string(ChannelCosignature)
		delete(l.cosignatures, id)
		close(sub.out)
	} else if sub, exist := l.statuses[id]; exist {
		topic = sub.topic
		delete(l.statuses, id)
		close(sub.out)
	} else {
		l.mu.Unlock()
		return fmt.Errorf("unknown subscription %s", id)
	}
	inUse := false
	for _, sub := range l.transactions {
		if sub.topic == topic {
			inUse = true
		}
	}
	if topic == string(ChannelCosignature) && len(l.cosignatures) > 0 {
		inUse = true
	}
	for _, sub := range l.statuses {
		if sub.topic == topic {
			inUse = true
		}
	}
	l.mu.Unlock()
	if inUse {
		return nil
	}
	return l.send(subscribeRequest{UID: l.uid, Unsubscribe: topic})
}

// Close tears down the connection and closes every subscription channel.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.closed)
		err = l.conn.Close()
		_ = l.group.Wait()
		l.mu.Lock()
		for id, sub := range l.transactions {
			close(sub.out)
			delete(l.transactions, id)
		}
		for id, sub := range l.cosignatures {
			close(sub.out)
			delete(l.cosignatures, id)
		}
		for id, sub := range l.statuses {
			close(sub.out)
			delete(l.statuses, id)
		}
		l.mu.Unlock()
	})
	return err
}

func (l *Listener) send(req subscribeRequest) error {
	select {
	case <-l.closed:
		return ErrClosed
	default:
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if err := l.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("write subscription request: %w", err)
	}
	return nil
}

func (l *Listener) read() error {
	defer close(l.incoming)
	for {
		_, data, err := l.conn.ReadMessage()
		if err != nil {
			select {
			case <-l.closed:
				return nil
			default:
			}
			l.logger.Errorf("Fail to read message with %s", err)
			return err
		}
		msg := envelope{}
		if err := json.Unmarshal(data, &msg); err != nil {
			l.logger.Errorf("Fail to unmarshal message with %s", err)
			continue
		}
		if msg.Topic == "" {
			continue
		}
		l.incoming <- msg
	}
}

func (l *Listener) dispatch() error {
	for msg := range l.incoming {
		channel := Channel(msg.Topic)
		if i := strings.IndexByte(msg.Topic, '/'); i >= 0 {
			channel = Channel(msg.Topic[:i])
		}
		switch channel {
		case ChannelConfirmedAdded, ChannelUnconfirmedAdded, ChannelPartialAdded:
			l.dispatchTransaction(msg)
		case ChannelCosignature:
			l.dispatchCosignature(msg)
		case ChannelStatus:
			l.dispatchStatus(msg)
		default:
			l.logger.Debugf("Ignoring message on unknown channel %s", msg.Topic)
		}
	}
	return nil
}

func (l *Listener) dispatchTransaction(msg envelope) {
	tx, err := dto.FromJSON(msg.Data)
	if err != nil {
		l.logger.Errorf("Fail to map transaction on %s with %s", msg.Topic, err)
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sub := range l.transactions {
		if sub.topic != msg.Topic {
			continue
		}
		if !tx.ShouldNotifyAccount(sub.address, sub.aliases) {
			continue
		}
		select {
		case sub.out <- tx:
		default:
			l.logger.Warningf("Dropping transaction for slow subscription %s", sub.id)
		}
	}
}

func (l *Listener) dispatchCosignature(msg envelope) {
	cosignature := &transaction.CosignatureSignedTransaction{}
	if err := json.Unmarshal(msg.Data, cosignature); err != nil {
		l.logger.Errorf("Fail to unmarshal cosignature with %s", err)
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sub := range l.cosignatures {
		select {
		case sub.out <- cosignature:
		default:
			l.logger.Warningf("Dropping cosignature for slow subscription %s", sub.id)
		}
	}
}

func (l *Listener) dispatchStatus(msg envelope) {
	status := &TransactionStatus{}
	if err := json.Unmarshal(msg.Data, status); err != nil {
		l.logger.Errorf("Fail to unmarshal status with %s", err)
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sub := range l.statuses {
		if sub.topic != msg.Topic {
			continue
		}
		select {
		case sub.out <- status:
		default:
			l.logger.Warningf("Dropping status for slow subscription %s", sub.id)
		}
	}
}
