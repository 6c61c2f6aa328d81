// Package fixgateway is a FIX 4.4 order-entry front end for a
// multisymbol.Registry: NewOrderSingle/OrderCancelRequest/
// OrderCancelReplaceRequest become Submit/Cancel/Replace calls, and every
// resulting engine event is translated back into an ExecutionReport on
// the originating session.
package fixgateway

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/joripage/go_util/pkg/shardqueue"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/quickfixgo/tag"

	"lob/pkg/broadcast"
	"lob/pkg/logging"
	"lob/pkg/multisymbol"
)

const (
	numShards = 16
	queueSize = 1 << 16
)

// Application implements quickfix.Application, routing inbound order-entry
// messages to registry and execution reports back out. Inbound messages
// are sharded by symbol so per-symbol order preservation matches the
// single-threaded engine underneath, while distinct symbols process
// concurrently.
type Application struct {
	*quickfix.MessageRouter

	registry  *multisymbol.Registry
	orders    *orderTracker
	logger    *logging.Logger
	shard     *shardqueue.Shardqueue
	publisher *broadcast.Publisher
}

type inboundMsg struct {
	msg       *quickfix.Message
	sessionID quickfix.SessionID
}

// NewApplication constructs a gateway application over registry. publisher
// is optional: when set, every engine event is also fanned out to it
// (Kafka, Redis, WebSocket) alongside the FIX execution report it
// generates.
func NewApplication(registry *multisymbol.Registry, logger *logging.Logger, publisher *broadcast.Publisher) *Application {
	app := &Application{
		MessageRouter: quickfix.NewMessageRouter(),
		registry:      registry,
		orders:        newOrderTracker(),
		logger:        logger,
		publisher:     publisher,
	}

	app.AddRoute(newordersingle.Route(app.onNewOrderSingle))
	app.AddRoute(ordercancelrequest.Route(app.onOrderCancelRequest))
	app.AddRoute(ordercancelreplacerequest.Route(app.onOrderCancelReplaceRequest))

	app.shard = shardqueue.NewShardQueue(numShards, queueSize)
	app.shard.Start(func(m interface{}) error {
		if in, ok := m.(*inboundMsg); ok {
			return app.Route(in.msg, in.sessionID)
		}
		return nil
	})

	return app
}

// StartAcceptor reads quickfix settings from configPath and starts a FIX
// acceptor bound to app. Returns the acceptor so the caller controls its
// lifecycle (Stop on shutdown).
func StartAcceptor(configPath string, app *Application) (*quickfix.Acceptor, error) {
	cfgFile, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("fixgateway: open %s: %w", configPath, err)
	}
	defer cfgFile.Close()

	raw, err := io.ReadAll(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("fixgateway: read %s: %w", configPath, err)
	}

	settings, err := quickfix.ParseSettings(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("fixgateway: parse settings: %w", err)
	}

	logFactory, err := file.NewLogFactory(settings)
	if err != nil {
		return nil, fmt.Errorf("fixgateway: log factory: %w", err)
	}

	acceptor, err := quickfix.NewAcceptor(app, quickfix.NewMemoryStoreFactory(), settings, logFactory)
	if err != nil {
		return nil, fmt.Errorf("fixgateway: new acceptor: %w", err)
	}
	if err := acceptor.Start(); err != nil {
		return nil, fmt.Errorf("fixgateway: start acceptor: %w", err)
	}
	return acceptor, nil
}

func (a *Application) OnCreate(sessionID quickfix.SessionID)  {}
func (a *Application) OnLogon(sessionID quickfix.SessionID)   {}
func (a *Application) OnLogout(sessionID quickfix.SessionID)  {}
func (a *Application) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}

func (a *Application) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

func (a *Application) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

// FromApp shards every inbound application message by symbol (falling
// back to ClOrdID, then session) so that per-symbol message order is
// preserved without serializing distinct symbols behind one another.
func (a *Application) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	a.shard.Shard(routingKey(msg, sessionID), &inboundMsg{msg: msg, sessionID: sessionID})
	return nil
}

func routingKey(msg *quickfix.Message, sessionID quickfix.SessionID) string {
	if symbol, err := msg.Body.GetString(tag.Symbol); err == nil && symbol != "" {
		return symbol
	}
	if clOrdID, err := msg.Body.GetString(tag.ClOrdID); err == nil && clOrdID != "" {
		return clOrdID
	}
	return sessionID.String()
}
