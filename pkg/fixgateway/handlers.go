package fixgateway

import (
	"context"
	"sync/atomic"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/fix44/ordercancelreplacerequest"
	"github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"go.uber.org/zap"

	"lob/pkg/lob"
)

var nextOrderID uint64

// newOrderID hands out venue-unique OrderIDs for inbound FIX orders. The
// engine never generates its own; it only ever sees IDs assigned here.
func newOrderID() lob.OrderID {
	return lob.OrderID(atomic.AddUint64(&nextOrderID, 1))
}

func sideFromFIX(side enum.Side) lob.Side {
	if side == enum.Side_SELL {
		return lob.Sell
	}
	return lob.Buy
}

func orderTypeFromFIX(ordType enum.OrdType, tif enum.TimeInForce) lob.OrderType {
	if ordType == enum.OrdType_MARKET {
		return lob.Market
	}
	switch tif {
	case enum.TimeInForce_IMMEDIATE_OR_CANCEL:
		return lob.IOC
	case enum.TimeInForce_FILL_OR_KILL:
		return lob.FOK
	default:
		return lob.Limit
	}
}

func (a *Application) onNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	symbol, _ := msg.GetSymbol()
	side, _ := msg.GetSide()
	ordType, _ := msg.GetOrdType()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()
	tif, _ := msg.GetTimeInForce()

	engine, ok := a.registry.Engine(symbol)
	if !ok {
		a.logger.Warn(context.Background(), "fixgateway: new order on unknown symbol", zap.String("symbol", symbol))
		return nil
	}

	id := newOrderID()
	lobSide := sideFromFIX(side)
	order := lob.Order{
		ID:    id,
		Side:  lobSide,
		Price: lob.PriceFromDecimal(price, engine.Config().TickSize),
		Qty:   uint64(orderQty.IntPart()),
		Type:  orderTypeFromFIX(ordType, tif),
	}

	a.orders.add(id, trackedOrder{sessionID: sessionID, clOrdID: clOrdID, symbol: symbol, side: lobSide})
	a.registry.Submit(symbol, order)
	a.drainAndReport(symbol)
	return nil
}

func (a *Application) onOrderCancelRequest(msg ordercancelrequest.OrderCancelRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	symbol, _ := msg.GetSymbol()

	origClOrdID, _ := msg.GetOrigClOrdID()
	id, ok := a.orders.byClOrdID(origClOrdID)
	if !ok {
		return nil
	}

	a.registry.Cancel(symbol, id)
	a.drainAndReport(symbol)
	return nil
}

func (a *Application) onOrderCancelReplaceRequest(msg ordercancelreplacerequest.OrderCancelReplaceRequest, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	symbol, _ := msg.GetSymbol()
	origClOrdID, _ := msg.GetOrigClOrdID()
	clOrdID, _ := msg.GetClOrdID()
	price, _ := msg.GetPrice()
	orderQty, _ := msg.GetOrderQty()

	id, ok := a.orders.byClOrdID(origClOrdID)
	if !ok {
		return nil
	}

	engine, ok := a.registry.Engine(symbol)
	if !ok {
		return nil
	}

	newPrice := lob.PriceFromDecimal(price, engine.Config().TickSize)
	if a.registry.Replace(symbol, id, newPrice, uint64(orderQty.IntPart())) {
		a.orders.updateClOrdID(id, clOrdID)
	}
	a.drainAndReport(symbol)
	return nil
}
