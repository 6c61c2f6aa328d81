package fixgateway

import (
	"context"
	"sync"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lob/pkg/broadcast"
	"lob/pkg/lob"
)

// execReportPool recycles quickfix.Message values across execution
// reports so a busy symbol does not allocate one per fill.
var execReportPool = sync.Pool{
	New: func() any {
		m := quickfix.NewMessage()
		resetExecReport(m)
		return m
	},
}

func resetExecReport(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
}

func getExecReportMsg() *quickfix.Message {
	m := execReportPool.Get().(*quickfix.Message)
	resetExecReport(m)
	return m
}

func putExecReportMsg(m *quickfix.Message) {
	resetExecReport(m)
	execReportPool.Put(m)
}

// drainAndReport polls every pending event for symbol and turns each one
// into an execution report on the originating session. It runs
// synchronously on the shard-queue goroutine handling symbol, so reports
// are sent in the same order the engine produced the underlying events.
func (a *Application) drainAndReport(symbol string) {
	engine, ok := a.registry.Engine(symbol)
	if !ok {
		return
	}

	var buf [64]lob.Event
	events, _, ok := a.registry.PollEvents(symbol, buf[:0])
	if !ok {
		return
	}

	tickSize := engine.Config().TickSize
	for _, ev := range events {
		a.reportEvent(symbol, tickSize, ev)
		if a.publisher != nil {
			a.publisher.Publish(context.Background(), symbol, broadcast.ToEventMessage(symbol, ev))
		}
	}
}

func (a *Application) reportEvent(symbol string, tickSize decimal.Decimal, ev lob.Event) {
	switch ev.Type {
	case lob.EventAccept:
		a.sendReport(symbol, tickSize, ev.OrderID, enum.ExecType_NEW, enum.OrdStatus_NEW, 0, 0, lob.InvalidPrice)
	case lob.EventReject:
		a.sendReport(symbol, tickSize, ev.OrderID, enum.ExecType_REJECTED, enum.OrdStatus_REJECTED, 0, 0, lob.InvalidPrice)
		a.orders.remove(ev.OrderID)
	case lob.EventCancel:
		a.sendReport(symbol, tickSize, ev.OrderID, enum.ExecType_CANCELED, enum.OrdStatus_CANCELED, 0, ev.RemainingQty, lob.InvalidPrice)
		a.orders.remove(ev.OrderID)
	case lob.EventReplace:
		a.sendReport(symbol, tickSize, ev.OrderID, enum.ExecType_REPLACED, enum.OrdStatus_REPLACED, 0, ev.NewQty, ev.NewPrice)
	case lob.EventTrade:
		a.sendReport(symbol, tickSize, ev.TakerID, enum.ExecType_TRADE, enum.OrdStatus_PARTIALLY_FILLED, ev.Qty, 0, ev.Price)
		a.sendReport(symbol, tickSize, ev.MakerID, enum.ExecType_TRADE, enum.OrdStatus_PARTIALLY_FILLED, ev.Qty, 0, ev.Price)
	case lob.EventBookTop:
		// no single order to report against.
	}
}

func (a *Application) sendReport(
	symbol string, tickSize decimal.Decimal, id lob.OrderID,
	execType enum.ExecType, ordStatus enum.OrdStatus,
	lastQty uint64, leavesQty uint64, price lob.Price,
) {
	info, ok := a.orders.get(id)
	if !ok {
		return
	}

	msg := getExecReportMsg()
	report := executionreport.FromMessage(msg)

	report.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	report.SetOrderID(orderIDString(id))
	report.SetExecID(orderIDString(id))
	report.SetExecType(execType)
	report.SetOrdStatus(ordStatus)
	report.SetSide(sideToFIX(info.side))
	report.SetSymbol(symbol)
	report.SetClOrdID(info.clOrdID)
	report.SetLeavesQty(decimal.NewFromInt(int64(leavesQty)), 0)
	report.SetCumQty(decimal.NewFromInt(int64(lastQty)), 0)
	if lastQty > 0 {
		report.SetLastQty(decimal.NewFromInt(int64(lastQty)), 0)
	}
	if price.Valid() {
		report.SetLastPx(price.ToDecimal(tickSize), 0)
		report.SetPrice(price.ToDecimal(tickSize), 0)
	}

	if err := quickfix.SendToTarget(report, info.sessionID); err != nil {
		a.logger.Warn(context.Background(), "fixgateway: send execution report failed",
			zap.String("symbol", symbol), zap.Error(err))
	}
	putExecReportMsg(msg)
}

func sideToFIX(side lob.Side) enum.Side {
	if side == lob.Sell {
		return enum.Side_SELL
	}
	return enum.Side_BUY
}

func orderIDString(id lob.OrderID) string {
	return decimal.NewFromInt(int64(id)).String()
}
