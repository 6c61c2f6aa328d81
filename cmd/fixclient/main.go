package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	fix44nos "github.com/quickfixgo/fix44/newordersingle"
	fix44ocr "github.com/quickfixgo/fix44/ordercancelrequest"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/quickfix/log/file"
	"github.com/shopspring/decimal"
)

var (
	symbol     = flag.String("symbol", "BTC-USD", "symbol to send orders for")
	orderPairs = flag.Int("orders", 1000, "number of buy/sell pairs to send after logon")
)

// InitiatorApp drives a FIX session against a fixgateway acceptor: on
// logon it fires a batch of crossing buy/sell orders, then cancels one of
// them, to exercise NewOrderSingle/OrderCancelRequest end to end.
type InitiatorApp struct {
	sessionID *quickfix.SessionID
}

func (a *InitiatorApp) OnCreate(sessionID quickfix.SessionID) { a.sessionID = &sessionID }

func (a *InitiatorApp) OnLogon(sessionID quickfix.SessionID) {
	log.Println("logon success, sending order batch")
	go sendOrderBatch(sessionID)
}

func (a *InitiatorApp) OnLogout(sessionID quickfix.SessionID)                       {}
func (a *InitiatorApp) ToAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) {}
func (a *InitiatorApp) ToApp(msg *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}
func (a *InitiatorApp) FromAdmin(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}
func (a *InitiatorApp) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func sendOrderBatch(sessionID quickfix.SessionID) {
	start := time.Now()
	var lastBuyClOrdID string

	for i := 0; i < *orderPairs; i++ {
		lastBuyClOrdID = randSeq(17)
		buy := fix44nos.New(
			field.NewClOrdID(lastBuyClOrdID),
			field.NewSide(enum.Side_BUY),
			field.NewTransactTime(time.Now()),
			field.NewOrdType(enum.OrdType_LIMIT))
		buy.SetSymbol(*symbol)
		buy.SetAccount("LOADGEN")
		buy.SetPrice(decimal.NewFromInt(10000), 0)
		buy.SetOrderQty(decimal.NewFromInt(10), 0)
		buy.SetTimeInForce("0")
		buy.SetSenderCompID(sessionID.SenderCompID)
		buy.SetTargetCompID(sessionID.TargetCompID)
		if err := quickfix.Send(buy); err != nil {
			log.Println("send buy:", err)
		}

		sell := fix44nos.New(
			field.NewClOrdID(randSeq(17)),
			field.NewSide(enum.Side_SELL),
			field.NewTransactTime(time.Now()),
			field.NewOrdType(enum.OrdType_LIMIT))
		sell.SetSymbol(*symbol)
		sell.SetAccount("LOADGEN")
		sell.SetPrice(decimal.NewFromInt(10000), 0)
		sell.SetOrderQty(decimal.NewFromInt(10), 0)
		sell.SetTimeInForce("0")
		sell.SetSenderCompID(sessionID.SenderCompID)
		sell.SetTargetCompID(sessionID.TargetCompID)
		if err := quickfix.Send(sell); err != nil {
			log.Println("send sell:", err)
		}
	}

	elapsed := time.Since(start)
	log.Printf("sent %d order pairs in %s (%.0f orders/sec)", *orderPairs, elapsed, float64(2*(*orderPairs))/elapsed.Seconds())

	time.Sleep(2 * time.Second)
	cancel := fix44ocr.New(
		field.NewOrigClOrdID(lastBuyClOrdID),
		field.NewClOrdID(randSeq(17)),
		field.NewSide(enum.Side_BUY),
		field.NewTransactTime(time.Now()))
	cancel.SetSymbol(*symbol)
	cancel.SetOrderQty(decimal.NewFromInt(10), 0)
	cancel.SetSenderCompID(sessionID.SenderCompID)
	cancel.SetTargetCompID(sessionID.TargetCompID)
	if err := quickfix.Send(cancel); err != nil {
		log.Println("send cancel:", err)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: fixclient [-symbol=SYM] [-orders=N] <quickfix-settings-file>")
	}
	cfgPath := flag.Arg(0)

	app := &InitiatorApp{}

	cfg, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cfg.Close()

	settings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		log.Fatal(err)
	}

	storeFactory := quickfix.NewMemoryStoreFactory()
	logFactory, err := file.NewLogFactory(settings)
	if err != nil {
		log.Fatal(err)
	}
	initiator, err := quickfix.NewInitiator(app, storeFactory, settings, logFactory)
	if err != nil {
		log.Fatal(err)
	}
	if err := initiator.Start(); err != nil {
		log.Fatal(err)
	}
	log.Println("initiator started")
	select {}
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func randSeq(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
