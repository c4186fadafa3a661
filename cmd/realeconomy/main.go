package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pandory-network/RealEconomy/banking"
	"github.com/pandory-network/RealEconomy/broker"
	"github.com/pandory-network/RealEconomy/config"
	"github.com/pandory-network/RealEconomy/events"
	"github.com/pandory-network/RealEconomy/libs/num"
	"github.com/pandory-network/RealEconomy/logging"
	"github.com/pandory-network/RealEconomy/matching"
	"github.com/pandory-network/RealEconomy/storage"
	"github.com/pandory-network/RealEconomy/trading"
	"github.com/pandory-network/RealEconomy/types"
)

var (
	configPath string
	homeDir    string
)

func main() {
	root := &cobra.Command{
		Use:   "realeconomy",
		Short: "In-process virtual economy: ledgers, central bank, order matching",
	}
	root.PersistentFlags().StringVar(&homeDir, "home", ".realeconomy", "working directory for store and config")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	root.AddCommand(initCmd(), runCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file into the home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(homeDir, 0o700); err != nil {
				return err
			}
			return config.Write(defaultConfigPath(), config.NewDefaultConfig(homeDir))
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the economy engine and recover persisted orders",
		RunE:  run,
	}
}

func defaultConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return homeDir + "/config.toml"
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Read(defaultConfigPath(), homeDir)
	if err != nil {
		cfg = config.NewDefaultConfig(homeDir)
	}

	log := logging.NewLoggerFromEnv(cfg.Logging.Environment)
	defer log.AtExit()

	store, err := storage.New(log, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := banking.NewRegistry()
	base := registry.Register(types.Currency{ID: uuid.New(), Code: cfg.BaseCurrencyCode})
	central := banking.NewCentralBank(
		log, uuid.New(), uuid.New(),
		registry, banking.NewTransactionHandler(num.DecimalZero()),
		banking.CentralIssuer{
			Base:       base.ID,
			MinCapital: num.MustDecimalFromString("-1000000000"),
			MaxCapital: num.MustDecimalFromString("1000000000"),
		},
	)
	central.UseStore(store)

	bkr := broker.New(log, cfg.Broker)
	defer bkr.Close()
	bkr.Subscribe(newNotificationLogger(log))

	books := matching.New(log, cfg.Matching)
	banks := newBankDirectory(central)
	engine := trading.New(log, cfg.Trading, books, banks, trading.NewMemoryInventory(), bkr, store)

	recovered, err := store.ListOrders()
	if err != nil {
		return err
	}
	engine.Recover(recovered)
	log.Info("engine ready",
		logging.UUID("base-currency", base.ID),
		logging.Int("recovered-orders", len(recovered)),
		logging.String("store", cfg.Storage.Dir))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	return nil
}

// bankDirectory resolves accounts across every bank registered with the
// process.
type bankDirectory struct {
	banks []*banking.Bank
}

func newBankDirectory(banks ...*banking.Bank) *bankDirectory {
	return &bankDirectory{banks: banks}
}

func (d *bankDirectory) Account(id uuid.UUID) (*banking.Account, bool) {
	for _, b := range d.banks {
		if a, ok := b.Account(id); ok {
			return a, true
		}
	}
	return nil, false
}

// notificationLogger prints settlement outcomes at info level.
type notificationLogger struct {
	id  int
	log *logging.Logger
}

func newNotificationLogger(log *logging.Logger) *notificationLogger {
	return &notificationLogger{log: log.Named("notifications")}
}

func (n *notificationLogger) Push(evts ...events.Event) {
	for _, e := range evts {
		s, ok := e.(*events.Settlement)
		if !ok {
			continue
		}
		msg := s.Notification()
		n.log.Info("settlement outcome",
			logging.UUID("recipient", s.Recipient()),
			logging.OrderID(msg.OrderID),
			logging.String("signature", msg.Signature.String()),
			logging.Decimal("price", msg.Price),
			logging.Int64("quantity", msg.Quantity),
			logging.String("outcome", msg.Outcome.String()))
	}
}

func (n *notificationLogger) Types() []events.Type {
	return []events.Type{events.SettlementEvent}
}

func (n *notificationLogger) SetID(id int) { n.id = id }
func (n *notificationLogger) ID() int      { return n.id }
