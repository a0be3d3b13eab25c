package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"gofalre.io/storefront"
	"gofalre.io/storefront/auth"
	"gofalre.io/storefront/checkout"
	"gofalre.io/storefront/config"
	"gofalre.io/storefront/driver"
	"gofalre.io/storefront/local"
	"gofalre.io/storefront/logger"
	"gofalre.io/storefront/models"
	"gofalre.io/storefront/user"
)

const usage = `usage: cartctl <command> [flags]

commands:
  show       print the cart and its totals
  add        add an item (-id -item-name -price -qty)
  remove     remove an item (-id)
  set        set an item's quantity (-id -qty)
  clear      empty the cart
  checkout   print the chat link for the order
  watch      follow auth changes until interrupted

every command accepts -uid, -email and -name to act as a signed-in shopper`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{Service: "cartctl", Env: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

type shopperFlags struct {
	uid, email, name string
}

func (f *shopperFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.uid, "uid", "", "signed-in user id; empty means anonymous")
	fs.StringVar(&f.email, "email", "", "signed-in user email")
	fs.StringVar(&f.name, "name", "", "signed-in user display name")
}

func (f *shopperFlags) state() models.AuthState {
	return models.AuthState{UserID: f.uid, Email: f.email, DisplayName: f.name}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger, cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	var shopper shopperFlags
	shopper.register(fs)

	var (
		item models.CartItem
		qty  int
	)
	switch cmd {
	case "add":
		fs.StringVar(&item.ID, "id", "", "item id")
		fs.StringVar(&item.Name, "item-name", "", "item name")
		fs.Float64Var(&item.Price, "price", 0, "unit price")
		fs.StringVar(&item.Image, "image", "", "image url")
		fs.StringVar(&item.Category, "category", "", "category")
		fs.IntVar(&qty, "qty", 1, "quantity to add")
	case "remove":
		fs.StringVar(&item.ID, "id", "", "item id")
	case "set":
		fs.StringVar(&item.ID, "id", "", "item id")
		fs.IntVar(&qty, "qty", 1, "new quantity; 0 removes the item")
	case "show", "clear", "checkout", "watch":
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log, cmd == "watch", shopper.state())
	if err != nil {
		return err
	}
	defer a.close()

	svc := a.svc
	svc.Load(ctx)

	switch cmd {
	case "show":
	case "add":
		if err := svc.AddItem(ctx, item, qty); err != nil {
			return err
		}
	case "remove":
		if err := svc.RemoveItem(ctx, item.ID); err != nil {
			return err
		}
	case "set":
		if err := svc.SetQuantity(ctx, item.ID, qty); err != nil {
			return err
		}
	case "clear":
		if err := svc.Clear(ctx); err != nil {
			return err
		}
	case "checkout":
		link, err := svc.CheckoutLink(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, link)
		return nil
	case "watch":
		if err := svc.Start(ctx); err != nil {
			return err
		}
		log.Info("Watching auth changes", zap.String("subject", cfg.AuthSubject))
		<-ctx.Done()
		svc.Close()
	}

	return printCart(out, svc, a.formatter)
}

func printCart(out io.Writer, svc storefront.Service, f checkout.PriceFormatter) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "cart (%s)\n", svc.Backend())
	for _, it := range svc.Items() {
		fmt.Fprintf(tw, "%s\t%s\tx%d\t%s\n", it.ID, it.Name, it.Quantity, f.Format(it.Price*float64(it.Quantity)))
	}

	t := svc.Totals()
	fmt.Fprintf(tw, "items\t%d\n", t.ItemCount)
	fmt.Fprintf(tw, "subtotal\t%s\n", f.Format(t.Subtotal))
	if t.FreeShipping() {
		fmt.Fprintln(tw, "shipping\tFREE")
	} else {
		fmt.Fprintf(tw, "shipping\t%s\n", f.Format(t.Shipping))
	}
	fmt.Fprintf(tw, "tax\t%s\n", f.Format(t.Tax))
	fmt.Fprintf(tw, "total\t%s\n", f.Format(t.Total))
	return tw.Flush()
}

// app holds the service and every connection it was built on.
type app struct {
	svc       storefront.Service
	formatter checkout.PriceFormatter
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger, watch bool, state models.AuthState) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	rdb, err := driver.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	localStore := local.NewStore(rdb, local.Key(cfg.LocalCartKey, cfg.DeviceID), log)

	var fb *driver.Firebase
	if cfg.RemoteBackend == config.BackendFirestore || cfg.VerifyIDTokens {
		fb, err = driver.ConnectFirebase(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = fb.Close() })
	}

	var remote user.Repository
	switch cfg.RemoteBackend {
	case config.BackendFirestore:
		remote = user.NewFirestoreRepository(fb.Firestore, log)
	default:
		db, err := driver.ConnectSQL(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, db.Pool.Close)
		if err := user.CreateSchema(ctx, db.Pool); err != nil {
			return nil, err
		}
		remote = user.NewPostgresRepository(db.Pool, log)
	}

	var sig auth.Signal
	if watch {
		nc, err := driver.ConnectNATS(cfg.NATSURL, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, nc.Close)

		var verifier auth.IDTokenVerifier
		if cfg.VerifyIDTokens {
			if fb.Auth == nil {
				return nil, errors.New("id token verification requested but firebase auth is unavailable")
			}
			verifier = auth.NewFirebaseVerifier(fb.Auth)
		}
		sig = auth.NewNATSSignal(nc, cfg.AuthSubject, verifier, log)
	}

	formatter, err := checkout.NewFormatter(cfg.Currency, language.English)
	if err != nil {
		return nil, err
	}
	a.formatter = formatter

	svc, err := storefront.NewService(localStore, remote, sig, log,
		storefront.WithAuthState(state),
		storefront.WithFormatter(formatter),
		storefront.WithChatNumber(cfg.WhatsAppNumber),
	)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return a, nil
}
