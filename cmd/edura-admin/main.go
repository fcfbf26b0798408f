package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/aussiebroadwan/edura/internal/auth/admin"
	"github.com/aussiebroadwan/edura/internal/auth/app"
	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/pkg/cryptox"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "edura-admin:", err)
		if errors.Is(err, admin.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// JWT_KEY is not needed here, so only the storage settings matter.
	cfg, err := app.LoadConfig()
	if err != nil && !errors.Is(err, app.ErrMissingJWTKey) {
		return err
	}

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ApplyMigrations(); err != nil {
		return err
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return err
	}

	cli := &admin.CLI{
		Users:  &service.UserService{Store: st},
		Admins: &service.BootstrapService{Store: st, Hasher: cryptox.NewArgon2Hasher(pepper)},
		In:     os.Stdin,
		Out:    os.Stdout,
	}
	return cli.Run(ctx, os.Args[1:])
}
