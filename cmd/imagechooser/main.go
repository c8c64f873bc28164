package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	imagechooser "github.com/goliatone/go-imagechooser"
	"github.com/goliatone/go-imagechooser/pkg/config"
	"github.com/goliatone/go-imagechooser/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, newSurveyPicker()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "imagechooser: %v\n", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	configPath  string
	catalog     string
	image       string
	logLevel    string
	interactive bool
	serve       string
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("imagechooser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.catalog, "catalog", "", "YAML image catalog (overrides config)")
	fs.StringVar(&opts.image, "image", "", "id of the chosen image (empty renders a blank chooser)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	fs.BoolVar(&opts.interactive, "interactive", false, "pick the image from the catalog interactively")
	fs.StringVar(&opts.serve, "serve", "", "serve a preview page on this address instead of printing")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, picker ImagePicker) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(nil, zerolog.Nop())
	if opts.catalog != "" {
		cfg.Catalog = opts.catalog
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Output: stderr, Console: true})

	repo, err := imagechooser.LoadRepository(cfg)
	if err != nil {
		return err
	}
	kit, err := imagechooser.New(cfg, repo, imagechooser.WithLogger(logger))
	if err != nil {
		return err
	}

	if opts.serve != "" {
		return serve(ctx, kit, opts.serve, logging.WithComponent(logger, "http"))
	}

	value := strings.TrimSpace(opts.image)
	if opts.interactive {
		list, err := repo.List(ctx)
		if err != nil {
			return err
		}
		chosen, err := picker.Pick(ctx, list)
		if err != nil {
			return err
		}
		value = chosen.ID
	}
	return render(ctx, kit, value, stdout)
}

func render(ctx context.Context, kit *imagechooser.Kit, value string, out io.Writer) error {
	html, err := kit.Render(ctx, fieldName, value, map[string]string{"id": fieldID})
	if err != nil {
		return err
	}
	payload, adapterMedia, err := kit.Pack(ctx, kit.Chooser)
	if err != nil {
		return err
	}

	sections := []struct {
		title string
		body  string
	}{
		{"widget", html},
		{"media", kit.Media().Merge(adapterMedia).Render()},
		{"telepath", string(payload)},
	}
	for _, section := range sections {
		if _, err := fmt.Fprintf(out, "== %s ==\n%s\n\n", section.title, section.body); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context, kit *imagechooser.Kit, addr string, logger zerolog.Logger) error {
	handler, err := newRouter(kit, logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("serving chooser preview")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
