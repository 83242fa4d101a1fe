// Command devbackend serves the Skin Analyze REST API from a local JSON file
// for development and demos. Analyses are canned.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skinanalyze/internal/api"
	"skinanalyze/internal/files"
	"skinanalyze/internal/utils"
)

const envMasterKey = "MASTER_KEY_HEX"

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	dataFile := flag.String("data", "devbackend.json", "JSON data file")
	keyFile := flag.String("key", "master.key", "hex signing key, used when "+envMasterKey+" is unset")
	seed := flag.Bool("seed", true, "load fixture patients and reports into an empty data file")
	ttl := flag.Duration("token-ttl", api.DefaultTokenTTL, "access token lifetime")
	maxUpload := flag.Int64("max-upload", api.DefaultMaxUploadBytes, "largest accepted image in bytes")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFile := flag.String("log-file", "", "log to this file instead of stderr")
	flag.Parse()

	level, err := utils.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	logger, err := utils.NewLogger(*logFile, level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := serve(logger, *addr, *dataFile, *keyFile, *seed, *ttl, *maxUpload); err != nil {
		logger.Error("devbackend stopped", "error", err)
		logger.Close()
		os.Exit(1)
	}
}

func serve(logger *utils.Logger, addr, dataFile, keyFile string, seed bool, ttl time.Duration, maxUpload int64) error {
	key, err := files.ReadMasterKey(envMasterKey, keyFile)
	if err != nil {
		return fmt.Errorf("signing key: %w (run genmasterkey first)", err)
	}
	tokens, err := api.NewTokens(key, ttl)
	if err != nil {
		return err
	}
	db, err := files.Open(dataFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", dataFile, err)
	}
	if seed {
		if err := db.Seed(); err != nil {
			return fmt.Errorf("seed %s: %w", dataFile, err)
		}
	}

	server := api.NewServer(db, tokens, api.WithLogger(logger), api.WithMaxUpload(maxUpload))
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("devbackend listening", "addr", addr, "data", dataFile)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
