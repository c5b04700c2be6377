package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/medverify/provider-verification-backend/internal/domain/region"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/cache"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
	"github.com/medverify/provider-verification-backend/internal/service/licensing"
	"github.com/medverify/provider-verification-backend/internal/service/verification"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var (
		configPath   = fs.String("config", "", "path to yaml config file")
		regionFlag   = fs.String("region", "", "verification region (usa or india); overrides config")
		identifier   = fs.String("identifier", "", "provider identifier (NPI or NMR ID)")
		licensesFlag = fs.String("licenses", "", "comma-separated licenses as NUMBER:REGION")
		firstName    = fs.String("first-name", "", "provider first name")
		lastName     = fs.String("last-name", "", "provider last name")
		specialty    = fs.String("specialty", "", "provider specialty")
		address      = fs.String("address", "", "practice street address")
		city         = fs.String("city", "", "practice city")
		state        = fs.String("state", "", "practice state")
		zipCode      = fs.String("zip", "", "practice zip or PIN code")
		phone        = fs.String("phone", "", "practice phone number")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *identifier == "" {
		return fmt.Errorf("-identifier is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	regionTag := cfg.Region
	if *regionFlag != "" {
		regionTag = *regionFlag
	}
	r, err := region.FromString(regionTag)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	c, err := cache.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer c.Close()

	svcs, err := verification.NewServices(r, c, cfg, logger)
	if err != nil {
		return err
	}
	svc := verification.NewService(r, svcs, logger)

	licenses, err := parseLicenses(*licensesFlag, strings.TrimSpace(*firstName+" "+*lastName))
	if err != nil {
		return err
	}

	result, err := svc.VerifyProvider(ctx, verification.VerificationRequest{
		Provider: verification.ProviderData{
			Identifier: *identifier,
			FirstName:  *firstName,
			LastName:   *lastName,
			Specialty:  *specialty,
			Address:    *address,
			City:       *city,
			State:      *state,
			ZipCode:    *zipCode,
			Phone:      *phone,
		},
		Licenses: licenses,
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// parseLicenses splits "NUMBER:REGION,NUMBER:REGION" into queries, all
// carrying the supplied provider name for matching.
func parseLicenses(raw, providerName string) ([]licensing.LicenseQuery, error) {
	if raw == "" {
		return nil, nil
	}
	var queries []licensing.LicenseQuery
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid license %q, expected NUMBER:REGION", entry)
		}
		queries = append(queries, licensing.LicenseQuery{
			Number:       parts[0],
			Region:       parts[1],
			ProviderName: providerName,
		})
	}
	return queries, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
