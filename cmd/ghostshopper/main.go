package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/browser"
	internalcli "github.com/ghostshopper/ghostshopper/internal/cli"
	"github.com/ghostshopper/ghostshopper/internal/config"
	"github.com/ghostshopper/ghostshopper/internal/database"
	"github.com/ghostshopper/ghostshopper/internal/handlers"
	"github.com/ghostshopper/ghostshopper/internal/metrics"
	"github.com/ghostshopper/ghostshopper/internal/notify"
	"github.com/ghostshopper/ghostshopper/internal/repository"
	"github.com/ghostshopper/ghostshopper/internal/services"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

var version = "1.0.0"

var targetURLFlag = &cli.StringFlag{
	Name:    "target-url",
	Usage:   "store to run the purchase flow against",
	EnvVars: []string{"TARGET_URL"},
}

// openRunStore connects to PostgreSQL or Redis when configured and falls back to memory
func openRunStore() (services.RunStore, func(), error) {
	if config.PostgresEnabled(os.Getenv) {
		return openPostgresStore()
	}
	if config.RedisEnabled(os.Getenv) {
		return openRedisStore()
	}

	log.Println("POSTGRES_HOSTNAME and REDIS_ADDR not set, keeping runs in memory")
	return repository.NewMemoryRunStore(), func() {}, nil
}

func openPostgresStore() (services.RunStore, func(), error) {
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid postgres configuration: %w", err)
	}

	if err := database.Connect(pgConfig); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Connected to database successfully")

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return repository.NewRunRepository(), func() { database.Close() }, nil
}

func openRedisStore() (services.RunStore, func(), error) {
	redisConfig, err := config.LoadRedisConfig(os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis configuration: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Printf("Connected to redis at %s", redisConfig.Addr)

	return repository.NewRedisRunStore(client, redisConfig.KeyPrefix), func() { client.Close() }, nil
}

// openNotifier connects the NATS publisher when NATS_URL is set
func openNotifier() ([]services.RunObserver, func(), error) {
	natsConfig := config.LoadNATSConfig(os.Getenv)
	if natsConfig == nil {
		return nil, func() {}, nil
	}

	publisher, err := notify.Connect(*natsConfig)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Publishing run events to %s on %s", natsConfig.Subject, natsConfig.URL)

	return []services.RunObserver{publisher}, publisher.Close, nil
}

// buildRunService wires the browser launcher, scenario configuration and store
func buildRunService(store services.RunStore, targetURL string, observers ...services.RunObserver) (*services.RunServiceImpl, *config.ScenarioConfig, error) {
	scenarioConfig, err := config.LoadScenarioConfig(os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid scenario configuration: %w", err)
	}
	*scenarioConfig = scenarioConfig.WithBaseURL(targetURL)

	browserConfig := config.ResolveBrowserConfig(runtime.GOOS, os.Getenv)
	log.Printf("Browser configured for %s (headless=%t)", runtime.GOOS, browserConfig.Headless)

	factory := services.NewScenarioRunnerFactory(browser.NewPlaywrightLauncher(), browserConfig, *scenarioConfig)
	return services.NewRunService(store, factory, scenarioConfig.BaseURL, observers...), scenarioConfig, nil
}

// buildServerDependencies creates all dependencies needed for the server
func buildServerDependencies(runService services.RunService, scenarioConfig *config.ScenarioConfig, serverConfig config.ServerConfig, metricsHandler http.Handler) (internalcli.ServerDependencies, error) {
	deps := internalcli.ServerDependencies{
		ServerConfig:   serverConfig,
		RunService:     runService,
		MetricsHandler: metricsHandler,
	}

	reportHandler, err := handlers.NewReportHandler(serverConfig.TemplatePath, runService, scenarioConfig.BaseURL)
	if err != nil {
		return deps, fmt.Errorf("failed to create report handler: %w", err)
	}
	deps.ReportHandler = reportHandler

	deps.TestHandler = handlers.NewTestHandler(runService)
	deps.RunTestHandler = handlers.NewRunTestHandler(runService)
	deps.ResultsHandler = handlers.NewResultsHandler(runService)
	deps.HealthHandler = handlers.NewHealthHandler(version)
	deps.EvidenceHandler = handlers.NewEvidenceHandler(scenarioConfig.EvidenceDir)

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Usage:   "port to listen on",
				EnvVars: []string{"PORT"},
			},
			targetURLFlag,
		},
		Action: func(c *cli.Context) error {
			store, closeStore, err := openRunStore()
			if err != nil {
				return err
			}
			defer closeStore()

			observers, closeNotifier, err := openNotifier()
			if err != nil {
				return err
			}
			defer closeNotifier()

			recorder := metrics.NewRecorder(prometheus.NewRegistry())
			observers = append(observers, recorder)

			runService, scenarioConfig, err := buildRunService(store, c.String("target-url"), observers...)
			if err != nil {
				return err
			}

			serverConfig := config.LoadServerConfig(os.Getenv)
			if port := c.String("port"); port != "" {
				serverConfig.Port = port
			}

			deps, err := buildServerDependencies(runService, scenarioConfig, serverConfig, recorder.Handler())
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the purchase flow once and print every step",
		Flags: []cli.Flag{targetURLFlag},
		Action: func(c *cli.Context) error {
			store, closeStore, err := openRunStore()
			if err != nil {
				return err
			}
			defer closeStore()

			observers, closeNotifier, err := openNotifier()
			if err != nil {
				return err
			}
			defer closeNotifier()

			runService, _, err := buildRunService(store, c.String("target-url"), observers...)
			if err != nil {
				return err
			}

			run, err := runService.RunSync(c.String("target-url"))
			if err != nil {
				return err
			}

			internalcli.PrintRun(c.App.Writer, run)
			if run.Aborted() {
				return cli.Exit(fmt.Sprintf("run %s aborted", run.ID), 1)
			}
			return nil
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "ghostshopper",
		Usage:   "Automated purchase-flow checks with screenshot evidence",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(),
			RunCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatal(err)
	}
}
