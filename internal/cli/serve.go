package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-proxy/internal/api"
	"github.com/nerrad567/gray-logic-proxy/internal/audit"
	"github.com/nerrad567/gray-logic-proxy/internal/bridges/lighting"
	"github.com/nerrad567/gray-logic-proxy/internal/command"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-proxy/internal/poller"
	"github.com/nerrad567/gray-logic-proxy/internal/target"
	"github.com/nerrad567/gray-logic-proxy/migrations"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the proxy",
		Long: `Run the sync engine and the HTTP API until interrupted.

MQTT, InfluxDB and the SQLite audit trail are started when enabled in the
configuration. Target state itself is held in memory only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, info)
		},
	}
}

// runServe is the composition root. It returns nil on a clean shutdown
// after ctx is cancelled.
//
// Parameters:
//   - ctx: Cancelled on SIGINT/SIGTERM
//   - cfg: Validated configuration
//   - info: Build information for logs and /api/v1/health
//
// Returns:
//   - error: If a component fails to start
func runServe(ctx context.Context, cfg *config.Config, info BuildInfo) error {
	log := logging.New(cfg.Logging, info.Version)
	log.Info("starting Gray Logic Proxy",
		"version", info.Version,
		"commit", info.Commit,
		"build_date", info.Date,
	)

	// Registries: one per kind, owned here and injected everywhere else
	intensities := target.NewRegistry(target.KindIntensity)
	intensities.SetLogger(log.Component("registry"))
	scenes := target.NewRegistry(target.KindScene)
	scenes.SetLogger(log.Component("registry"))

	client := lighting.NewClient(lighting.Options{
		Timeout:            cfg.Sync.RequestTimeout,
		InsecureSkipVerify: cfg.Sync.InsecureSkipVerify,
	})
	defer client.CloseIdleConnections()
	if cfg.Sync.InsecureSkipVerify {
		log.Warn("controller TLS certificates are not verified (sync.insecure_skip_verify)")
	}

	engine := poller.NewEngine(poller.Options{
		Scenes:      scenes,
		Intensities: intensities,
		Client:      client,
		CallDelay:   cfg.Sync.CallDelay,
		CycleDelay:  cfg.Sync.CycleDelay,
		Logger:      log.Component("poller"),
	})

	hub := api.NewHub(cfg.WebSocket, log.Component("websocket"))
	engine.AddObserver(hub)

	// Audit trail (optional)
	var (
		auditRepo audit.Repository
		recorder  *audit.Recorder
	)
	if cfg.Database.Enabled {
		db, err := openAuditDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("audit database ready", "path", cfg.Database.Path)

		repo := audit.NewSQLiteRepository(db.DB)
		auditRepo = repo
		recorder = audit.NewRecorder(repo, audit.DefaultQueueSize, log.Component("audit"))
	} else {
		log.Info("audit database disabled")
	}

	var auditSink command.AuditRecorder
	if recorder != nil {
		auditSink = recorder
	}
	commands := command.NewService(client, auditSink, log.Component("command"))

	// MQTT (optional)
	var (
		mqttClient    *mqtt.Client
		stateObserver *mqttStateObserver
	)
	if cfg.MQTT.Enabled {
		var err error
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		stateObserver = newMQTTStateObserver(mqttClient, stateQueueSize, log.Component("mqtt"))
		engine.AddObserver(stateObserver)

		topic, err := mqttClient.SubscribeSceneCommands(sceneCommandHandler(ctx, commands))
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		log.Info("listening for scene commands", "topic", topic)
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		engine.AddObserver(&influxObserver{writer: influxClient})
	} else {
		log.Info("InfluxDB disabled")
	}

	deps := api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		Logger:      log.Component("api"),
		Intensities: intensities,
		Scenes:      scenes,
		Engine:      engine,
		Commands:    commands,
		ExternalHub: hub,
		Version:     info.Version,
	}
	if auditRepo != nil {
		deps.AuditRepo = auditRepo
	}
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return engine.Run(gctx)
	})
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	if recorder != nil {
		g.Go(func() error {
			return recorder.Run(gctx)
		})
	}
	if stateObserver != nil {
		g.Go(func() error {
			return stateObserver.Run(gctx)
		})
	}
	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		log.Info("initialisation complete, waiting for shutdown signal", "address", server.Addr())
		<-gctx.Done()
		return server.Close()
	})

	err = g.Wait()
	if err != nil {
		log.Error("proxy stopped with error", "error", err)
		return err
	}
	log.Info("Gray Logic Proxy stopped")
	return nil
}

// openAuditDB opens the SQLite database and applies the embedded migrations.
func openAuditDB(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
