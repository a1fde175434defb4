package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	authz "github.com/siprista/backend/internal/app/auth"
	appMigrations "github.com/siprista/backend/internal/app/migrations"
	"github.com/siprista/backend/internal/app/models"
	appRepos "github.com/siprista/backend/internal/app/repositories"
	appServices "github.com/siprista/backend/internal/app/services"
	"github.com/siprista/backend/internal/bootstrap"
	"github.com/siprista/backend/internal/config"
	"github.com/siprista/backend/internal/db"
	"github.com/siprista/backend/internal/pkg/export"
	"github.com/siprista/backend/internal/pkg/filestorage"
	"github.com/siprista/backend/internal/pkg/helpers"
	"github.com/siprista/backend/internal/seed"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "siprista",
		Usage: "SIPRISTA operator tools",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				EnvVars: []string{"SIPRISTA_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Action: withDatabase(migrateUp),
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply pending migrations", Action: withDatabase(migrateUp)},
					{Name: "down", Usage: "roll back the latest migration", Action: withDatabase(migrateDown)},
					{Name: "status", Usage: "print the schema version", Action: withDatabase(migrateStatus)},
				},
			},
			{
				Name:  "seed",
				Usage: "create the default admin and, with --demo, the demo data set",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "demo", Usage: "also create the demo guru, students and achievements"},
				},
				Action: withDatabase(runSeed),
			},
			{
				Name:  "create-admin",
				Usage: "create an administrator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "name", Value: "Administrator"},
					&cli.StringFlag{Name: "nip"},
				},
				Action: withDatabase(createAdmin),
			},
			{
				Name:  "export",
				Usage: "write the achievement report to the export directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(export.FormatXLSX), Usage: "xlsx or pdf"},
					&cli.StringFlag{Name: "guru-id", Usage: "narrow the report to one guru"},
					&cli.StringFlag{Name: "out", Usage: "output directory (default server.export_path)"},
				},
				Action: withDatabase(runExport),
			},
		},
	}
}

// env is what every database command receives.
type env struct {
	cfg      *config.Config
	database *db.PostgresDB
	logger   zerolog.Logger
	out      io.Writer
}

func withDatabase(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
		if err != nil {
			return err
		}
		database, err := db.NewPostgresDB(c.Context, cfg, lgr)
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(c, &env{cfg: cfg, database: database, logger: lgr, out: c.App.Writer})
	}
}

func migrateUp(c *cli.Context, e *env) error {
	return bootstrap.Migrate(c.Context, e.database, e.logger)
}

func migrateDown(c *cli.Context, e *env) error {
	m, err := appMigrations.NewMigrator(e.database.Pool, e.logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Down(c.Context)
}

func migrateStatus(c *cli.Context, e *env) error {
	m, err := appMigrations.NewMigrator(e.database.Pool, e.logger)
	if err != nil {
		return err
	}
	defer m.Close()
	version, err := m.Version(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "schema version: %d\n", version)
	return nil
}

func runSeed(c *cli.Context, e *env) error {
	res, err := seed.CreateDefaultData(c.Context, e.database.Pool, seed.Options{
		AdminEmail:    e.cfg.Seed.AdminEmail,
		AdminPassword: e.cfg.Seed.AdminPassword,
		Demo:          c.Bool("demo") || e.cfg.Seed.Demo,
	}, e.logger)
	fmt.Fprintf(e.out, "created %d accounts, %d students, %d achievements\n", res.Accounts, res.Students, res.Achievements)
	return err
}

func createAdmin(c *cli.Context, e *env) error {
	repos := appRepos.NewRepositories(e.database.Pool)
	seeder := seed.NewSeeder(repos.AccountRepository, repos.StudentRepository, repos.AchievementRepository, e.logger)

	admin := models.Account{
		Email: c.String("email"),
		Name:  c.String("name"),
		Role:  models.RoleAdmin,
	}
	if nip := strings.TrimSpace(c.String("nip")); nip != "" {
		admin.NIP = &nip
	}
	account, created, err := seeder.EnsureAccount(c.Context, admin, c.String("password"))
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("an account with email %s already exists (role %s)", account.Email, account.Role)
	}
	fmt.Fprintf(e.out, "admin %s created with id %s\n", account.Email, account.ID)
	return nil
}

func runExport(c *cli.Context, e *env) error {
	format, ok := export.ParseFormat(c.String("format"))
	if !ok {
		return fmt.Errorf("unknown export format %q", c.String("format"))
	}
	dir := c.String("out")
	if dir == "" {
		dir = e.cfg.Server.ExportPath
	}
	storage, err := filestorage.NewLocalStorage(dir)
	if err != nil {
		return err
	}

	repos := appRepos.NewRepositories(e.database.Pool)
	reports := appServices.NewReportService(
		repos.AchievementRepository,
		repos.StudentRepository,
		repos.AccountRepository,
		helpers.SystemClock,
		helpers.LoadLocation(e.cfg.Report.Timezone),
	)

	path, err := exportReport(c.Context, reports, storage, format, c.String("guru-id"))
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, path)
	return nil
}

// operatorIdentity is the scope of CLI exports: the school-wide administrator view.
var operatorIdentity = authz.Identity{Role: models.RoleAdmin}

// exportReport renders the report in memory first so nothing is stored when there is
// nothing to export.
func exportReport(ctx context.Context, reports appServices.ReportService, storage filestorage.FileStorage, format export.Format, guruID string) (string, error) {
	var buf bytes.Buffer
	filename, err := reports.Export(ctx, operatorIdentity, guruID, format, &buf)
	if err != nil {
		return "", err
	}
	return storage.Save(ctx, filename, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
}
