// Package cli implements plannerctl, the operator command line over the
// planner database.
package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"weekly-planner/internal/config"
	"weekly-planner/internal/export"
	"weekly-planner/internal/model"
	"weekly-planner/internal/plan"
	"weekly-planner/internal/repository"
	"weekly-planner/internal/service"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfg        config.Config
	telegramID int64

	db      *gorm.DB
	users   *repository.UserRepository
	plans   *service.PlanService
	exports *service.ExportService
}

// New builds the plannerctl command tree.
func New(cfg config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	cmd := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Inspect and edit weekly plans stored by the planner bot.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	cmd.PersistentFlags().StringVar(&a.cfg.DatabaseURL, "db", cfg.DatabaseURL, "database path or DSN")
	cmd.PersistentFlags().Int64Var(&a.telegramID, "user", 0, "Telegram ID of the user (defaults to the only user)")

	addWeek(cmd, a)
	addTask(cmd, a)
	addMerge(cmd, a)
	return cmd
}

func (a *app) open() error {
	if a.db != nil {
		return nil
	}
	db, err := repository.NewDB(a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	a.db = db
	a.users = repository.NewUserRepository(db)
	a.plans = service.NewPlanService(repository.NewWeekRepository(db), repository.NewTaskRepository(db))

	var notion *export.NotionClient
	if a.cfg.NotionEnabled() {
		notion = export.NewNotionClient(a.cfg.NotionToken, a.cfg.NotionDatabaseID, a.cfg.NotionTitleProp)
	}
	a.exports = service.NewExportService(a.plans, notion)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	a.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// user opens the database and resolves the --user flag.
func (a *app) user(cmd *cobra.Command) (*model.User, error) {
	if err := a.open(); err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if a.telegramID != 0 {
		user, err := a.users.FindByTelegramID(ctx, a.telegramID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no user with telegram id %d", a.telegramID)
		}
		return user, err
	}

	users, err := a.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	switch len(users) {
	case 0:
		return nil, errors.New("no users yet, start the bot first")
	case 1:
		return &users[0], nil
	default:
		return nil, fmt.Errorf("%d users found, pick one with --user", len(users))
	}
}

func (a *app) now() time.Time {
	if a.cfg.Location != nil {
		return time.Now().In(a.cfg.Location)
	}
	return time.Now()
}

// weekArg returns the week named by args[i], or the current week.
func (a *app) weekArg(args []string, i int) (model.WeekKey, error) {
	if len(args) <= i {
		return plan.WeekKeyOf(a.now()), nil
	}
	return parseWeek(args[i])
}

func parseWeek(raw string) (model.WeekKey, error) {
	key := model.WeekKey(raw)
	if _, ok := plan.ParseWeekKey(key); !ok {
		return "", fmt.Errorf("invalid week %q, expected e.g. 2024-W07", raw)
	}
	return key, nil
}
