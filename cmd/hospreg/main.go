package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hospreg/hospreg/internal/config"
	"github.com/hospreg/hospreg/internal/devserver"
	"github.com/hospreg/hospreg/internal/domain/announcement"
	"github.com/hospreg/hospreg/internal/domain/auth"
	"github.com/hospreg/hospreg/internal/domain/department"
	"github.com/hospreg/hospreg/internal/domain/doctor"
	"github.com/hospreg/hospreg/internal/domain/patient"
	"github.com/hospreg/hospreg/internal/domain/registration"
	"github.com/hospreg/hospreg/internal/domain/schedule"
	"github.com/hospreg/hospreg/internal/domain/stats"
	"github.com/hospreg/hospreg/internal/domain/user"
	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/export"
	"github.com/hospreg/hospreg/internal/platform/session"
	"github.com/hospreg/hospreg/internal/platform/viewstate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospreg",
		Short: "Hospital registration client",
	}

	rootCmd.AddCommand(serveMockCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(registrationsCmd())
	rootCmd.AddCommand(departmentsCmd())
	rootCmd.AddCommand(doctorsCmd())
	rootCmd.AddCommand(patientsCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(announcementsCmd())
	rootCmd.AddCommand(schedulesCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired client stack for one command invocation.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	client  *api.Client
	session *session.Store
	auth    *auth.Service
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if cfg.IsDev() {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	client := api.NewClient(cfg.APIBaseURL, cfg.Timeout(), logger)
	sess := session.NewStore(cfg.SessionFile)
	authSvc := auth.NewService(client, sess, logger)
	if err := authSvc.Restore(); err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: sess,
		auth:    authSvc,
	}, nil
}

func (a *app) registrations() *registration.Service {
	return registration.NewService(a.client, a.cfg.Fallback(), a.logger)
}

func serveMockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mock",
		Short: "Run the in-memory development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(zerolog.DebugLevel).
				With().Timestamp().Logger()

			srv := devserver.New(cfg.JWTSecret, logger)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-stop
				logger.Info().Msg("shutting down")
				_ = srv.Shutdown()
			}()

			return srv.Start(":" + cfg.MockPort)
		},
	}
}

func loginCmd() *cobra.Command {
	var username, password string
	var debug bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and cache the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			creds := auth.Credentials{Username: username, Password: password}
			var id session.Identity
			if debug {
				id, err = a.auth.DebugLogin(cmd.Context(), creds)
			} else {
				id, err = a.auth.Login(cmd.Context(), creds)
			}
			if err != nil {
				return err
			}
			fmt.Printf("已登录：%s（%s）→ %s\n", id.Username, id.Role, auth.LandingPath(id.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	cmd.Flags().BoolVar(&debug, "debug", false, "use the development bypass endpoint")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if err := a.auth.Logout(cmd.Context()); err != nil {
				// The local cache is already cleared; a dead backend is
				// worth a warning, not a failed logout.
				a.logger.Warn().Err(err).Msg("server-side logout failed")
			}
			fmt.Println("已退出登录")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the cached identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, okCached := a.session.Current()
			if !okCached {
				fmt.Println("未登录")
				return nil
			}
			fmt.Printf("%s（%s）\n", id.Username, id.Role)
			return nil
		},
	}
}

func registrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registrations",
		Short: "Registration management",
	}
	cmd.AddCommand(registrationsListCmd())
	cmd.AddCommand(registrationsCreateCmd())
	cmd.AddCommand(registrationsStatusCmd())
	cmd.AddCommand(registrationsBatchStatusCmd())
	cmd.AddCommand(registrationsCancelCmd())
	return cmd
}

func registrationsListCmd() *cobra.Command {
	var date, status, search, exportPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the doctor's registrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctrl := registration.NewController(a.registrations())
			ctrl.Load(cmd.Context())

			snap := ctrl.Store().Snapshot()
			if snap.Phase == viewstate.Failed {
				return fmt.Errorf("%s", snap.Err)
			}

			ctrl.Store().SetFilter(viewstate.FilterSpec{Date: date, Status: status, Search: search})
			rows := ctrl.Store().Filtered()

			if exportPath != "" {
				return writeTable(registration.Table(rows), exportPath)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "编号\t患者\t科室\t疾病\t预约时间\t状态")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.DisplayPatient(), r.DepartmentName(), r.Disease, r.AppointmentTime, r.Status.Label())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "filter by appointment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending/processing/completed/cancelled)")
	cmd.Flags().StringVar(&search, "search", "", "search patient name, id, or disease")
	cmd.Flags().StringVar(&exportPath, "export", "", "write to a .csv or .xlsx file instead of stdout")
	return cmd
}

func registrationsCreateCmd() *cobra.Command {
	var patientID, doctorID int64
	var at string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book a registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			created, err := a.registrations().Create(cmd.Context(), patientID, doctorID, at)
			if err != nil {
				return err
			}
			fmt.Printf("挂号成功，编号 %d，状态 %s\n", created.ID, created.Status.Label())
			return nil
		},
	}
	cmd.Flags().Int64Var(&patientID, "patient", 0, "patient id")
	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "doctor id")
	cmd.Flags().StringVar(&at, "time", "", "appointment time (YYYY-MM-DDTHH:MM:SS)")
	cmd.MarkFlagRequired("patient")
	cmd.MarkFlagRequired("doctor")
	cmd.MarkFlagRequired("time")
	return cmd
}

func registrationsStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-status <id> <status>",
		Short: "Transition one registration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctrl := registration.NewController(a.registrations())
			ctrl.Load(cmd.Context())

			done, err := ctrl.Transition(cmd.Context(), id, registration.NormalizeStatus(args[1]))
			if err != nil {
				return err
			}
			if err := <-done; err != nil {
				return err
			}
			fmt.Println("状态已更新")
			return nil
		},
	}
	return cmd
}

func registrationsBatchStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch-status <id,id,...> <status>",
		Short: "Transition a set of registrations, all or nothing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctrl := registration.NewController(a.registrations())
			ctrl.Load(cmd.Context())

			for _, raw := range strings.Split(args[0], ",") {
				id, err := parseID(strings.TrimSpace(raw))
				if err != nil {
					return err
				}
				ctrl.Store().Toggle(id)
			}

			done, err := ctrl.TransitionChecked(cmd.Context(), registration.NormalizeStatus(args[1]))
			if err != nil {
				return err
			}
			if err := <-done; err != nil {
				return err
			}
			fmt.Println("批量状态已更新")
			return nil
		},
	}
	return cmd
}

func registrationsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.registrations().Cancel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("已取消挂号")
			return nil
		},
	}
}

func departmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := department.NewService(a.client, a.cfg.Fallback(), a.logger)
			items, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "编号\t名称\t负责人\t医生数\t状态")
			for _, d := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", d.ID, d.Name, d.Lead, d.DoctorCount, d.Status.Label())
			}
			return w.Flush()
		},
	}
}

func doctorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Doctor workspace",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List doctors",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := doctor.NewService(a.client, a.cfg.Fallback(), a.logger)
			items, err := svc.List(c.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "编号\t姓名\t科室\t职称")
			for _, d := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", d.ID, d.Name, d.Department, d.Title)
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "workspace",
		Short: "Show the doctor's cards, tasks, and notifications",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			docSvc := doctor.NewService(a.client, a.cfg.Fallback(), a.logger)
			statSvc := stats.NewService(a.client, a.registrations(), a.cfg.Fallback(), a.logger)

			profile, err := docSvc.Current(c.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s · %s · %s\n\n", profile.Name, profile.Department, profile.Title)

			cards, err := statSvc.DoctorCards(c.Context())
			if err != nil {
				return err
			}
			for _, card := range cards {
				fmt.Printf("%s %s：%d\n", card.Icon, card.Title, card.Value)
			}

			tasks, err := docSvc.Tasks(c.Context())
			if err != nil {
				return err
			}
			fmt.Println("\n待办事项：")
			for _, task := range tasks {
				fmt.Printf("  [%s] %s\n", task.Time, task.Title)
			}

			notes, err := docSvc.Notifications(c.Context())
			if err != nil {
				return err
			}
			fmt.Println("\n通知：")
			for _, n := range notes {
				fmt.Printf("  %s — %s\n", n.Title, n.Content)
			}
			return nil
		},
	})
	return cmd
}

func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Patient data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in patient's profile",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := patient.NewService(a.client, a.logger)
			d, err := svc.CurrentDetails(c.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the doctor's patient roster",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := patient.NewService(a.client, a.logger)
			items, err := svc.ListForDoctor(c.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "编号\t姓名\t性别\t电话")
			for _, p := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Gender, p.Phone)
			}
			return w.Flush()
		},
	})
	return cmd
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := user.NewService(a.client, a.logger)
			items, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "编号\t用户名\t角色\t创建时间")
			for _, u := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.CreatedAt)
			}
			return w.Flush()
		},
	}
}

func announcementsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "announcements",
		Short: "List announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := announcement.NewService(a.client, a.cfg.Fallback(), a.logger)
			var items []announcement.Announcement
			if all {
				items, err = svc.List(cmd.Context())
			} else {
				items, err = svc.Published(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, an := range items {
				fmt.Printf("[%s] %s（%s）\n", an.Status.Label(), an.Title, an.Audience)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include drafts and upcoming notices")
	return cmd
}

func schedulesCmd() *cobra.Command {
	var date, status, search string
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Show the shift board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			board := schedule.NewBoard(schedule.NewService(a.client, a.logger))
			board.Load(cmd.Context())

			snap := board.Store().Snapshot()
			if snap.Phase == viewstate.Failed {
				return fmt.Errorf("%s", snap.Err)
			}

			board.Store().SetFilter(viewstate.FilterSpec{Date: date, Status: status, Search: search})
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "编号\t医生\t科室\t日期\t时段\t号源\t状态")
			for _, sc := range board.Store().Filtered() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s-%s\t%d/%d\t%s\n",
					sc.ID, sc.Doctor.Display(""), sc.DepartmentName(), sc.WorkDate,
					sc.StartTime, sc.EndTime, sc.Booked, sc.Capacity, sc.Status.Label())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "filter by work date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", "", "filter by shift status")
	cmd.Flags().StringVar(&search, "search", "", "search doctor or department")
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Dashboards",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "admin",
		Short: "Show the admin counters",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := stats.NewService(a.client, a.registrations(), a.cfg.Fallback(), a.logger)
			st, err := svc.Admin(c.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	})

	var rng string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Build the doctor's chart report",
		RunE: func(c *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			svc := stats.NewService(a.client, a.registrations(), a.cfg.Fallback(), a.logger)
			report, err := svc.Report(c.Context(), stats.TimeRange(rng))
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	reportCmd.Flags().StringVar(&rng, "range", "day", "time range: day, week, or month")
	cmd.AddCommand(reportCmd)
	return cmd
}

func writeTable(t export.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.WriteXLSX(f, t)
	case ".csv":
		return export.WriteCSV(f, t)
	default:
		return fmt.Errorf("不支持的导出格式：%s", filepath.Ext(path))
	}
}

func parseID(raw string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("无效的编号：%s", raw)
	}
	return id, nil
}
