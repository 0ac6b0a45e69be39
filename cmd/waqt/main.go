package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/brimstone/logger"
	"github.com/rhysd/go-github-selfupdate/selfupdate"

	"github.com/GMouaad/waqt/internal/app"
	"github.com/GMouaad/waqt/internal/config"
	"github.com/GMouaad/waqt/internal/model"
	"github.com/GMouaad/waqt/internal/report"
	"github.com/GMouaad/waqt/internal/router"
	"github.com/GMouaad/waqt/internal/ui"
	"github.com/GMouaad/waqt/internal/ui/theme"
)

var (
	log     = logger.New()
	version = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		handleWatch(nil)
		return
	}

	switch os.Args[1] {
	case "serve":
		handleServe(os.Args[2:])
	case "start":
		handleStart(os.Args[2:])
	case "pause":
		handlePause()
	case "resume":
		handleResume()
	case "stop":
		handleStop()
	case "status":
		handleStatus()
	case "add":
		handleAdd(os.Args[2:])
	case "leave":
		handleLeave(os.Args[2:])
	case "report":
		handleReport(os.Args[2:])
	case "config":
		handleConfig(os.Args[2:])
	case "watch":
		handleWatch(os.Args[2:])
	case "upgrade":
		handleUpgrade()
	case "version":
		fmt.Printf("waqt v%s\n", version)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	help := `waqt - personal time tracking

Usage:
  waqt                       Open the live timer screen
  waqt start [description]   Start the timer
  waqt pause                 Pause the running timer
  waqt resume                Resume a paused timer
  waqt stop                  Stop the timer and record the entry
  waqt status                Show the current timer
  waqt add [flags] [desc]    Record a finished entry by hand
  waqt leave ...             Manage vacation and sick days
  waqt report week|month     Weekly and monthly summaries
  waqt config [set k v]      Show or change work rules
  waqt serve                 Run the HTTP API server
  waqt watch                 Open the live timer screen
  waqt upgrade               Self-update to the latest release
  waqt version               Show version
  waqt help                  Show this help

Examples:
  waqt start "client project"
  waqt add --date yesterday --start 09:00 --end 17:30 --pause 30 office day
  waqt leave 2026-07-06 vacation summer trip
  waqt leave list 2026
  waqt report week
  waqt report month 2026-03 --pdf timesheet.pdf
  waqt config set standard_hours_per_day 7.5

Settings keys:
  standard_hours_per_day     Hours of a standard working day (default 8)
  standard_hours_per_week    Hours of a standard working week (default 40)
  max_session_hours          Session length that triggers an alert (default 10)

Watch keybindings:
  s start • p pause • r resume • x stop
  d dismiss alert • ctrl+t theme • ? help • q quit

For more info: https://github.com/GMouaad/waqt`

	fmt.Println(help)
}

// mustApp opens the application or exits
func mustApp() *app.App {
	application, err := app.New(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return application
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	portFlag := fs.Int("port", 0, "Port to listen on (overrides config)")
	fs.Parse(args)

	application := mustApp()
	defer application.Close()

	// Only one server may own the database for long-running work
	if err := application.AcquireLock(); err != nil {
		fail(err)
	}

	if *portFlag != 0 {
		application.Config.Port = *portFlag
	}

	r := router.New(application.DB, application.Timer, application.Engine)

	server := &http.Server{
		Addr:         application.Config.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("Ready to serve",
		log.Field("addr", server.Addr),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		fail(err)
	}
}

func handleStart(args []string) {
	description := strings.Join(args, " ")

	application := mustApp()
	defer application.Close()

	entry, err := application.Timer.Start(description)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Timer started at %s", entry.StartTime.Format("15:04"))
	if entry.Description != "" {
		fmt.Printf(" (%s)", entry.Description)
	}
	fmt.Println()
}

func handlePause() {
	application := mustApp()
	defer application.Close()

	if _, err := application.Timer.Pause(); err != nil {
		fail(err)
	}
	fmt.Println("Timer paused.")
}

func handleResume() {
	application := mustApp()
	defer application.Close()

	if _, err := application.Timer.Resume(); err != nil {
		fail(err)
	}
	fmt.Println("Timer resumed.")
}

func handleStop() {
	application := mustApp()
	defer application.Close()

	entry, err := application.Timer.Stop()
	if err != nil {
		fail(err)
	}

	fmt.Printf("Timer stopped. Recorded %s", report.FormatHours(entry.DurationHours))
	if entry.PauseSeconds > 0 {
		fmt.Printf(" (%d min pause)", entry.PauseSeconds/60)
	}
	fmt.Println()
}

func handleStatus() {
	application := mustApp()
	defer application.Close()

	st, err := application.Timer.Status()
	if err != nil {
		fail(err)
	}

	if st.State == model.TimerIdle {
		fmt.Println("No timer running.")
		return
	}

	elapsed := time.Duration(st.ElapsedSeconds) * time.Second
	fmt.Printf("State:    %s\n", st.State)
	fmt.Printf("Started:  %s\n", st.StartedAt.Local().Format("15:04"))
	fmt.Printf("Elapsed:  %s\n", report.FormatClock(elapsed))
	if st.Description != "" {
		fmt.Printf("Task:     %s\n", st.Description)
	}

	std, err := application.Engine.Standards()
	if err == nil && report.SessionAlert(elapsed.Hours(), std.MaxSessionHours) {
		fmt.Printf("Warning: session over %s, consider a break.\n",
			report.FormatHours(std.MaxSessionHours))
	}
}

func handleAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	dateFlag := fs.String("date", "today", "Day of the entry (today, yesterday or YYYY-MM-DD)")
	startFlag := fs.String("start", "", "Start of the shift (HH:MM)")
	endFlag := fs.String("end", "", "End of the shift (HH:MM)")
	pauseFlag := fs.Int("pause", 0, "Unpaid pause in minutes")
	fs.Parse(args)

	if *startFlag == "" || *endFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: waqt add --start HH:MM --end HH:MM [--date DAY] [--pause MIN] [description]")
		os.Exit(1)
	}

	day, err := parseDay(*dateFlag)
	if err != nil {
		fail(fmt.Errorf("invalid date %q: %w", *dateFlag, err))
	}
	start, err := parseClock(*startFlag)
	if err != nil {
		fail(fmt.Errorf("invalid start %q: %w", *startFlag, err))
	}
	end, err := parseClock(*endFlag)
	if err != nil {
		fail(fmt.Errorf("invalid end %q: %w", *endFlag, err))
	}
	if *pauseFlag < 0 {
		fail(fmt.Errorf("pause must not be negative"))
	}
	description := strings.Join(fs.Args(), " ")

	application := mustApp()
	defer application.Close()

	entry, err := application.Timer.Add(day, start, end,
		time.Duration(*pauseFlag)*time.Minute, description)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Added %s on %s\n", report.FormatHours(entry.DurationHours), entry.Date)
}

func handleLeave(args []string) {
	if len(args) == 0 {
		listLeave(time.Now().Year())
		return
	}

	switch args[0] {
	case "list":
		year := time.Now().Year()
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fail(fmt.Errorf("invalid year %q", args[1]))
			}
			year = n
		}
		listLeave(year)

	case "remove":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: waqt leave remove <id>")
			os.Exit(1)
		}
		application := mustApp()
		defer application.Close()

		if err := application.DB.DeleteLeaveDay(args[1]); err != nil {
			fail(err)
		}
		fmt.Println("Leave day removed.")

	default:
		// waqt leave <date> <type> [description]
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: waqt leave <date> vacation|sick [description]")
			os.Exit(1)
		}
		day, err := parseDay(args[0])
		if err != nil {
			fail(fmt.Errorf("invalid date %q: %w", args[0], err))
		}
		if !model.ValidLeaveType(args[1]) {
			fail(fmt.Errorf("type must be vacation or sick"))
		}
		description := strings.Join(args[2:], " ")

		application := mustApp()
		defer application.Close()

		created, err := application.DB.CreateLeaveDay(
			day.Format(model.DateFormat), model.LeaveType(args[1]), description)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Recorded %s on %s\n", created.Type, created.Date)
	}
}

func listLeave(year int) {
	application := mustApp()
	defer application.Close()

	days, err := application.DB.LeaveDaysBetween(
		fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year))
	if err != nil {
		fail(err)
	}

	if len(days) == 0 {
		fmt.Printf("No leave days in %d.\n", year)
		return
	}

	vacation, sick := 0, 0
	for _, d := range days {
		fmt.Printf("%s  %-8s  %s  %s\n", d.Date, d.Type, d.ID, d.Description)
		switch d.Type {
		case model.LeaveVacation:
			vacation++
		case model.LeaveSick:
			sick++
		}
	}
	fmt.Printf("\n%d vacation, %d sick\n", vacation, sick)
}

func handleReport(args []string) {
	period := "week"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		period = args[0]
		args = args[1:]
	}
	var when string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		when = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	pdfFlag := fs.String("pdf", "", "Write a month report as PDF to the given file")
	fs.Parse(args)

	application := mustApp()
	defer application.Close()

	switch period {
	case "week":
		date := time.Now()
		if when != "" {
			parsed, err := parseDay(when)
			if err != nil {
				fail(fmt.Errorf("invalid date %q: %w", when, err))
			}
			date = parsed
		}
		week, err := application.Engine.WeekOf(date)
		if err != nil {
			fail(err)
		}
		printWeek(week)

	case "month":
		now := time.Now()
		year, month := now.Year(), now.Month()
		if when != "" {
			parsed, err := time.ParseInLocation("2006-01", when, time.Local)
			if err != nil {
				fail(fmt.Errorf("invalid month %q: %w", when, err))
			}
			year, month = parsed.Year(), parsed.Month()
		}
		summary, err := application.Engine.MonthOf(year, month)
		if err != nil {
			fail(err)
		}

		if *pdfFlag != "" {
			f, err := os.Create(*pdfFlag)
			if err != nil {
				fail(err)
			}
			if err := report.WriteMonthPDF(f, summary); err != nil {
				f.Close()
				fail(err)
			}
			if err := f.Close(); err != nil {
				fail(err)
			}
			fmt.Printf("Wrote %s\n", *pdfFlag)
			return
		}
		printMonth(summary)

	default:
		fmt.Fprintln(os.Stderr, "Usage: waqt report week [date] | month [YYYY-MM] [--pdf FILE]")
		os.Exit(1)
	}
}

func printWeek(week *report.WeekSummary) {
	fmt.Printf("Week %s (%s to %s)\n\n", week.Week, week.Start, week.End)

	for _, d := range week.Days {
		day, _ := time.ParseInLocation(model.DateFormat, d.Date, time.Local)
		line := fmt.Sprintf("%s %s  %6s", day.Format("Mon"), d.Date, report.FormatHours(d.Hours))
		if d.Overtime > 0 {
			line += fmt.Sprintf("  +%s", report.FormatHours(d.Overtime))
		}
		fmt.Println(line)
	}

	fmt.Printf("\nTotal: %s", report.FormatHours(week.TotalHours))
	if week.Overtime > 0 {
		fmt.Printf(" (overtime %s)", report.FormatHours(week.Overtime))
	}
	fmt.Println()
}

func printMonth(summary *report.MonthSummary) {
	fmt.Printf("Month %s\n\n", summary.Month)

	for _, d := range summary.Days {
		if d.Hours == 0 {
			continue
		}
		line := fmt.Sprintf("%s  %6s", d.Date, report.FormatHours(d.Hours))
		if d.Overtime > 0 {
			line += fmt.Sprintf("  +%s", report.FormatHours(d.Overtime))
		}
		fmt.Println(line)
	}

	fmt.Printf("\nTotal: %s (overtime %s)\n",
		report.FormatHours(summary.TotalHours), report.FormatHours(summary.TotalOvertime))
	fmt.Printf("Leave: %d vacation, %d sick\n", summary.VacationDays, summary.SickDays)
}

func handleConfig(args []string) {
	if len(args) > 0 && args[0] == "set" {
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: waqt config set <key> <value>")
			os.Exit(1)
		}
		key, value := args[1], args[2]
		if !model.KnownSettingKey(key) {
			fail(fmt.Errorf("unknown setting %q (known: %s, %s, %s)", key,
				model.SettingStandardHoursPerDay,
				model.SettingStandardHoursPerWeek,
				model.SettingMaxSessionHours))
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			fail(fmt.Errorf("setting %s must be a positive number", key))
		}

		application := mustApp()
		defer application.Close()

		if err := application.DB.SetSetting(key, value); err != nil {
			fail(err)
		}
		fmt.Printf("Set %s to %s\n", key, value)
		return
	}

	application := mustApp()
	defer application.Close()

	std, err := application.Engine.Standards()
	if err != nil {
		fail(err)
	}

	fmt.Printf("Config file:  %s\n", config.DefaultConfigPath())
	fmt.Printf("Database:     %s\n", application.Config.DBPath)
	fmt.Printf("Server port:  %d\n", application.Config.Port)
	fmt.Println()
	fmt.Printf("%-25s %v\n", model.SettingStandardHoursPerDay, std.HoursPerDay)
	fmt.Printf("%-25s %v\n", model.SettingStandardHoursPerWeek, std.HoursPerWeek)
	fmt.Printf("%-25s %v\n", model.SettingMaxSessionHours, std.MaxSessionHours)
}

func handleWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	themeFlag := fs.String("theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")
	fs.Parse(args)

	if *themeFlag != "" {
		t, ok := theme.ByName(*themeFlag)
		if !ok {
			fail(fmt.Errorf("unknown theme %q", *themeFlag))
		}
		theme.SetTheme(t)
	}

	application := mustApp()
	defer application.Close()

	if err := ui.Run(application.Timer, application.Engine, application.Notifier); err != nil {
		fail(err)
	}
}

func handleUpgrade() {
	fmt.Println("Checking and applying upgrade")
	v := semver.MustParse(version)
	latest, err := selfupdate.UpdateSelf(v, "GMouaad/waqt")
	if err != nil {
		log.Println("Binary update failed:", err)
		os.Exit(1)
	}
	if latest.Version.Equals(v) {
		// latest version is the same as current version. It means current binary is up to date.
		log.Println("Current binary is the latest version", version)
	} else {
		log.Println("Successfully updated to version", latest.Version)
		log.Println("Release note:\n", latest.ReleaseNotes)
	}
}

func parseDay(s string) (time.Time, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(s) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	return time.ParseInLocation(model.DateFormat, s, time.Local)
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
