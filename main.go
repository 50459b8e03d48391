package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kks007-dev/syllabuser/pkg/auth"
	"github.com/kks007-dev/syllabuser/pkg/config"
	"github.com/kks007-dev/syllabuser/pkg/gemini"
	"github.com/kks007-dev/syllabuser/pkg/model"
	"github.com/kks007-dev/syllabuser/pkg/pipeline"
	"github.com/kks007-dev/syllabuser/pkg/session"
	"github.com/kks007-dev/syllabuser/pkg/store"
)

const authTimeout = 5 * time.Minute

func main() {
	// 1. Parse Flags
	filePath := flag.String("file", "", "Syllabus document to analyze (.txt/.md)")
	calendarName := flag.String("calendar", "", "Google Calendar name to sync with (overrides config)")
	setCalendar := flag.String("set-calendar", "", "Set the default Google Calendar name")
	doAuth := flag.Bool("auth", false, "Authenticate with Google Calendar")
	doSync := flag.Bool("sync", false, "Sync extracted events to Google Calendar")
	doSummary := flag.Bool("summary", false, "Also print a prose summary of the syllabus")
	doLogout := flag.Bool("logout", false, "Forget the stored Google Calendar credential")
	doReset := flag.Bool("reset", false, "Discard any pending sync snapshot")
	flag.Parse()

	// .env is optional; environment takes precedence over config.yaml.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// 2. Handle Set Calendar
	if *setCalendar != "" {
		cfg.Calendar = *setCalendar
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Error saving config: %v", err)
		}
		fmt.Printf("Default calendar set to: %s\n", *setCalendar)
		return
	}

	st, err := store.New()
	if err != nil {
		log.Fatalf("Error opening local store: %v", err)
	}
	mgr := auth.NewManager(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, st)

	// 3. Handle State Maintenance
	if *doLogout {
		if err := mgr.Logout(); err != nil {
			log.Fatalf("Error clearing credential: %v", err)
		}
		fmt.Println("Logged out of Google Calendar.")
		return
	}
	if *doReset {
		if err := mgr.ClearPending(); err != nil {
			log.Fatalf("Error clearing pending sync state: %v", err)
		}
		fmt.Println("Pending sync state discarded.")
		return
	}

	// 4. Handle Standalone Authentication
	if *doAuth && *filePath == "" {
		if err := runAuthorization(mgr, cfg, nil); err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		fmt.Println("Authentication successful!")
		return
	}

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	// 5. Analyze the Document
	gen := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if !gen.IsConfigured() {
		log.Fatalf("No Gemini API key configured. Set GEMINI_API_KEY or gemini_api_key in config.yaml")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *filePath, err)
	}

	ctx := context.Background()
	text, err := pipeline.PlainText{}.ExtractText(ctx, data)
	if err != nil {
		log.Fatalf("Error extracting text from %s: %v", *filePath, err)
	}

	p := pipeline.New(gen, time.Now())

	sess := session.New()
	gen0 := sess.Generation()

	events, acad, err := p.Analyze(ctx, text)
	if err != nil {
		log.Fatalf("Could not analyze the syllabus. The AI service may be down or the document format is not supported: %v", err)
	}
	sess.Admit(gen0, filepath.Base(*filePath), events)

	fmt.Printf("Academic context: %s %s (confidence %s)\n", acad.Semester, acad.Year, acad.Confidence)
	fmt.Printf("Evidence: %s\n\n", acad.Evidence)
	for _, ev := range sess.Events() {
		fmt.Printf("%s  %-12s  %s\n", ev.Date, ev.Type, ev.Description)
	}
	fmt.Printf("\n%d events found.\n", sess.Len())

	if *doSummary {
		summary, err := p.Summarize(ctx, text)
		if err != nil {
			log.Printf("Warning: could not summarize syllabus: %v", err)
		} else {
			fmt.Printf("\nSummary:\n%s\n", summary)
		}
	}

	if !*doSync {
		return
	}

	// 6. Sync, authorizing on demand
	label := deriveLabel(*calendarName, *filePath, cfg)

	result, err := p.Sync(ctx, mgr, sess.Events(), label)
	if errors.Is(err, auth.ErrAuthMissing) || errors.Is(err, auth.ErrAuthExpired) {
		log.Printf("%v", err)
		if err := runAuthorization(mgr, cfg, sess.Snapshot(label)); err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		if pending, ok, err := mgr.ConsumePending(); err == nil && ok {
			sess.Restore(pending)
			label = pending.CalendarLabel
		}
		result, err = p.Sync(ctx, mgr, sess.Events(), label)
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
	} else if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}

	printResult(label, result)
}

// runAuthorization walks the whole redirect round trip: emit the
// authorization URL, capture the provider's return on the local redirect
// endpoint, and complete the exchange.
func runAuthorization(mgr *auth.Manager, cfg *config.Config, pending *model.PendingSync) error {
	authURL, err := mgr.Begin(pending)
	if err != nil {
		return err
	}
	fmt.Printf("Please open the following URL in your browser to authorize Syllabuser:\n%s\n", authURL)
	log.Println("Waiting for authorization...")

	params, err := auth.CaptureRedirect(cfg.GoogleRedirectURL, authTimeout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = mgr.Complete(ctx, params)
	return err
}

// deriveLabel picks the calendar label: explicit flag, then the document's
// base name, then the configured default.
func deriveLabel(flagValue, filePath string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	base := filepath.Base(filePath)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." {
		return name
	}
	return cfg.Calendar
}

func printResult(label string, result *model.SyncResult) {
	fmt.Printf("\nSynced to calendar %q: %d of %d events added.\n", label, result.Succeeded, result.Total)
	for _, o := range result.Outcomes {
		if o.Success {
			fmt.Printf("  ok    %s\n", o.Summary)
		} else {
			fmt.Printf("  FAIL  %s: %s\n", o.Summary, o.Error)
		}
	}
}
