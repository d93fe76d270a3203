// Command elib is a CLI client for the faculty e-library.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/config"
	"github.com/uniportfoc/elibrary-client/internal/elib"
	"github.com/uniportfoc/elibrary-client/internal/errs"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `elib CLI
Usage:
  elib [-api URL] [-state DIR] [-v] <cmd> [args]

Commands:
  version
  register  -email <addr>                      (create account, sends OTP)
  login     -email <addr>                      (request OTP)
  verify    -email <addr> -otp <code>          (complete login)
  logout
  whoami
  list      [-refresh]                         (library listing)
  categories                                   (category breakdown)
  upload    -level L -code C -title T -desc D -file PATH
  download  -id <id> [-out DIR]
  feedback  -message M -category C [-rating N] [-email addr] [-file PATH]
  activity                                     (recent actions)
  dashboard                                    (personal stats)
`)
	os.Exit(2)
}

// main dispatches subcommands over one Session wired from the environment.
func main() {
	apiURL := flag.String("api", "", "override API base URL")
	stateDir := flag.String("state", "", "override state directory")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	session, err := elib.New(cfg, logger)
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout+5*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("elib %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "institutional email")
		_ = fs.Parse(args)
		if *email == "" {
			fmt.Fprintln(os.Stderr, "need -email")
			os.Exit(1)
		}
		msg, err := session.AuthAPI.Register(ctx, *email)
		if err != nil {
			fail(err)
		}
		fmt.Println(msg)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "institutional email")
		_ = fs.Parse(args)
		if *email == "" {
			fmt.Fprintln(os.Stderr, "need -email")
			os.Exit(1)
		}
		msg, err := session.AuthAPI.RequestOTP(ctx, *email)
		if err != nil {
			fail(err)
		}
		if msg == "" {
			msg = "OTP sent, complete login with: elib verify -email " + *email + " -otp <code>"
		}
		fmt.Println(msg)

	case "verify":
		fs := flag.NewFlagSet("verify", flag.ExitOnError)
		email := fs.String("email", "", "institutional email")
		otp := fs.String("otp", "", "one-time passcode")
		_ = fs.Parse(args)
		if *email == "" || *otp == "" {
			fmt.Fprintln(os.Stderr, "need -email and -otp")
			os.Exit(1)
		}
		user, err := session.LoginWithOTP(ctx, *email, *otp)
		if err != nil {
			fail(err)
		}
		fmt.Printf("logged in as %s\n", user.Email)

	case "logout":
		session.Restore()
		session.Logout()
		fmt.Println("logged out")

	case "whoami":
		if !session.Restore() {
			fmt.Println("not logged in")
			os.Exit(1)
		}
		st := session.Auth.State()
		fmt.Printf("email: %s\n", st.User.Email)
		if st.User.ID != "" {
			fmt.Printf("id:    %s\n", st.User.ID)
		}
		if exp, ok := tokenExpiry(st.Token); ok {
			fmt.Printf("token: expires %s\n", exp.Local().Format(time.RFC1123))
		}

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		refresh := fs.Bool("refresh", false, "fetch from the backend instead of the cache")
		_ = fs.Parse(args)
		session.Restore()
		if *refresh || len(session.Materials.Items()) == 0 {
			session.Materials.FetchAll(ctx)
		}
		items := session.Materials.Items()
		if len(items) == 0 {
			fmt.Println("no materials")
			return
		}
		for _, m := range items {
			fmt.Printf("%-12s %-10s %-6s %-16s %4d  %s\n",
				m.ID, m.CourseCode, m.Level, m.Category, m.Downloads, m.Title)
		}

	case "categories":
		session.Restore()
		if len(session.Materials.Items()) == 0 {
			session.Materials.FetchAll(ctx)
		}
		for _, c := range session.Materials.Categories() {
			fmt.Printf("%-20s %4d  %5.1f%%\n", c.Name, c.Count, c.Percentage)
		}

	case "upload":
		fs := flag.NewFlagSet("upload", flag.ExitOnError)
		level := fs.String("level", "", "level (e.g. 300)")
		code := fs.String("code", "", "course code")
		title := fs.String("title", "", "course title")
		desc := fs.String("desc", "", "description")
		file := fs.String("file", "", "material file")
		_ = fs.Parse(args)
		if !session.Restore() {
			fail(errs.ErrNoSession)
		}
		data, err := os.ReadFile(*file)
		if err != nil {
			fail(err)
		}
		created, err := session.Upload(ctx, model.MaterialUpload{
			Level:       *level,
			CourseCode:  *code,
			CourseTitle: *title,
			Description: *desc,
			FileName:    filepath.Base(*file),
			File:        data,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("uploaded %s (%s)\n", created.Title, created.ID)

	case "download":
		fs := flag.NewFlagSet("download", flag.ExitOnError)
		id := fs.String("id", "", "material id")
		out := fs.String("out", ".", "output directory")
		_ = fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		session.Restore()
		mat := model.Material{ID: *id}
		for _, m := range session.Materials.Items() {
			if m.ID == *id {
				mat = m
				break
			}
		}
		res, err := session.Download(ctx, mat)
		if err != nil {
			fail(err)
		}
		dest := filepath.Join(*out, res.Filename)
		if err := os.WriteFile(dest, res.Data, 0o644); err != nil {
			fail(err)
		}
		fmt.Printf("saved %s (%d bytes)\n", dest, len(res.Data))

	case "feedback":
		fs := flag.NewFlagSet("feedback", flag.ExitOnError)
		message := fs.String("message", "", "feedback text")
		category := fs.String("category", "General", "feedback category")
		rating := fs.Int("rating", 0, "rating 1-5")
		email := fs.String("email", "", "contact email (optional)")
		file := fs.String("file", "", "attachment (optional)")
		_ = fs.Parse(args)
		if *message == "" {
			fmt.Fprintln(os.Stderr, "need -message")
			os.Exit(1)
		}
		session.Restore()
		fb := model.Feedback{
			Feedback: *message,
			Category: *category,
			Rating:   *rating,
			Email:    *email,
		}
		if *file != "" {
			data, err := os.ReadFile(*file)
			if err != nil {
				fail(err)
			}
			fb.FileName = filepath.Base(*file)
			fb.Attachment = data
		}
		if err := session.SendFeedback(ctx, fb); err != nil {
			fail(err)
		}
		fmt.Println("feedback submitted")

	case "activity":
		if !session.Restore() {
			fail(errs.ErrNoSession)
		}
		entries := session.Activity.Entries()
		if len(entries) == 0 {
			fmt.Println("no recent activity")
			return
		}
		for _, a := range entries {
			fmt.Printf("%-10s %-12s %s\n", a.Type, model.RelativeTime(a.Timestamp), a.Title)
		}

	case "dashboard":
		if !session.Restore() {
			fail(errs.ErrNoSession)
		}
		printJSON(session.Dashboard.State())

	default:
		usage()
	}
}

// ---- helpers ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// tokenExpiry reads the expiry claim without validating the signature.
func tokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func fail(err error) {
	var apiErr *errs.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintln(os.Stderr, apiErr.Error())
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
