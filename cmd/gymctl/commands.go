package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"alcyxob/trainer-link/internal/apiclient"
	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/session"
	"alcyxob/trainer-link/internal/trainerkey"

	"golang.org/x/term"
)

const defaultAPI = "http://localhost:8080/api/v1"

var errUsage = errors.New("usage: gymctl [-api URL] key|signin|signout|whoami|exercises ...")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type app struct {
	api      *apiclient.Client
	store    *session.FileStore
	sessions *session.Manager
	in       *bufio.Reader
	out      io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("gymctl", flag.ContinueOnError)
	fs.SetOutput(stdout)
	apiURL := fs.String("api", envOr("GYMCTL_API", defaultAPI), "API root URL")
	sessionPath := fs.String("session", os.Getenv("GYMCTL_SESSION"), "session file (default: user config dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	store := &session.FileStore{Path: *sessionPath}
	if store.Path == "" {
		var err error
		if store, err = session.DefaultFileStore(); err != nil {
			return err
		}
	}

	a := &app{
		api:      apiclient.New(*apiURL, nil),
		store:    store,
		sessions: session.NewManager(),
		in:       bufio.NewReader(stdin),
		out:      stdout,
	}
	defer a.sessions.Close()

	stopPersist := store.Persist(a.sessions, func(err error) {
		fmt.Fprintln(a.out, "warning: could not save session:", err)
	})
	defer stopPersist()
	if err := a.sessions.Start(ctx, store); err != nil {
		fmt.Fprintln(a.out, "warning: saved session ignored:", err)
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "key":
		return a.key(ctx, rest)
	case "signin":
		return a.signIn(ctx, rest)
	case "signout":
		return a.sessions.SignedOut()
	case "whoami":
		return a.whoAmI(ctx)
	case "exercises":
		return a.exercises(ctx, rest)
	}
	return errUsage
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// authed returns the API client carrying the current token, if any.
func (a *app) authed() *apiclient.Client {
	if s := a.sessions.Current().Session; s != nil {
		return a.api.WithToken(s.Token)
	}
	return a.api
}

func (a *app) key(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: gymctl key normalize|generate|validate")
	}
	switch args[0] {
	case "normalize":
		if len(args) < 2 {
			return errors.New("usage: gymctl key normalize <key>")
		}
		k := trainerkey.Normalize(strings.Join(args[1:], " "))
		fmt.Fprintf(a.out, "raw:      %s\ndisplay:  %s\ncomplete: %t\n", k.Raw, k.Display, k.Complete())
		return nil

	case "generate":
		fs := flag.NewFlagSet("key generate", flag.ContinueOnError)
		fs.SetOutput(a.out)
		n := fs.Int("n", 1, "how many keys")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		for i := 0; i < *n; i++ {
			fmt.Fprintln(a.out, trainerkey.Generate())
		}
		return nil

	case "validate":
		if len(args) < 2 {
			return errors.New("usage: gymctl key validate <key>")
		}
		card, err := a.api.ValidateKey(ctx, strings.Join(args[1:], " "))
		if errors.Is(err, apiclient.ErrKeyNotFound) {
			fmt.Fprintln(a.out, "no trainer found for this key")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s (%s)\n", card.DisplayName, card.TrainerKey)
		return nil
	}
	return fmt.Errorf("unknown key command %q", args[0])
}

func (a *app) signIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		fmt.Fprint(a.out, "Email: ")
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		*email = strings.TrimSpace(line)
	}

	fmt.Fprint(a.out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return err
	}

	s, err := a.api.SignIn(ctx, *email, string(pw))
	if err != nil {
		return err
	}
	if err := a.sessions.SignedIn(*s); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", s.Email, s.Role)
	return nil
}

func (a *app) whoAmI(ctx context.Context) error {
	st := a.sessions.Current()
	if !st.SignedIn() {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	p, err := a.authed().Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> %s\n", p.DisplayName, st.Session.Email, p.Role)
	if p.TrainerKey != nil {
		fmt.Fprintf(a.out, "trainer key: %s\n", *p.TrainerKey)
	}
	if p.Trainer != nil {
		fmt.Fprintf(a.out, "trainer: %s (%s)\n", p.Trainer.DisplayName, p.Trainer.TrainerKey)
	}
	return nil
}

func (a *app) exercises(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("exercises", flag.ContinueOnError)
	fs.SetOutput(a.out)
	search := fs.String("search", "", "name or description contains")
	focus := fs.String("focus", "", "focus group contains")
	category := fs.Int("category", 0, "category id")
	limit := fs.Int("limit", catalog.DefaultLimit, "items per page")
	pages := fs.Int("pages", 1, "pages to load")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loader := catalog.NewLoader(a.authed(), *limit)
	if err := loader.SetQuery(ctx, catalog.Query{Search: *search, Focus: *focus, CategoryID: *category}); err != nil {
		return err
	}
	for i := 1; i < *pages && loader.NextOffset() != nil; i++ {
		if err := loader.LoadMore(ctx); err != nil {
			return err
		}
	}

	for _, ex := range loader.Items() {
		line := fmt.Sprintf("%6d  %s", ex.ID, ex.Name)
		if ex.Category != "" {
			line += "  [" + catalog.CategoryLabel(ex.Category) + "]"
		}
		if len(ex.Focus) > 0 {
			line += "  " + strings.Join(ex.Focus, ", ")
		}
		fmt.Fprintln(a.out, line)
	}
	if next := loader.NextOffset(); next != nil {
		fmt.Fprintf(a.out, "more available: -pages %d\n", *pages+1)
	}
	return nil
}
