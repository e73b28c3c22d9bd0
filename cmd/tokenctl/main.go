package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/bionicotaku/lingo-utils-tokenauth"
)

const usage = `usage: tokenctl <command> [flags]

commands:
  issue    issue a token for a user profile
  inspect  validate an authorization header and print its claims

Secret and lifetime come from -secret/-minutes, TOKEN_SECRET/TOKEN_EXPIRATION_MINUTES
or the .env file named by TOKENAUTH_ENV_FILE (default .env).
`

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := loadEnvFile(defaultEnvPath()); err != nil {
		log.WithError(err).Warn("load env file")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "issue":
		err = runIssue(os.Args[2:], os.Stdout, log)
	case "inspect":
		err = runInspect(os.Args[2:], os.Stdout, log)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.WithField("code", tokenauth.CodeOf(err)).Error(err)
		os.Exit(1)
	}
}

func defaultEnvPath() string {
	if path := os.Getenv("TOKENAUTH_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

// loadEnvFile applies the file without overriding variables already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

type authorityFlags struct {
	secret   *string
	minutes  *string
	logLevel *string
}

func registerAuthorityFlags(fs *flag.FlagSet) authorityFlags {
	return authorityFlags{
		secret:   fs.String("secret", os.Getenv(tokenauth.EnvSecret), "Signing secret (env TOKEN_SECRET)"),
		minutes:  fs.String("minutes", os.Getenv(tokenauth.EnvExpirationMinutes), "Token lifetime in minutes (env TOKEN_EXPIRATION_MINUTES, default 60)"),
		logLevel: fs.String("log-level", "info", "Log level"),
	}
}

func (f authorityFlags) authority(log *logrus.Logger) (*tokenauth.Authority, error) {
	level, err := logrus.ParseLevel(*f.logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	policy, err := tokenauth.PolicyFromEnv(func(key string) (string, bool) {
		switch key {
		case tokenauth.EnvSecret:
			return *f.secret, *f.secret != ""
		case tokenauth.EnvExpirationMinutes:
			return *f.minutes, *f.minutes != ""
		}
		return "", false
	})
	if err != nil {
		return nil, err
	}
	return tokenauth.NewAuthority(policy, tokenauth.WithLogger(log))
}

// optionalString records whether a flag was given, so an explicit empty value
// is kept apart from an absent one.
type optionalString struct {
	value *string
}

func (o *optionalString) String() string {
	if o.value == nil {
		return ""
	}
	return *o.value
}

func (o *optionalString) Set(v string) error {
	o.value = tokenauth.String(v)
	return nil
}

func runIssue(args []string, out io.Writer, log *logrus.Logger) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	af := registerAuthorityFlags(fs)

	var id, username, firstName, lastName, email, photo optionalString
	fs.Var(&id, "id", "User id")
	fs.Var(&username, "username", "Username")
	fs.Var(&firstName, "first-name", "First name")
	fs.Var(&lastName, "last-name", "Last name")
	fs.Var(&email, "email", "Email address")
	fs.Var(&photo, "photo", "Profile photo URL")
	roles := fs.String("roles", "", "Comma separated roles, e.g. User or Administrator,Service")
	header := fs.Bool("header", false, `Print a full "Bearer <token>" header value`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	authority, err := af.authority(log)
	if err != nil {
		return err
	}

	profile := &tokenauth.UserProfile{
		ID:           id.value,
		Username:     username.value,
		FirstName:    firstName.value,
		LastName:     lastName.value,
		Email:        email.value,
		ProfilePhoto: photo.value,
		Roles:        splitRoles(*roles),
	}
	token, err := authority.Issue(profile)
	if err != nil {
		return err
	}
	if *header {
		token = "Bearer " + token
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func runInspect(args []string, out io.Writer, log *logrus.Logger) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	af := registerAuthorityFlags(fs)
	header := fs.String("header", os.Getenv("TOKENAUTH_HEADER"), `Authorization header value "Bearer <token>" (env TOKENAUTH_HEADER)`)
	token := fs.String("token", "", "Bare token; the Bearer prefix is added")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *header == "" && *token != "" {
		*header = "Bearer " + *token
	}
	if *header == "" {
		fs.Usage()
		return errors.New("header or token is required")
	}

	authority, err := af.authority(log)
	if err != nil {
		return err
	}
	claims, err := authority.Validate(*header)
	if err != nil {
		return err
	}
	printClaims(out, claims)
	return nil
}

func splitRoles(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

func printClaims(out io.Writer, claims *tokenauth.Claims) {
	fmt.Fprintln(out, "== Token Verified ==")
	fmt.Fprintf(out, "user_id          : %s\n", claims.UserID)
	fmt.Fprintf(out, "least_privileged : %t\n", claims.LeastPrivileged())
	fmt.Fprintf(out, "roles            : %s\n", strings.Join(claims.Roles, ", "))
	fmt.Fprintf(out, "name             : %s\n", claims.Name)
	fmt.Fprintf(out, "given_name       : %s\n", claims.GivenName)
	fmt.Fprintf(out, "email            : %s\n", claims.Email)
	if !claims.NotBefore.IsZero() {
		fmt.Fprintf(out, "not_before       : %s\n", claims.NotBefore.Format(time.RFC3339))
	}
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires_at       : %s\n", claims.ExpiresAt.Format(time.RFC3339))
	}
	fmt.Fprintln(out, "claims:")
	for _, c := range claims.Raw {
		fmt.Fprintf(out, "  %s: %s\n", c.Name, c.Value)
	}
}
