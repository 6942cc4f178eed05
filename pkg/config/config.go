package config

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

// Options holds the runtime settings of the site. Every option can be given
// as a flag or an environment variable; values from a .env file are loaded
// into the environment first.
type Options struct {
	Listen        string        `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
	AppURL        string        `long:"app-url" env:"APP_URL" default:"http://localhost:8080" description:"public url of the site"`
	SessionSecret string        `long:"session-secret" env:"SESSION_SECRET" description:"cookie session secret"`
	SiteConfig    string        `long:"site-config" env:"SITE_CONFIG" description:"site table file, embedded default when empty"`
	ReadTimeout   time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"15s" description:"http read timeout"`
	WriteTimeout  time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" default:"30s" description:"http write timeout"`

	CMS struct {
		BaseURL string        `long:"base-url" env:"BASE_URL" description:"cms api root, e.g. https://name.microcms.io"`
		APIKey  string        `long:"api-key" env:"API_KEY" description:"cms api key"`
		Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"cms request timeout"`
	} `group:"cms" namespace:"cms" env-namespace:"CMS"`

	SMTP struct {
		Host     string        `long:"host" env:"HOST" description:"smtp host, mails are only logged when empty"`
		Port     int           `long:"port" env:"PORT" default:"587" description:"smtp port"`
		User     string        `long:"user" env:"USER" description:"smtp user, also the sender address"`
		Password string        `long:"pass" env:"PASS" description:"smtp password"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"15s" description:"smtp timeout"`
		Operator string        `long:"operator" env:"OPERATOR" description:"inquiry recipient, company email when empty"`
	} `group:"smtp" namespace:"smtp" env-namespace:"SMTP"`

	Contact struct {
		MinDwell      time.Duration `long:"min-dwell" env:"MIN_DWELL" default:"3s" description:"minimum time between form display and submit"`
		RatePerMinute float64       `long:"rate" env:"RATE" default:"5" description:"submissions per minute per client"`
		Burst         int           `long:"burst" env:"BURST" default:"3" description:"submission burst per client"`
	} `group:"contact" namespace:"contact" env-namespace:"CONTACT"`

	Portal struct {
		ClientID     string   `long:"client-id" env:"CLIENT_ID" description:"oauth2 client id"`
		ClientSecret string   `long:"client-secret" env:"CLIENT_SECRET" description:"oauth2 client secret"`
		AuthURL      string   `long:"auth-url" env:"AUTH_URL" description:"oauth2 authorization endpoint"`
		TokenURL     string   `long:"token-url" env:"TOKEN_URL" description:"oauth2 token endpoint"`
		RedirectURL  string   `long:"redirect-url" env:"REDIRECT_URL" description:"oauth2 redirect url, <app-url>/auth/callback when empty"`
		Scopes       []string `long:"scope" env:"SCOPES" env-delim:"," description:"oauth2 scopes"`
	} `group:"portal" namespace:"portal" env-namespace:"PORTAL"`

	JSONLogs bool `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug    bool `long:"dbg" env:"DEBUG" description:"turn on debug mode"`
}

// Init loads .env (if any) and parses args into Options.
func Init(args []string) (*Options, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	var opts Options
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return nil, err
	}
	return &opts, nil
}

// OAuthConfig returns the client portal login settings, nil when the portal
// is not configured.
func (o *Options) OAuthConfig() *oauth2.Config {
	if o.Portal.ClientID == "" || o.Portal.AuthURL == "" || o.Portal.TokenURL == "" {
		return nil
	}

	redirectURL := o.Portal.RedirectURL
	if redirectURL == "" {
		redirectURL = o.AppURL + "/auth/callback"
	}

	return &oauth2.Config{
		ClientID:     o.Portal.ClientID,
		ClientSecret: o.Portal.ClientSecret,
		Scopes:       o.Portal.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  o.Portal.AuthURL,
			TokenURL: o.Portal.TokenURL,
		},
		RedirectURL: redirectURL,
	}
}
