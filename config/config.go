package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/joho/godotenv"
)

// Defaults mirror the public FINKI timetable
const (
	DefaultUpstreamBaseURL = "https://finki.edupage.org"
	DefaultTargetClasses   = "2г-ССП,3г-ПИТ,4г-ПИТ,3г-ИМБ,4г-ИМБ,2г-ИМБ,3г-КН,3г-СИИС,4г-СИИС,1y-SEIS,2y-SEIS,3y-SEIS,4y-SEIS,3г-КИ/Oст"
	DefaultExcludedClasses = "1y-SEIS-Int"
	DefaultMergeKey        = "day,subject,class,teacher,room"
)

type Config struct {
	// Server
	Port        string
	AppEnv      string
	CORSOrigins string

	// Logging
	LogLevel string
	LogFile  string

	// Upstream timetable
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	DefaultYear     int
	DebugTT         string

	// Schedule shaping
	TargetClasses   []string
	ExcludedClasses []string
	MergeKey        []string
}

var AppConfig *Config

func LoadConfig() {
	useSSM := getEnv("USE_SSM", "false") == "true"

	var paramMap map[string]string

	// Stage & base path for SSM (allows multi-env without code changes)
	basePath := getEnv("SSM_BASE_PATH", "/finki-timetable")
	stage := getEnv("STAGE", getEnv("APP_ENV", "production"))
	basePath = strings.TrimRight(basePath, "/")
	prefix := basePath + "/" + stage

	if useSSM {
		sess, err := session.NewSession(&aws.Config{Region: aws.String(getEnv("AWS_REGION", "eu-central-1"))})
		if err != nil {
			log.Fatal("Failed to create AWS session:", err)
		}
		log.Printf("Using AWS SSM Parameter Store (prefix=%s)", prefix)
		paramMap = fetchSSMParameters(ssm.New(sess), prefix)
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using environment variables")
		}
	}

	cfg, err := Build(lookupFunc(useSSM, paramMap))
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	AppConfig = cfg

	if err := validateConfig(AppConfig); err != nil {
		log.Fatalf("Invalid configuration (SSM=%v): %v", useSSM, err)
	}
}

// lookupFunc prefers SSM parameters and falls back to the environment
func lookupFunc(useSSM bool, paramMap map[string]string) func(key, def string) string {
	return func(key, def string) string {
		if useSSM {
			// map key stored uppercase
			uk := strings.ToUpper(key)
			if v, ok := paramMap[uk]; ok && v != "" {
				return v
			}
		}
		return getEnv(strings.ToUpper(key), def)
	}
}

// Build assembles a Config from a key lookup.
func Build(getVal func(key, def string) string) (*Config, error) {
	timeout, err := ParseDuration(getVal("UPSTREAM_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	year, err := strconv.Atoi(strings.TrimSpace(getVal("DEFAULT_YEAR", "2025")))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_YEAR: %w", err)
	}

	mergeKey := SplitList(getVal("MERGE_KEY", DefaultMergeKey))
	if len(mergeKey) == 0 {
		mergeKey = SplitList(DefaultMergeKey)
	}

	return &Config{
		Port:        getVal("PORT", "3000"),
		AppEnv:      getVal("APP_ENV", "development"),
		CORSOrigins: getVal("CORS_ORIGINS", "*"),

		LogLevel: getVal("LOG_LEVEL", "info"),
		LogFile:  getVal("LOG_FILE", "logs/app.log"),

		UpstreamBaseURL: strings.TrimRight(getVal("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL), "/"),
		UpstreamTimeout: timeout,
		DefaultYear:     year,
		DebugTT:         getVal("DEBUG_TT", "27"),

		TargetClasses:   SplitList(getVal("TARGET_CLASSES", DefaultTargetClasses)),
		ExcludedClasses: SplitList(getVal("EXCLUDED_CLASSES", DefaultExcludedClasses)),
		MergeKey:        mergeKey,
	}, nil
}

// ParseDuration parses a positive Go duration such as "20s" or "1m30s".
func ParseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %q", s)
	}
	return d, nil
}

// SplitList splits a comma separated value, dropping blank items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// fetchSSMParameters reads all parameters under prefix and returns map with UPPERCASE keys.
func fetchSSMParameters(client *ssm.SSM, prefix string) map[string]string {
	out := make(map[string]string)
	next := aws.String("")
	for {
		in := &ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			WithDecryption: aws.Bool(true),
			Recursive:      aws.Bool(true),
		}
		if *next != "" {
			in.NextToken = next
		}
		resp, err := client.GetParametersByPath(in)
		if err != nil {
			log.Printf("Warning: unable to fetch SSM parameters for prefix %s: %v", prefix, err)
			break
		}
		for _, p := range resp.Parameters {
			if p.Name == nil || p.Value == nil {
				continue
			}
			name := *p.Name
			// last segment after '/'
			key := name
			if idx := strings.LastIndex(name, "/"); idx >= 0 {
				key = name[idx+1:]
			}
			if key == "" {
				continue
			}
			out[strings.ToUpper(key)] = *p.Value
		}
		if resp.NextToken == nil || *resp.NextToken == "" {
			break
		}
		next = resp.NextToken
	}
	return out
}

func validateConfig(c *Config) error {
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must be an absolute http(s) URL, got %q", c.UpstreamBaseURL)
	}
	if len(c.TargetClasses) == 0 {
		return fmt.Errorf("TARGET_CLASSES must name at least one class group")
	}
	// Only enforce stricter rules in production
	if strings.ToLower(c.AppEnv) != "production" {
		return nil
	}
	if u.Scheme != "https" {
		return fmt.Errorf("UPSTREAM_BASE_URL must use https in production")
	}
	return nil
}
