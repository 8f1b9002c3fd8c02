// convctl is a small operator CLI for a conversation service. It can list
// workspaces, send a single message turn, and export all workspaces to disk.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jimwinquist/conversation-go/conversation"
	"github.com/jimwinquist/conversation-go/internal/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "convctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing subcommand")
	}

	log.Configure(log.Config{Service: "convctl"})

	switch args[0] {
	case "workspaces":
		return cmdWorkspaces(args[1:])
	case "message":
		return cmdMessage(args[1:])
	case "export":
		return cmdExport(args[1:])
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: convctl <command> [flags]

commands:
  workspaces   list workspaces
  message      send one message turn to a workspace
  export       export all workspaces to JSON files`)
}

// newClient builds a client from the config file plus common flags.
func newClient(cfg *Config) (*conversation.Client, error) {
	return conversation.NewClient(conversation.Options{
		URL:         cfg.URL,
		Version:     cfg.Version,
		Username:    cfg.Username,
		Password:    cfg.Password,
		BearerToken: cfg.BearerToken,
		Timeout:     cfg.Timeout,
	})
}

func commonFlags(fs *flag.FlagSet) (configPath, serviceURL *string) {
	configPath = fs.String("config", "", "path to YAML config file")
	serviceURL = fs.String("url", "", "service base URL (overrides config)")
	return configPath, serviceURL
}

func loadMerged(configPath, serviceURL string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if serviceURL != "" {
		cfg.URL = serviceURL
	}
	if cfg.URL == "" {
		return nil, errors.New("no service URL: set -url, config url, or CONVERSATION_URL")
	}
	return cfg, nil
}

func cmdWorkspaces(args []string) error {
	fs := flag.NewFlagSet("workspaces", flag.ContinueOnError)
	configPath, serviceURL := commonFlags(fs)
	pageLimit := fs.Int64("page-limit", 0, "workspaces per page (0 = server default)")
	includeCount := fs.Bool("count", false, "request the total workspace count")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadMerged(*configPath, *serviceURL)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	ctx = log.ContextWithRequestID(ctx, uuid.NewString())

	opts := &conversation.ListOptions{}
	if *pageLimit > 0 {
		opts.PageLimit = conversation.Int64(*pageLimit)
	}
	if *includeCount {
		opts.IncludeCount = conversation.Bool(true)
	}

	for {
		page, err := client.ListWorkspaces(ctx, opts)
		if err != nil {
			return err
		}
		for _, ws := range page.Workspaces {
			status := ""
			if ws.Status != nil {
				status = string(*ws.Status)
			}
			fmt.Printf("%s\t%s\t%s\t%s\n", ws.WorkspaceID, ws.Language, status, ws.Name)
		}
		cursor, ok := page.Pagination.NextCursor()
		if !ok {
			return nil
		}
		opts.Cursor = conversation.String(cursor)
	}
}

func cmdMessage(args []string) error {
	fs := flag.NewFlagSet("message", flag.ContinueOnError)
	configPath, serviceURL := commonFlags(fs)
	workspaceID := fs.String("workspace", "", "workspace ID (required)")
	text := fs.String("text", "", "input text to send")
	statePath := fs.String("state", "", "file holding conversation context between turns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *workspaceID == "" {
		return errors.New("message: -workspace is required")
	}

	cfg, err := loadMerged(*configPath, *serviceURL)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	ctx = log.ContextWithRequestID(ctx, uuid.NewString())

	req := &conversation.MessageRequest{}
	if *text != "" {
		req.Input = &conversation.InputData{Text: *text}
	}
	if *statePath != "" {
		stored, err := readContext(*statePath)
		if err != nil {
			return err
		}
		req.Context = stored
	}

	resp, err := client.Message(ctx, *workspaceID, req, nil)
	if err != nil {
		return err
	}

	if *statePath != "" {
		if err := writeContext(*statePath, &resp.Context); err != nil {
			return err
		}
	}

	for _, intent := range resp.Intents {
		fmt.Printf("intent\t%s\t%g\n", intent.Intent, intent.Confidence)
	}
	for _, ent := range resp.Entities {
		fmt.Printf("entity\t%s\t%s\n", ent.Entity, ent.Value)
	}
	for _, line := range resp.Output.Text {
		fmt.Println(line)
	}
	return nil
}

// readContext loads a stored conversation context. A missing file means a
// fresh conversation, not an error.
func readContext(path string) (*conversation.Context, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}
	var c conversation.Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return &c, nil
}

func writeContext(path string, c *conversation.Context) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state %s: %w", path, err)
	}
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	configPath, serviceURL := commonFlags(fs)
	outDir := fs.String("out", ".", "directory for exported workspace files")
	parallel := fs.Int("parallel", 4, "concurrent workspace exports")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadMerged(*configPath, *serviceURL)
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = log.ContextWithRequestID(ctx, uuid.NewString())
	logger := log.WithComponent("export")

	var ids []string
	opts := &conversation.ListOptions{}
	for {
		page, err := client.ListWorkspaces(ctx, opts)
		if err != nil {
			return err
		}
		for _, ws := range page.Workspaces {
			ids = append(ids, ws.WorkspaceID)
		}
		cursor, ok := page.Pagination.NextCursor()
		if !ok {
			break
		}
		opts.Cursor = conversation.String(cursor)
	}
	logger.Info().Int("workspaces", len(ids)).Str("dir", *outDir).Msg("starting export")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	start := time.Now()
	for _, id := range ids {
		id := id
		g.Go(func() error {
			ws, err := client.GetWorkspace(gctx, id, conversation.Bool(true))
			if err != nil {
				return fmt.Errorf("export %s: %w", id, err)
			}
			data, err := json.MarshalIndent(ws, "", "  ")
			if err != nil {
				return fmt.Errorf("encode %s: %w", id, err)
			}
			name := filepath.Join(*outDir, sanitizeFilename(ws.Name)+"_"+id+".json")
			if err := os.WriteFile(name, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			logger.Debug().Str(log.FieldWorkspaceID, id).Str(log.FieldPath, name).Msg("workspace exported")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Int("workspaces", len(ids)).Dur("elapsed", time.Since(start)).Msg("export complete")
	return nil
}

func sanitizeFilename(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		default:
			return r
		}
	}, name)
	if mapped == "" {
		return "workspace"
	}
	return mapped
}
