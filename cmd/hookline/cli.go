package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/hookline/hookline/internal/adapter/linear"
	"github.com/hookline/hookline/internal/adapter/openai"
	"github.com/hookline/hookline/internal/config"
	"github.com/hookline/hookline/internal/port/tracker"
)

// runCLI dispatches the manual tracker subcommands (teams, issues, comment).
func runCLI(cmd string, args []string) error {
	switch cmd {
	case "teams":
		return runTeams(args)
	case "issues":
		return runIssues(args)
	case "comment":
		return runComment(args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// loadTrackerClient loads config and builds an authenticated tracker
// client, prompting for a token on the terminal when none is configured.
func loadTrackerClient() (*linear.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	token := cfg.Tracker.AccessToken
	if token == "" {
		token, err = promptToken("Tracker access token: ")
		if err != nil {
			return nil, nil, fmt.Errorf("read token: %w", err)
		}
		if token == "" {
			return nil, nil, fmt.Errorf("an access token is required")
		}
	}

	return linear.NewClient(cfg.Tracker.APIURL, token), cfg, nil
}

func runTeams(args []string) error {
	fs := flag.NewFlagSet("teams", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := loadTrackerClient()
	if err != nil {
		return err
	}

	teams, err := client.Teams(context.Background())
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}

	if len(teams) == 0 {
		fmt.Println("No teams found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tKEY\tNAME")
	for i := range teams {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", teams[i].ID, teams[i].Key, teams[i].Name)
	}
	return w.Flush()
}

func runIssues(args []string) error {
	fs := flag.NewFlagSet("issues", flag.ContinueOnError)
	teamFlag := fs.String("team", "", "comma-separated team IDs (defaults to all teams)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := loadTrackerClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var teamIDs []string
	if *teamFlag != "" {
		teamIDs = strings.Split(*teamFlag, ",")
	} else {
		teams, err := client.Teams(ctx)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		for i := range teams {
			teamIDs = append(teamIDs, teams[i].ID)
		}
	}

	if len(teamIDs) == 0 {
		fmt.Println("No teams found.")
		return nil
	}

	// Fetch each team's issues concurrently; one slow team should not
	// serialize the rest.
	var mu sync.Mutex
	byTeam := make(map[string][]tracker.Issue, len(teamIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range teamIDs {
		g.Go(func() error {
			issues, err := client.TeamIssues(gctx, id)
			if err != nil {
				return fmt.Errorf("issues for team %s: %w", id, err)
			}
			mu.Lock()
			byTeam[id] = issues
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TEAM\tID\tSTATE\tASSIGNEE\tTITLE")
	for _, teamID := range teamIDs {
		for _, iss := range byTeam[teamID] {
			assignee := "-"
			if iss.Assignee != nil {
				assignee = iss.Assignee.Name
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", teamID, iss.ID, iss.State, assignee, iss.Title)
		}
	}
	return w.Flush()
}

func runComment(args []string) error {
	fs := flag.NewFlagSet("comment", flag.ContinueOnError)
	issueID := fs.String("issue", "", "issue ID (required)")
	body := fs.String("body", "", "comment body (required unless --prompt is given)")
	prompt := fs.String("prompt", "", "generate the body from this prompt via the completion API")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *issueID == "" {
		return fmt.Errorf("--issue is required")
	}
	if *body == "" && *prompt == "" {
		return fmt.Errorf("one of --body or --prompt is required")
	}

	client, cfg, err := loadTrackerClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	text := *body
	if text == "" {
		if cfg.Completion.APIKey == "" {
			return fmt.Errorf("--prompt requires a completion API key (OPENAI_API_KEY)")
		}
		completer := openai.NewClient(cfg.Completion.APIURL, cfg.Completion.APIKey, cfg.Completion.Model)
		text, err = completer.Complete(ctx, *prompt)
		if err != nil {
			return fmt.Errorf("generate comment: %w", err)
		}
	}

	comment, err := client.CreateComment(ctx, *issueID, text)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Comment created: %s\n", comment.ID)
	return nil
}

// promptToken reads a secret from the terminal without echoing.
func promptToken(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
