package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coursesum/internal/render"
	"coursesum/internal/summaries"
	"coursesum/internal/transcript"
	"coursesum/internal/workflow"
)

type summarizeResult struct {
	Status    string `json:"status"`
	URL       string `json:"url,omitempty"`
	Markdown  string `json:"markdown"`
	HTML      string `json:"html,omitempty"`
	Warning   string `json:"warning,omitempty"`
	SavedID   string `json:"savedId,omitempty"`
	SaveError string `json:"saveError,omitempty"`
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var (
		save    bool
		asHTML  bool
		asJSON  bool
		pageURL string
	)

	cmd := &cobra.Command{
		Use:   "summarize <file|url|->",
		Short: "Extract a lecture transcript from a page and summarize it",
		Long: "Extract the transcript phrases from a saved lecture page, a URL, or HTML on\n" +
			"stdin, send them to the configured model, and print the Markdown summary.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
			html, fetchedURL, err := readPage(runCtx, args[0], cmd.InOrStdin(), timeout)
			if err != nil {
				return err
			}
			source := strings.TrimSpace(pageURL)
			if source == "" {
				source = fetchedURL
			}

			errOut := cmd.ErrOrStderr()
			colorize := shouldColorize(errOut)
			quiet := asJSON
			session := workflow.NewSession(workflow.Deps{
				Store:          store,
				Extractor:      transcript.New(cfg.Extractor),
				Summarizer:     client,
				Renderer:       render.NewRenderer(ctx.log()),
				Summaries:      summaries.NewCollection(store, summaries.WithLogger(ctx.log())),
				FallbackAPIKey: cfg.LLM.APIKey,
				Logger:         ctx.log(),
			}, func(v workflow.View) {
				if quiet || v.Status == "" {
					return
				}
				fmt.Fprintln(errOut, renderStatusLine("Status", classifyStatus(v.Status), v.Status, colorize))
			})

			outcome, err := session.Summarize(runCtx, workflow.Page{HTML: html, URL: source})
			if err != nil {
				desc := workflow.Describe(err)
				if asJSON {
					_ = writeJSON(cmd, summarizeResult{Status: desc.Status})
				}
				fmt.Fprintln(errOut, desc.Output)
				return errReported
			}

			result := summarizeResult{
				Status:   session.View().Status,
				URL:      outcome.URL,
				Markdown: outcome.Markdown,
				Warning:  outcome.Rendered.Warning,
			}
			var saveErr error
			if save {
				if _, saveErr = session.Save(runCtx); saveErr != nil {
					result.SaveError = workflow.Describe(saveErr).Output
				}
				result.Status = session.View().Status
				result.SavedID = session.View().SavedID
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				if asHTML {
					result.HTML = outcome.Rendered.Markup
				}
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			case asHTML:
				fmt.Fprintln(out, outcome.Rendered.Markup)
			default:
				fmt.Fprint(out, terminalMarkdown(out, outcome.Markdown))
			}

			// The summary is already printed; a failed save can be retried
			// while the session still holds the result.
			for saveErr != nil && !asJSON && args[0] != "-" {
				fmt.Fprintln(errOut, workflow.Describe(saveErr).Output)
				retry, err := confirm(cmd.InOrStdin(), errOut, "Retry saving the summary?")
				if err != nil || !retry {
					break
				}
				_, saveErr = session.Save(runCtx)
			}
			if saveErr != nil {
				if asJSON || args[0] == "-" {
					fmt.Fprintln(errOut, workflow.Describe(saveErr).Output)
				}
				return errReported
			}
			if id := session.View().SavedID; save && id != "" && !asJSON {
				fmt.Fprintln(errOut, renderField("Saved", id))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Save the summary after generating it")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the summary rendered as HTML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&pageURL, "url", "", "Page URL recorded with a saved summary")
	return cmd
}
