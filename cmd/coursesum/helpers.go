package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"coursesum/internal/config"
	"coursesum/internal/render"
	"coursesum/internal/transcript"
)

const maxInputBytes = 16 << 20

// readPage loads page HTML from a file path, an http(s) URL, or "-" for stdin.
// The returned URL is the page URL when the source was fetched.
func readPage(ctx context.Context, arg string, stdin io.Reader, timeout time.Duration) (string, string, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return "", "", errors.New("page source is required (file, URL, or -)")
	case arg == "-":
		data, err := io.ReadAll(io.LimitReader(stdin, maxInputBytes))
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "", nil
	case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
		body, err := transcript.NewFetcher(timeout).Fetch(ctx, arg)
		if err != nil {
			return "", "", err
		}
		return string(body), arg, nil
	default:
		path, err := config.ExpandPath(arg)
		if err != nil {
			return "", "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read page %q: %w", path, err)
		}
		return string(data), "", nil
	}
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// terminalMarkdown renders markdown for out, styled only when out is a terminal.
func terminalMarkdown(out io.Writer, markdown string) string {
	style := render.StyleNoTTY
	if shouldColorize(out) {
		style = render.StyleDark
	}
	width := 80
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 20 {
		width = cols
	}
	return render.Terminal(markdown, style, width).Markup
}

func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "unknown"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
