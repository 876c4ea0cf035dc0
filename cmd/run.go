package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/domtestio/domtest/dom"
	"github.com/domtestio/domtest/harness"
)

const defaultRunTimeout = 30 * time.Second

type runCmd struct {
	root *rootCommand

	stylesheets []string
	timeout     time.Duration
}

func getRunCmd(ctx context.Context, root *rootCommand) *cobra.Command {
	r := &runCmd{root: root}
	cmd := &cobra.Command{
		Use:   "run <fixture.html>",
		Short: "Load a fixture, wait for its nested frames and inject stylesheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return r.run(ctx, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVarP(&r.stylesheets, "stylesheet", "s", nil, "stylesheet to inject, path or URL (repeatable)")
	flags.DurationVar(&r.timeout, "timeout", 0, "overall run timeout")
	return cmd
}

func (r *runCmd) run(ctx context.Context, fixturePath string) error {
	logger := r.root.logger
	start := time.Now()

	timeout := defaultRunTimeout
	if conf, err := getConfig(); err == nil && conf.Timeout.Valid {
		timeout = conf.Timeout.ValueOrZero()
	}
	if r.timeout > 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fs := afero.NewOsFs()
	abs, err := filepath.Abs(fixturePath)
	if err != nil {
		return err
	}

	top, frames, err := buildFrameTree(fs, abs, 0)
	if err != nil {
		return fmt.Errorf("building frame tree from %s: %w", fixturePath, err)
	}
	logger.WithField("frames", len(frames)).Debug("Frame tree built")

	// Documents parse in the loading state; completing them
	// asynchronously is what the awaiter is there to coordinate.
	for _, f := range frames {
		doc := f.Document()
		go doc.FinishLoading()
	}
	if err := harness.WaitForNestedLoad(ctx, top); err != nil {
		fmt.Fprintln(os.Stdout, failColor.Sprintf("✗ %s failed to load: %v", fixturePath, err))
		return err
	}

	if len(r.stylesheets) > 0 {
		base := &url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Dir(abs)) + "/"}
		sheets := make([]harness.StyleSheet, len(r.stylesheets))
		for i, href := range r.stylesheets {
			sheets[i] = harness.StyleSheet{Href: href}
		}
		q := harness.AddStyleSheets(top.Document(), sheets, harness.StyleSheetOptions{
			Logger:      logger,
			Base:        base,
			Filesystems: map[string]afero.Fs{"file": fs, "http": afero.NewMemMapFs(), "https": afero.NewMemMapFs()},
		})
		q.Then(nil, nil)
		if _, err := q.Wait(ctx); err != nil {
			fmt.Fprintln(os.Stdout, failColor.Sprintf("✗ stylesheet injection failed: %v", err))
			return err
		}
	}

	fmt.Fprintln(os.Stdout, succeedColor.Sprintf(
		"✓ %s: %d frame(s), %d stylesheet(s) in %s",
		fixturePath, len(frames), len(r.stylesheets), time.Since(start).Round(time.Millisecond)))
	return nil
}

// maxFrameDepth guards against iframe cycles on disk; the browser
// frame tree is acyclic but files referencing each other are not.
const maxFrameDepth = 16

// buildFrameTree parses the fixture at path and recursively attaches
// a child frame for every iframe whose src resolves to a readable
// file. It returns the top frame and every frame in the tree.
func buildFrameTree(fs afero.Fs, path string, depth int) (*dom.Frame, []*dom.Frame, error) {
	if depth > maxFrameDepth {
		return nil, nil, fmt.Errorf("frame tree deeper than %d, likely an iframe cycle", maxFrameDepth)
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := dom.Parse(f)
	_ = f.Close()
	if err != nil {
		return nil, nil, err
	}
	doc.SetURL("file://" + filepath.ToSlash(path))

	frame := dom.NewFrame(filepath.Base(path), doc)
	frames := []*dom.Frame{frame}

	var attachErr error
	for _, n := range doc.Find("iframe[src]").Nodes {
		var src string
		for _, a := range n.Attr {
			if a.Key == "src" {
				src = a.Val
				break
			}
		}
		if src == "" {
			continue
		}
		childPath := filepath.Join(filepath.Dir(path), filepath.FromSlash(src))
		child, sub, err := buildFrameTree(fs, childPath, depth+1)
		if err != nil {
			attachErr = fmt.Errorf("iframe %q: %w", src, err)
			break
		}
		if err := frame.AttachFrame(fmt.Sprintf("iframe[src=%q]", src), child); err != nil {
			attachErr = err
			break
		}
		frames = append(frames, sub...)
	}
	if attachErr != nil {
		return nil, nil, attachErr
	}
	return frame, frames, nil
}
