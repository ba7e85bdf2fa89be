package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"go4example/internal/config"
	"go4example/pkg/capture"
	"go4example/pkg/example"
)

// Markers are split so the lines naming them do not match.
const (
	configSnippet = "README_CONFIG" + "_SNIPPET"
)

// main regenerates README.md from the examples below.
func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "readme", Level: log.InfoLevel})

	// 1. Load Configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if err := cfg.FillFromGit("."); err != nil {
		logger.Warn("no git metadata, links may be incomplete", "err", err)
	}

	// 2. Build the document
	md, err := cfg.Repo().MD(readme, append(cfg.DocOptions(), example.WithLogger(logger))...)
	if err != nil {
		logger.Fatal("failed to build README", "err", err)
	}

	// 3. Write it
	page := example.Page{Title: "go4example", FileName: "README.md"}
	if err := page.Write(afero.NewOsFs(), md); err != nil {
		logger.Fatal("failed to write README", "err", err)
	}
	logger.Info("README written", "path", page.Path())
}

func readme(d *example.Doc) error {
	d.Text(`
		Write documentation for Go libraries as Go code. Examples are taken from
		the source file that builds the document, executed, and rendered together
		with what they printed, so the documentation cannot drift from the code.
	`)

	d.Section("Examples", func() {
		d.Text("An example is a function literal. Its body is shown and then run:")
	})
	out, err := d.Example(func(out *capture.Capture) (any, error) {
		words := strings.Fields("write docs as code")
		out.Printf("%d words\n", len(words))
		return strings.Join(words, "-"), nil
	})
	if err != nil {
		return err
	}
	d.Text("Anything printed on the capture, and the returned value, can be rendered as well:")
	if err := d.RenderExampleOutput(out, false); err != nil {
		return err
	}

	d.Section("Snippets", func() {
		d.Text("Code that should not run can be included from a marked region of any file.")
	})
	// README_CONFIG_SNIPPET
	repo := example.Repository{
		RepoURL:     "https://github.com/acme/widgets",
		SourcePaths: []string{".", "docs"},
	}
	// README_CONFIG_SNIPPET
	if err := d.ExampleFromSnippet("main.go", configSnippet); err != nil {
		return err
	}
	d.Textf("Links built from it point into the repository, e.g. %s.",
		example.MDLink("main.go", repo.URLForFile("main.go")))

	d.Section("Reference", func() {
		d.Text("The most used operations of " + d.LinkToTypeSource(&example.Doc{}) + ":")
	})
	if err := d.Table([]string{"Operation", "Renders"}, [][]string{
		{"Example", "source of a function literal, runs it"},
		{"RenderExampleOutput", "returned value and captured output"},
		{"ExampleFromSnippet", "marked region of a file"},
		{"CodeBlock", "any text as a fenced block"},
		{"Table", "a markdown table"},
	}); err != nil {
		return err
	}

	d.Text("This README is generated by " + d.LinkToSelf("main.go") + ".")
	return d.Err()
}
